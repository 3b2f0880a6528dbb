package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

type DescribeCmd struct {
	flags *Flags
}

// NewDescribeCmd creates a new describe command
func NewDescribeCmd(flags *Flags) *DescribeCmd {
	return &DescribeCmd{flags: flags}
}

// Register adds the describe command to the application
func (cmd *DescribeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "describe",
		Usage:       "Print or replace the repository description",
		UsageText:   "gitrepo describe [text...]",
		Description: "With no arguments prints the description file. With arguments, joins them with spaces and writes the result.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *DescribeCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, repo, err := cmd.flags.openRepo(ctx, "describe")
	if err != nil {
		return err
	}

	if c.Args().Len() == 0 {
		text, err := repo.Description(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(c.Root().Writer, text)
		return nil
	}

	text := strings.Join(c.Args().Slice(), " ") + "\n"
	return repo.SetDescription(ctx, text)
}
