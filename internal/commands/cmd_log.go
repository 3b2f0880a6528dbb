package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/gitrepo/pkg/gitrepo"
)

// defaultLogFormat prints short hash and subject.
const defaultLogFormat = "%h %s"

type LogCmd struct {
	flags *Flags

	// flags
	limit  int
	grep   string
	format string
}

// NewLogCmd creates a new log command
func NewLogCmd(flags *Flags) *LogCmd {
	return &LogCmd{flags: flags}
}

// Register adds the log command to the application
func (cmd *LogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "log",
		Usage:     "Show commit history",
		UsageText: "gitrepo log [--limit N] [--grep TEXT] [--pretty FORMAT] [-- paths...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of commits",
				Value:       10,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "grep",
				Usage:       "only commits whose message matches",
				Destination: &cmd.grep,
			},
			&cli.StringFlag{
				Name:        "pretty",
				Usage:       "git pretty format string",
				Value:       defaultLogFormat,
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LogCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "log")
	if err != nil {
		return err
	}

	out, err := repo.Log(ctx, gitrepo.LogOptions{
		Limit:  cmd.limit,
		Grep:   cmd.grep,
		Format: cmd.format,
		Paths:  c.Args().Slice(),
	})
	if err != nil {
		return err
	}

	if out = strings.TrimRight(out, "\n"); out != "" {
		_, _ = fmt.Fprintln(c.Root().Writer, out)
	}
	return nil
}
