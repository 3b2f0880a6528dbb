package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/gitrepo/internal/core/logging"
	"github.com/hay-kot/gitrepo/internal/core/styles"
	"github.com/hay-kot/gitrepo/internal/core/validate"
	"github.com/hay-kot/gitrepo/pkg/gitrepo"
)

type InitCmd struct {
	flags *Flags

	// clone flags
	remote    bool
	reference string
}

// NewInitCmd creates the init and clone commands
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init and clone commands to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:        "init",
			Usage:       "Create an empty repository",
			UsageText:   "gitrepo init <path>",
			Description: "Creates <path> if needed (its parent must exist) and runs git init inside it.",
			Action:      cmd.runInit,
		},
		&cli.Command{
			Name:      "clone",
			Usage:     "Create a repository by cloning another",
			UsageText: "gitrepo clone <source> <path> [--remote --reference DIR]",
			Description: `Clones <source> into <path>.

A local <source> is cloned with --local. With --remote, <source> is treated as a URL
and --reference must name a local working repository to borrow objects from.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "remote",
					Usage:       "treat source as a remote URL",
					Destination: &cmd.remote,
				},
				&cli.StringFlag{
					Name:        "reference",
					Usage:       "local repository passed to git clone --reference",
					Destination: &cmd.reference,
				},
			},
			Action: cmd.runClone,
		},
	)

	return app
}

func (cmd *InitCmd) runInit(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if err := validate.RequiredField("path", path); err != nil {
		return err
	}

	ctx = logging.WithOperation(ctx, "init")
	repo, err := cmd.flags.Factory.Create(ctx, path, gitrepo.CreateOptions{})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.TextSuccessStyle.Render("initialized"), repo.Path())
	return nil
}

func (cmd *InitCmd) runClone(ctx context.Context, c *cli.Command) error {
	source, path := c.Args().Get(0), c.Args().Get(1)
	if err := validate.RequiredField("source", source); err != nil {
		return err
	}
	if err := validate.RequiredField("path", path); err != nil {
		return err
	}

	ctx = logging.WithOperation(ctx, "clone")
	repo, err := cmd.flags.Factory.Create(ctx, path, gitrepo.CreateOptions{
		Source:    source,
		Remote:    cmd.remote,
		Reference: cmd.reference,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.TextSuccessStyle.Render("cloned into"), repo.Path())
	return nil
}
