package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/gitrepo/internal/core/styles"
	"github.com/hay-kot/gitrepo/internal/core/validate"
	"github.com/hay-kot/gitrepo/pkg/gitrepo"
	"github.com/hay-kot/gitrepo/pkg/iojson"
)

type BranchCmd struct {
	flags *Flags

	// flags
	scope  string
	format string
}

// NewBranchCmd creates a new branch command
func NewBranchCmd(flags *Flags) *BranchCmd {
	return &BranchCmd{flags: flags}
}

// Register adds the branch command and its subcommands to the application
func (cmd *BranchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "branch",
		Usage: "List, create and switch branches",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List branches",
				UsageText: "gitrepo branch list [--scope local|remote|all] [--format text|json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "scope",
						Usage:       "which branches to list (local, remote, all)",
						Value:       "local",
						Destination: &cmd.scope,
					},
					formatFlag(&cmd.format),
				},
				Action: cmd.runList,
			},
			{
				Name:      "current",
				Usage:     "Print the checked-out branch",
				UsageText: "gitrepo branch current",
				Action:    cmd.runCurrent,
			},
			{
				Name:      "create",
				Usage:     "Create a branch from HEAD and switch to it",
				UsageText: "gitrepo branch create <name>",
				Action:    cmd.runCreate,
			},
			{
				Name:      "checkout",
				Usage:     "Switch to an existing branch",
				UsageText: "gitrepo branch checkout <name>",
				Action:    cmd.runCheckout,
			},
			{
				Name:      "search",
				Usage:     "List remote-tracking branches containing a pattern",
				UsageText: "gitrepo branch search <pattern> [--format text|json]",
				Flags:     []cli.Flag{formatFlag(&cmd.format)},
				Action:    cmd.runSearch,
			},
		},
	})

	return app
}

func (cmd *BranchCmd) runList(ctx context.Context, c *cli.Command) error {
	format, err := iojson.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	scope, err := gitrepo.ParseBranchScope(cmd.scope)
	if err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "branch list")
	if err != nil {
		return err
	}

	branches, err := repo.Branches(ctx, scope)
	if err != nil {
		return failJSON(c, format, err)
	}

	return cmd.writeBranches(c, format, branches)
}

func (cmd *BranchCmd) runCurrent(ctx context.Context, c *cli.Command) error {
	ctx, repo, err := cmd.flags.openRepo(ctx, "branch current")
	if err != nil {
		return err
	}

	branch, err := repo.ActiveBranch(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, branch.Name)
	return nil
}

func (cmd *BranchCmd) runCreate(ctx context.Context, c *cli.Command) error {
	name := c.Args().First()
	if err := validate.BranchNameField("name", name); err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "branch create")
	if err != nil {
		return err
	}

	branch, err := repo.CreateBranch(ctx, name)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.TextSuccessStyle.Render("created"), branch.Name)
	return nil
}

func (cmd *BranchCmd) runCheckout(ctx context.Context, c *cli.Command) error {
	name := c.Args().First()
	if err := validate.RequiredField("name", name); err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "branch checkout")
	if err != nil {
		return err
	}

	if _, err := repo.Checkout(ctx, name); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.TextSuccessStyle.Render("switched to"), name)
	return nil
}

func (cmd *BranchCmd) runSearch(ctx context.Context, c *cli.Command) error {
	format, err := iojson.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	pattern := c.Args().First()
	if err := validate.RequiredField("pattern", pattern); err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "branch search")
	if err != nil {
		return err
	}

	branches, err := repo.RemoteBranchesByPattern(ctx, pattern)
	if err != nil {
		return failJSON(c, format, err)
	}

	return cmd.writeBranches(c, format, branches)
}

func (cmd *BranchCmd) writeBranches(c *cli.Command, format iojson.Format, branches []gitrepo.Branch) error {
	out := c.Root().Writer
	if format == iojson.FormatJSON {
		return iojson.WriteWith(out, c.Root().ErrWriter, branches)
	}

	if len(branches) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No branches found")
		return nil
	}

	writeNames(out, branches)
	return nil
}

func writeNames(w io.Writer, branches []gitrepo.Branch) {
	for _, b := range branches {
		_, _ = fmt.Fprintln(w, b.Name)
	}
}
