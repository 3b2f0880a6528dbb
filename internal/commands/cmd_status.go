package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/gitrepo/internal/core/styles"
	"github.com/hay-kot/gitrepo/pkg/executil"
	"github.com/hay-kot/gitrepo/pkg/gitstatus"
	"github.com/hay-kot/gitrepo/pkg/iojson"
)

type StatusCmd struct {
	flags  *Flags
	format string
}

// NewStatusCmd creates a new status command
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status command to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Show the branch, changed files and untracked files",
		UsageText: "gitrepo status [--format text|json]",
		Flags:     []cli.Flag{formatFlag(&cmd.format)},
		Action:    cmd.run,
	})

	return app
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	format, err := iojson.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "status")
	if err != nil {
		return err
	}

	st, err := repo.Status(ctx)
	if err != nil {
		return failJSON(c, format, fmt.Errorf("status: %w", err))
	}

	out := c.Root().Writer
	if format == iojson.FormatJSON {
		return iojson.WriteWith(out, c.Root().ErrWriter, st)
	}

	printStatus(out, st)
	return nil
}

// formatFlag returns a --format flag bound to dest.
func formatFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "format",
		Usage:       "output format (text, json)",
		Value:       "text",
		Destination: dest,
	}
}

// failJSON writes err as an iojson.Error on stdout when JSON output was requested,
// then returns err unchanged.
func failJSON(c *cli.Command, format iojson.Format, err error) error {
	if format == iojson.FormatJSON {
		_ = iojson.WriteError(c.Root().Writer, err.Error(), map[string]any{
			"exit_code": executil.ExitCode(err),
		})
	}
	return err
}

func printStatus(w io.Writer, st gitstatus.Status) {
	branch := st.Branch
	if !st.HasBranch() {
		branch = styles.TextMutedStyle.Render("(unknown)")
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.TextForegroundBoldStyle.Render("branch"), branch)

	if st.IsClean() {
		_, _ = fmt.Fprintln(w, styles.TextSuccessStyle.Render("clean"))
		return
	}

	printSection(w, "changes", st.Changes, styles.TextWarningStyle.Render)
	printSection(w, "untracked", st.Untracked, styles.TextErrorStyle.Render)
}

func printSection(w io.Writer, title string, paths []string, render func(...string) string) {
	if len(paths) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, styles.TextForegroundBoldStyle.Render(title))
	for _, p := range paths {
		_, _ = fmt.Fprintf(w, "  %s\n", render(p))
	}
}
