package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/gitrepo/pkg/iojson"
)

type RemoteCmd struct {
	flags  *Flags
	format string
}

// NewRemoteCmd creates a new remote command
func NewRemoteCmd(flags *Flags) *RemoteCmd {
	return &RemoteCmd{flags: flags}
}

// Register adds the remote command to the application
func (cmd *RemoteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "remote",
		Usage: "Inspect remotes",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List remotes with their fetch and push URLs",
				UsageText: "gitrepo remote list [--format text|json]",
				Flags:     []cli.Flag{formatFlag(&cmd.format)},
				Action:    cmd.runList,
			},
		},
	})

	return app
}

func (cmd *RemoteCmd) runList(ctx context.Context, c *cli.Command) error {
	format, err := iojson.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	ctx, repo, err := cmd.flags.openRepo(ctx, "remote list")
	if err != nil {
		return err
	}

	remotes, err := repo.Remotes(ctx)
	if err != nil {
		return failJSON(c, format, err)
	}

	out := c.Root().Writer
	if format == iojson.FormatJSON {
		return iojson.WriteWith(out, c.Root().ErrWriter, remotes)
	}

	if len(remotes) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No remotes configured")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tURL\tTYPE")
	for _, r := range remotes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.URL, r.Type)
	}
	return w.Flush()
}
