package commands

import (
	"github.com/urfave/cli/v3"
)

// NewRootCmd builds the gitrepo command tree with its global flags bound to
// flags. Callers attach Before/After hooks and the version.
func NewRootCmd(flags *Flags) *cli.Command {
	root := &cli.Command{
		Name:      "gitrepo",
		Usage:     "Inspect and manage a git repository",
		UsageText: "gitrepo [global options] command [command options]",
		Description: `gitrepo drives the git executable against one repository at a time.

Every operation runs git with an argument list (never a shell) in the directory
selected by --repo, and parses the output into structured results.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("GITREPO_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file instead of stderr",
				Sources:     cli.EnvVars("GITREPO_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("GITREPO_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "repo",
				Aliases:     []string{"C"},
				Usage:       "repository directory",
				Sources:     cli.EnvVars("GITREPO_REPO"),
				Value:       ".",
				Destination: &flags.RepoPath,
			},
			&cli.StringFlag{
				Name:        "git-path",
				Usage:       "git executable (overrides git_path in the config file)",
				Sources:     cli.EnvVars("GITREPO_GIT_PATH"),
				Destination: &flags.GitPath,
			},
		},
	}

	root = NewStatusCmd(flags).Register(root)
	root = NewBranchCmd(flags).Register(root)
	root = NewRemoteCmd(flags).Register(root)
	root = NewInitCmd(flags).Register(root)
	root = NewDescribeCmd(flags).Register(root)
	root = NewLogCmd(flags).Register(root)
	root = NewDoctorCmd(flags).Register(root)
	root = NewConfigCmd(flags).Register(root)

	return root
}
