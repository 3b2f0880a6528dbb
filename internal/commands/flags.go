package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/gitrepo/internal/core/config"
	"github.com/hay-kot/gitrepo/internal/core/logging"
	"github.com/hay-kot/gitrepo/pkg/executil"
	"github.com/hay-kot/gitrepo/pkg/gitrepo"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	RepoPath   string
	GitPath    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Executor runs every git process started by the CLI
	Executor executil.Executor

	// Factory opens and creates repositories with the configured git and environment
	Factory *gitrepo.Factory
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return config.DefaultPath()
}

// Setup loads the config file, applies flag overrides and builds the executor and
// repository factory. The global logger must already be configured.
func (f *Flags) Setup() error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if f.GitPath != "" {
		cfg.GitPath = f.GitPath
	}

	f.Config = cfg
	f.Executor = executil.NewRealExecutor(cfg.CommandTimeout, logging.Component("executor"))
	f.Factory = gitrepo.NewFactory(gitrepo.Options{
		GitPath:  cfg.GitPath,
		Executor: f.Executor,
		Logger:   logging.Component("repo"),
		Matching: cfg.Matching(),
		Env:      cfg.Env,
	})

	return nil
}

// openRepo opens the repository selected by --repo and tags ctx for logging.
func (f *Flags) openRepo(ctx context.Context, op string) (context.Context, *gitrepo.Repository, error) {
	ctx = logging.WithOperation(ctx, op)

	repo, err := f.Factory.Open(ctx, f.RepoPath)
	if err != nil {
		return ctx, nil, fmt.Errorf("open repository: %w", err)
	}

	return logging.WithRepo(ctx, repo.Path()), repo, nil
}
