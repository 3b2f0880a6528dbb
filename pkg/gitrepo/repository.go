package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/gitrepo/pkg/executil"
	"github.com/hay-kot/gitrepo/pkg/gitstatus"
)

// DefaultGitPath resolves git from PATH.
const DefaultGitPath = "git"

// Options configures how repositories run git.
type Options struct {
	// GitPath is the git executable. Empty uses DefaultGitPath.
	GitPath string
	// Executor runs git. Nil uses an executil.RealExecutor logging through Logger.
	Executor executil.Executor
	Logger   zerolog.Logger
	// Matching is the status parsing mode.
	Matching gitstatus.Matching
	// Env is copied into every repository as its initial environment overlay.
	Env map[string]string
}

func (o Options) withDefaults() Options {
	if o.GitPath == "" {
		o.GitPath = DefaultGitPath
	}
	if o.Executor == nil {
		o.Executor = executil.NewRealExecutor(0, o.Logger)
	}
	return o
}

// Repository is a handle on one repository directory. It is not safe for
// concurrent use.
type Repository struct {
	path     string
	bare     bool
	gitPath  string
	exec     executil.Executor
	log      zerolog.Logger
	matching gitstatus.Matching
	env      map[string]string
}

// New binds a Repository to path following the resolution policy in ropts. A
// directory that is not yet a repository is initialized when ropts.Init is set.
func New(ctx context.Context, path string, opts Options, ropts ResolveOptions) (*Repository, error) {
	loc, err := resolve(path, ropts)
	if err != nil {
		return nil, err
	}

	r := newRepository(loc, opts)
	if !loc.isRepo {
		if _, err := r.Init(ctx); err != nil {
			if loc.created {
				_ = os.RemoveAll(loc.path)
			}
			return nil, err
		}
		r.bare = IsBareRepository(r.path)
	}

	return r, nil
}

func newRepository(loc location, opts Options) *Repository {
	opts = opts.withDefaults()

	env := make(map[string]string, len(opts.Env))
	for k, v := range opts.Env {
		env[k] = v
	}

	return &Repository{
		path:     loc.path,
		bare:     loc.bare,
		gitPath:  opts.GitPath,
		exec:     opts.Executor,
		log:      opts.Logger.With().Str("repo", loc.path).Logger(),
		matching: opts.Matching,
		env:      env,
	}
}

// Path returns the absolute repository root.
func (r *Repository) Path() string { return r.path }

// IsBare reports whether the repository has no working tree.
func (r *Repository) IsBare() bool { return r.bare }

// GitDir returns the metadata directory.
func (r *Repository) GitDir() string {
	if r.bare {
		return r.path
	}
	return filepath.Join(r.path, ".git")
}

// SetEnv sets key for every later command, replacing any earlier value.
func (r *Repository) SetEnv(key, value string) {
	if r.env == nil {
		r.env = map[string]string{}
	}
	r.env[key] = value
}

// Env returns a copy of the environment overlay.
func (r *Repository) Env() map[string]string {
	env := make(map[string]string, len(r.env))
	for k, v := range r.env {
		env[k] = v
	}
	return env
}

// run executes git with args in the repository root and returns stderr followed
// by stdout. The text is returned on failure as well.
func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	res, err := r.exec.Exec(ctx, executil.Command{
		Dir:  r.path,
		Name: r.gitPath,
		Args: args,
		Env:  r.Env(),
	})
	if err != nil {
		return res.Combined(), fmt.Errorf("git %s: %w", args[0], err)
	}
	return res.Combined(), nil
}

// Init runs `git init` in the repository root.
func (r *Repository) Init(ctx context.Context) (string, error) {
	if r.path == "" {
		return "", ErrPathNotSet
	}
	r.log.Debug().Msg("initializing repository")
	return r.run(ctx, "init", ".")
}

// Status runs `git status` and parses its output.
func (r *Repository) Status(ctx context.Context) (gitstatus.Status, error) {
	out, err := r.run(ctx, "status")
	if err != nil {
		return gitstatus.Status{}, err
	}
	return gitstatus.ParseWith(out, r.matching), nil
}

// Add stages files verbosely. With no files every change is staged.
func (r *Repository) Add(ctx context.Context, files ...string) (string, error) {
	if len(files) == 0 {
		return r.run(ctx, "add", "-v", "-A")
	}
	return r.run(ctx, append([]string{"add", "-v", "--"}, files...)...)
}

// Rm removes files from the index, and from the working tree unless cached.
func (r *Repository) Rm(ctx context.Context, cached bool, files ...string) (string, error) {
	args := []string{"rm"}
	if cached {
		args = append(args, "--cached")
	}
	return r.run(ctx, append(append(args, "--"), files...)...)
}

// Commit records a commit with message. When all is set tracked modifications are
// staged first.
func (r *Repository) Commit(ctx context.Context, message string, all bool) (string, error) {
	flags := "-v"
	if all {
		flags = "-av"
	}
	return r.run(ctx, "commit", flags, "-m", message)
}

// Clean removes untracked files.
func (r *Repository) Clean(ctx context.Context, dirs, force bool) (string, error) {
	args := []string{"clean"}
	if force {
		args = append(args, "-f")
	}
	if dirs {
		args = append(args, "-d")
	}
	return r.run(ctx, args...)
}

// Clone clones repository into target, relative to the repository root.
func (r *Repository) Clone(ctx context.Context, repository, target string) (string, error) {
	return r.run(ctx, "clone", repository, target)
}

// CloneTo clones this repository into target using a local clone.
func (r *Repository) CloneTo(ctx context.Context, target string) (string, error) {
	return r.run(ctx, "clone", "--local", r.path, target)
}

// Reset runs `git reset` with args.
func (r *Repository) Reset(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, append([]string{"reset"}, args...)...)
}

// Fetch fetches from the default remote.
func (r *Repository) Fetch(ctx context.Context, dryRun bool) (string, error) {
	if dryRun {
		return r.run(ctx, "fetch", "--dry-run")
	}
	return r.run(ctx, "fetch")
}

// Stash stashes working tree changes.
func (r *Repository) Stash(ctx context.Context) (string, error) {
	return r.run(ctx, "stash")
}

// StashPop applies and drops the latest stash entry.
func (r *Repository) StashPop(ctx context.Context) (string, error) {
	return r.run(ctx, "stash", "pop")
}

// GC runs `git gc` with args.
func (r *Repository) GC(ctx context.Context, args ...string) error {
	if _, err := r.run(ctx, append([]string{"gc"}, args...)...); err != nil {
		return err
	}
	return nil
}

// RevParseHead returns the object name of HEAD.
func (r *Repository) RevParseHead(ctx context.Context) (string, error) {
	res, err := r.exec.Exec(ctx, executil.Command{
		Dir:  r.path,
		Name: r.gitPath,
		Args: []string{"rev-parse", "HEAD"},
		Env:  r.Env(),
	})
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// Description reads the description file from the metadata directory.
func (r *Repository) Description(_ context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir(), "description"))
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return string(data), nil
}

// SetDescription replaces the description file in the metadata directory.
func (r *Repository) SetDescription(_ context.Context, text string) error {
	if err := os.WriteFile(filepath.Join(r.GitDir(), "description"), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write description: %w", err)
	}
	return nil
}
