// Package gitrepo drives a git executable to operate on one repository at a time.
//
// A Repository is bound to a single directory. Every operation except the
// description accessors becomes one git process run through an executil.Executor
// in that directory, with the repository's environment overlay applied.
package gitrepo

import (
	"context"

	"github.com/hay-kot/gitrepo/pkg/gitstatus"
)

// Repo defines the repository operations offered to callers.
type Repo interface {
	// Path returns the absolute repository root.
	Path() string
	// GitDir returns the metadata directory: the root itself for bare repositories.
	GitDir() string
	// IsBare reports whether the repository has no working tree.
	IsBare() bool
	// SetEnv sets an environment variable for every later command.
	SetEnv(key, value string)

	// Init runs `git init` in the repository root.
	Init(ctx context.Context) (string, error)
	// Status runs `git status` and parses its output.
	Status(ctx context.Context) (gitstatus.Status, error)
	// Add stages files, or everything when none are given.
	Add(ctx context.Context, files ...string) (string, error)
	// Commit records staged changes; all also stages tracked modifications.
	Commit(ctx context.Context, message string, all bool) (string, error)

	// Branches lists branches in the given scope.
	Branches(ctx context.Context, scope BranchScope) ([]Branch, error)
	// ActiveBranch returns the checked-out branch.
	ActiveBranch(ctx context.Context) (Branch, error)
	// Checkout switches to an existing branch.
	Checkout(ctx context.Context, name string) (string, error)
	// CreateBranch creates a branch and switches to it.
	CreateBranch(ctx context.Context, name string) (Branch, error)
	// Merge merges branch into the current branch with a merge commit.
	Merge(ctx context.Context, branch, message string) (string, error)

	// Remotes lists remotes with their fetch and push URLs.
	Remotes(ctx context.Context) ([]Remote, error)
	// RemoteBranchesByPattern lists remote-tracking branches containing pattern.
	RemoteBranchesByPattern(ctx context.Context, pattern string) ([]Branch, error)
	// Push pushes branch to remote.
	Push(ctx context.Context, remote Remote, branch Branch, force bool) (string, error)
	// Pull pulls branch from remote.
	Pull(ctx context.Context, remote Remote, branch Branch) (string, error)

	// Tags lists tags, optionally filtered by a git wildcard pattern.
	Tags(ctx context.Context, pattern string) ([]Tag, error)
	// Log returns `git log` output.
	Log(ctx context.Context, opts LogOptions) (string, error)

	// Description reads the repository description file.
	Description(ctx context.Context) (string, error)
	// SetDescription writes the repository description file.
	SetDescription(ctx context.Context, text string) error
}

var _ Repo = (*Repository)(nil)
