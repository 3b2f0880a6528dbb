package gitrepo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hay-kot/gitrepo/pkg/executil"
)

// CreateOptions selects how Create populates a new repository.
type CreateOptions struct {
	// Source is cloned into the new repository. Empty runs `git init`.
	Source string
	// Remote marks Source as a remote URL. A remote clone requires Reference.
	Remote bool
	// Reference is a local repository passed to `git clone --reference`.
	Reference string
	// Args are extra clone flags, placed before the source.
	Args []string
}

// Factory opens, creates and clones repositories with shared Options.
type Factory struct {
	opts Options
}

// NewFactory creates a Factory. Every repository it returns inherits opts.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts.withDefaults()}
}

// New binds a repository to path using ropts. See New.
func (f *Factory) New(ctx context.Context, path string, ropts ResolveOptions) (*Repository, error) {
	return New(ctx, path, f.opts, ropts)
}

// Open binds to an existing, initialized repository.
func (f *Factory) Open(ctx context.Context, path string) (*Repository, error) {
	return New(ctx, path, f.opts, ResolveOptions{})
}

// Create makes a new repository at path, either empty or cloned from opts.Source.
func (f *Factory) Create(ctx context.Context, path string, opts CreateOptions) (*Repository, error) {
	if IsRepository(path) {
		return nil, fmt.Errorf("%q: %w", path, ErrAlreadyRepository)
	}

	switch {
	case opts.Source == "":
		return New(ctx, path, f.opts, ResolveOptions{Create: true, Init: true})
	case opts.Remote:
		if opts.Reference == "" || !IsWorkingRepository(opts.Reference) {
			return nil, fmt.Errorf("%q: %w", opts.Reference, ErrInvalidReference)
		}
		ref, err := filepath.Abs(opts.Reference)
		if err != nil {
			return nil, fmt.Errorf("resolve reference: %w", err)
		}
		return f.clone(ctx, path, append([]string{"--reference", ref}, opts.Args...), opts.Source)
	default:
		src, err := filepath.Abs(opts.Source)
		if err != nil {
			return nil, fmt.Errorf("resolve source: %w", err)
		}
		return f.clone(ctx, path, append([]string{"--local"}, opts.Args...), src)
	}
}

// Clone clones url into path without a reference repository.
func (f *Factory) Clone(ctx context.Context, url, path string, args ...string) (*Repository, error) {
	if IsRepository(path) {
		return nil, fmt.Errorf("%q: %w", path, ErrAlreadyRepository)
	}
	return f.clone(ctx, path, args, url)
}

// clone runs `git clone <flags> <source> <dest>` from the destination's parent
// directory, then opens the result.
func (f *Factory) clone(ctx context.Context, path string, flags []string, source string) (*Repository, error) {
	dest, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	parent := filepath.Dir(dest)
	if !isDir(parent) {
		return nil, fmt.Errorf("%q: %w", path, ErrParentNotExist)
	}

	cloneArgs := append([]string{"clone"}, flags...)
	cloneArgs = append(cloneArgs, source, dest)

	f.opts.Logger.Debug().Str("dest", dest).Strs("args", cloneArgs).Msg("cloning repository")

	_, err = f.opts.Executor.Exec(ctx, executil.Command{
		Dir:  parent,
		Name: f.opts.GitPath,
		Args: cloneArgs,
		Env:  f.opts.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("clone into %s: %w", dest, err)
	}

	return f.Open(ctx, dest)
}
