package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/gitrepo/pkg/executil"
)

// DefaultRemote is the remote used when none is named.
const DefaultRemote = "origin"

// Remotes parses `git remote -v`. Each line must hold exactly a name, a URL and a
// direction marker.
func (r *Repository) Remotes(ctx context.Context) ([]Remote, error) {
	out, err := r.run(ctx, "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	return parseRemotes(out)
}

func parseRemotes(out string) ([]Remote, error) {
	lines := splitLines(out)
	remotes := make([]Remote, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("remote line %q: %w", line, ErrUnexpectedOutput)
		}
		remotes = append(remotes, Remote{Name: fields[0], URL: fields[1], Type: fields[2]})
	}
	return remotes, nil
}

// AddRemote registers remote under its name.
func (r *Repository) AddRemote(ctx context.Context, remote Remote) (string, error) {
	return r.run(ctx, "remote", "add", remote.Name, remote.URL)
}

// PruneRemote deletes remote-tracking branches whose upstream is gone. An empty
// name prunes DefaultRemote.
func (r *Repository) PruneRemote(ctx context.Context, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}
	return r.run(ctx, "remote", "prune", remote)
}

// RemoteBranchesByPattern returns remote-tracking branches whose name contains
// pattern. A listing that fails without any message is treated as no matches.
func (r *Repository) RemoteBranchesByPattern(ctx context.Context, pattern string) ([]Branch, error) {
	out, err := r.run(ctx, "branch", "-r")
	if err != nil {
		var exitErr *executil.ExitError
		if errors.As(err, &exitErr) && strings.TrimSpace(string(exitErr.Result.Stderr)) == "" {
			return []Branch{}, nil
		}
		return nil, fmt.Errorf("search remote branches: %w", err)
	}

	branches := []Branch{}
	for _, line := range splitLines(out) {
		if strings.Contains(line, pattern) {
			branches = append(branches, Branch{Name: line})
		}
	}
	return branches, nil
}

// RemoteBranchCount returns the number of remote-tracking branches, or 0 when
// they cannot be listed.
func (r *Repository) RemoteBranchCount(ctx context.Context) int {
	branches, err := r.Branches(ctx, ScopeRemote)
	if err != nil {
		r.log.Debug().Err(err).Msg("count remote branches")
		return 0
	}
	return len(branches)
}

// DeleteRemoteBranches deletes branches on DefaultRemote.
func (r *Repository) DeleteRemoteBranches(ctx context.Context, branches ...string) (string, error) {
	if len(branches) == 0 {
		return "", nil
	}
	return r.run(ctx, append([]string{"push", DefaultRemote, "--delete"}, branches...)...)
}

// Push pushes branch to remote.
func (r *Repository) Push(ctx context.Context, remote Remote, branch Branch, force bool) (string, error) {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	return r.run(ctx, append(args, remote.Name, branch.Name)...)
}

// Pull pulls branch from remote into the current branch.
func (r *Repository) Pull(ctx context.Context, remote Remote, branch Branch) (string, error) {
	return r.run(ctx, "pull", remote.Name, branch.Name)
}
