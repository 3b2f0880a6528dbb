package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hay-kot/gitrepo/pkg/executil"
)

// activeMarker prefixes the checked-out branch in `git branch` output.
const activeMarker = "* "

// quotedName matches the branch name git echoes in "Switched to a new branch 'x'".
var quotedName = regexp.MustCompile(`'([^']+)'`)

// missingRefMessages are the stderr fragments git prints when a checkout target
// does not resolve to any branch, commit or path.
var missingRefMessages = []string{
	"did not match any file(s) known to git",
	"invalid reference",
}

// Branches lists branches in scope. The active-branch marker is removed.
func (r *Repository) Branches(ctx context.Context, scope BranchScope) ([]Branch, error) {
	lines, err := r.branchLines(ctx, scope)
	if err != nil {
		return nil, err
	}

	branches := make([]Branch, 0, len(lines))
	for _, line := range lines {
		branches = append(branches, Branch{Name: strings.TrimPrefix(line, activeMarker)})
	}
	return branches, nil
}

// ActiveBranch returns the branch carrying the active marker in the local listing.
func (r *Repository) ActiveBranch(ctx context.Context) (Branch, error) {
	lines, err := r.branchLines(ctx, ScopeLocal)
	if err != nil {
		return Branch{}, err
	}

	for _, line := range lines {
		if name, ok := strings.CutPrefix(line, activeMarker); ok {
			return Branch{Name: name}, nil
		}
	}
	return Branch{}, ErrNoActiveBranch
}

func (r *Repository) branchLines(ctx context.Context, scope BranchScope) ([]string, error) {
	out, err := r.run(ctx, scope.args()...)
	if err != nil {
		return nil, fmt.Errorf("list %s branches: %w", scope, err)
	}
	return splitLines(out), nil
}

// Checkout switches to name. A git failure whose stderr reports an unknown ref
// is ErrBranchNotFound; every other failure is returned as the command error.
func (r *Repository) Checkout(ctx context.Context, name string) (string, error) {
	out, err := r.run(ctx, "checkout", name)
	if err == nil {
		return out, nil
	}
	if isMissingRef(err) {
		return out, fmt.Errorf("checkout %s: %w: %w", name, ErrBranchNotFound, err)
	}
	return out, fmt.Errorf("checkout %s: %w", name, err)
}

func isMissingRef(err error) bool {
	var exitErr *executil.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	stderr := string(exitErr.Result.Stderr)
	for _, msg := range missingRefMessages {
		if strings.Contains(stderr, msg) {
			return true
		}
	}
	return false
}

// CreateBranch creates name from HEAD and switches to it. The returned name is
// the one git echoes back.
func (r *Repository) CreateBranch(ctx context.Context, name string) (Branch, error) {
	out, err := r.run(ctx, "checkout", "-b", name)
	if err != nil {
		return Branch{}, fmt.Errorf("create branch %s: %w", name, err)
	}

	matches := quotedName.FindAllStringSubmatch(out, -1)
	if len(matches) == 0 {
		return Branch{}, fmt.Errorf("create branch %s: no branch name in %q: %w", name, strings.TrimSpace(out), ErrUnexpectedOutput)
	}
	return Branch{Name: matches[len(matches)-1][1]}, nil
}

// DeleteBranch deletes name; force deletes it even when unmerged.
func (r *Repository) DeleteBranch(ctx context.Context, name string, force bool) (string, error) {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return r.run(ctx, "branch", flag, name)
}

// Merge merges branch with --no-ff. An empty message keeps git's default.
func (r *Repository) Merge(ctx context.Context, branch, message string) (string, error) {
	args := []string{"merge", branch, "--no-ff"}
	if message = strings.TrimSpace(message); message != "" {
		args = append(args, "-m", message)
	}
	return r.run(ctx, args...)
}

// MergeAbort aborts an in-progress merge.
func (r *Repository) MergeAbort(ctx context.Context) (string, error) {
	return r.run(ctx, "merge", "--abort")
}

// splitLines returns the trimmed, non-empty lines of out.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
