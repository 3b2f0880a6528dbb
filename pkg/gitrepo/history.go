package gitrepo

import (
	"context"
	"fmt"
)

// Tag creates an annotated tag at HEAD. An empty message uses the tag name.
func (r *Repository) Tag(ctx context.Context, name, message string) (string, error) {
	if message == "" {
		message = name
	}
	return r.run(ctx, "tag", "-a", name, "-m", message)
}

// Tags lists tags matching pattern, or all tags when pattern is empty.
func (r *Repository) Tags(ctx context.Context, pattern string) ([]Tag, error) {
	args := []string{"tag", "-l"}
	if pattern != "" {
		args = append(args, pattern)
	}

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	lines := splitLines(out)
	tags := make([]Tag, 0, len(lines))
	for _, line := range lines {
		tags = append(tags, Tag{Name: line})
	}
	return tags, nil
}

// Log returns `git log` output shaped by opts.
func (r *Repository) Log(ctx context.Context, opts LogOptions) (string, error) {
	return r.run(ctx, opts.args()...)
}

// Diff runs `git diff` with args.
func (r *Repository) Diff(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, append([]string{"diff"}, args...)...)
}

// DiffCached shows staged changes.
func (r *Repository) DiffCached(ctx context.Context) (string, error) {
	return r.run(ctx, "diff", "--cached")
}

// Show runs `git show` with args.
func (r *Repository) Show(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, append([]string{"show"}, args...)...)
}
