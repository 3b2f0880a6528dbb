package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/gitrepo/pkg/gitrepo"
)

// defaultDescriptionPrefix starts the placeholder description written by git init.
const defaultDescriptionPrefix = "Unnamed repository"

// RepoOpener opens a repository. *gitrepo.Factory satisfies it.
type RepoOpener interface {
	Open(ctx context.Context, path string) (*gitrepo.Repository, error)
}

// RepoCheck verifies that a path opens as a repository and reports its layout.
type RepoCheck struct {
	opener RepoOpener
	path   string
}

// NewRepoCheck creates a new repository check for path.
func NewRepoCheck(opener RepoOpener, path string) *RepoCheck {
	return &RepoCheck{opener: opener, path: path}
}

func (c *RepoCheck) Name() string {
	return "Repository"
}

func (c *RepoCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	repo, err := c.opener.Open(ctx, c.path)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	layout := "working tree"
	if repo.IsBare() {
		layout = "bare"
	}
	result.Items = append(result.Items, CheckItem{
		Label:  repo.Path(),
		Status: StatusPass,
		Detail: layout,
	})

	if !repo.IsBare() {
		result.Items = append(result.Items, branchItem(ctx, repo))
	}

	result.Items = append(result.Items, descriptionItem(ctx, repo))

	return result
}

func branchItem(ctx context.Context, repo *gitrepo.Repository) CheckItem {
	branch, err := repo.ActiveBranch(ctx)
	switch {
	case errors.Is(err, gitrepo.ErrNoActiveBranch):
		return CheckItem{Label: "branch", Status: StatusWarn, Detail: "no active branch (no commits yet)"}
	case err != nil:
		return CheckItem{Label: "branch", Status: StatusFail, Detail: err.Error()}
	default:
		return CheckItem{Label: "branch", Status: StatusPass, Detail: branch.Name}
	}
}

func descriptionItem(ctx context.Context, repo *gitrepo.Repository) CheckItem {
	text, err := repo.Description(ctx)
	switch {
	case err != nil:
		return CheckItem{Label: "description", Status: StatusWarn, Detail: "missing", Fixable: true}
	case strings.HasPrefix(text, defaultDescriptionPrefix) || strings.TrimSpace(text) == "":
		return CheckItem{Label: "description", Status: StatusWarn, Detail: "not set", Fixable: true}
	default:
		return CheckItem{Label: "description", Status: StatusPass, Detail: firstLine(text)}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return fmt.Sprintf("%.60s", line)
}
