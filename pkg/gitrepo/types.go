package gitrepo

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// ZeroRevision is the all-zero object name git uses for "no commit".
var ZeroRevision = plumbing.ZeroHash.String()

// Branch is a local or remote-tracking branch name as git prints it.
type Branch struct {
	Name string `json:"name"`
}

// Remote is one line of `git remote -v`.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// Type is the direction marker, "(fetch)" or "(push)".
	Type string `json:"type"`
}

// Tag is a tag name.
type Tag struct {
	Name string `json:"name"`
}

// RefKind distinguishes branch references from tag references.
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Reference is a fully qualified ref resolved to its short name.
type Reference struct {
	Kind RefKind `json:"kind"`
	Name string  `json:"name"`
}

// Branch returns the reference as a Branch. Only meaningful when Kind is RefBranch.
func (r Reference) Branch() Branch { return Branch{Name: r.Name} }

// Tag returns the reference as a Tag. Only meaningful when Kind is RefTag.
func (r Reference) Tag() Tag { return Tag{Name: r.Name} }

// ParseReference resolves "refs/heads/<name>" to a branch and "refs/tags/<name>"
// to a tag. Anything else is rejected.
func ParseReference(ref string) (Reference, error) {
	name := plumbing.ReferenceName(ref)

	switch {
	case name.IsBranch():
		if short := strings.TrimPrefix(ref, "refs/heads/"); short != "" {
			return Reference{Kind: RefBranch, Name: short}, nil
		}
	case name.IsTag():
		if short := strings.TrimPrefix(ref, "refs/tags/"); short != "" {
			return Reference{Kind: RefTag, Name: short}, nil
		}
	}
	return Reference{}, fmt.Errorf("%q: %w", ref, ErrInvalidRef)
}

// BranchScope selects which branches a listing includes.
type BranchScope int

const (
	ScopeLocal BranchScope = iota
	ScopeRemote
	ScopeAll
)

func (s BranchScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeRemote:
		return "remote"
	case ScopeAll:
		return "all"
	default:
		return fmt.Sprintf("BranchScope(%d)", int(s))
	}
}

// ParseBranchScope maps "local", "remote" or "all" to a BranchScope.
func ParseBranchScope(s string) (BranchScope, error) {
	switch s {
	case "", "local":
		return ScopeLocal, nil
	case "remote":
		return ScopeRemote, nil
	case "all":
		return ScopeAll, nil
	default:
		return ScopeLocal, fmt.Errorf("unknown branch scope %q", s)
	}
}

func (s BranchScope) args() []string {
	switch s {
	case ScopeRemote:
		return []string{"branch", "-r"}
	case ScopeAll:
		return []string{"branch", "-a"}
	default:
		return []string{"branch"}
	}
}

// LogOptions configures Log. Zero values leave the corresponding flag out.
type LogOptions struct {
	Limit int
	// Format is passed to --pretty=format:.
	Format string
	Grep   string
	// From and To select the From..To revision range when both are set.
	From  string
	To    string
	Paths []string
}

func (o LogOptions) args() []string {
	args := []string{"log"}
	if o.Limit > 0 {
		args = append(args, fmt.Sprintf("-%d", o.Limit))
	}
	if o.Grep != "" {
		args = append(args, "--grep="+o.Grep)
	}
	if o.Format != "" {
		args = append(args, "--pretty=format:"+o.Format)
	}
	if o.From != "" && o.To != "" {
		args = append(args, o.From+".."+o.To)
	}
	if len(o.Paths) > 0 {
		args = append(args, "--")
		args = append(args, o.Paths...)
	}
	return args
}
