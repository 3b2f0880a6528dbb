// Package gitstatus parses the human-readable output of `git status` into a
// structured report.
package gitstatus

import (
	"fmt"
	"strings"
)

// Matching selects how section headings and hint lines are recognized.
type Matching int

const (
	// MatchLoose recognizes headings and hints anywhere in a line. A file whose
	// name contains a heading or hint phrase is misclassified.
	MatchLoose Matching = iota
	// MatchAnchored recognizes headings only as whole unindented lines and hints
	// only as indented, parenthesized lines.
	MatchAnchored
)

func (m Matching) String() string {
	switch m {
	case MatchLoose:
		return "loose"
	case MatchAnchored:
		return "anchored"
	default:
		return fmt.Sprintf("Matching(%d)", int(m))
	}
}

// ParseMatching maps a configuration value to a Matching mode.
func ParseMatching(s string) (Matching, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loose":
		return MatchLoose, nil
	case "anchored":
		return MatchAnchored, nil
	default:
		return MatchLoose, fmt.Errorf("unknown status matching %q (want loose or anchored)", s)
	}
}

// Status is the parsed form of a single `git status` invocation.
type Status struct {
	// Raw is the unmodified text the status invocation produced.
	Raw string `json:"-"`
	// Branch is empty when no branch line was found, e.g. on a detached HEAD.
	// Empty means unknown, not a branch named "".
	Branch    string   `json:"branch"`
	Changes   []string `json:"changes"`
	Untracked []string `json:"untracked"`
}

// HasBranch reports whether a branch line was found.
func (s Status) HasBranch() bool {
	return s.Branch != ""
}

// IsClean reports whether no changed or untracked paths were listed.
func (s Status) IsClean() bool {
	return len(s.Changes) == 0 && len(s.Untracked) == 0
}

const (
	branchLabel   = "On branch "
	noCommitsLine = "No commits yet"
)

var (
	changesHeadings  = []string{"Changes to be committed", "Changes not staged for commit"}
	untrackedHeading = "Untracked files"
	// unmergedHeading lists conflicted paths; only anchored mode reads it.
	unmergedHeading = "Unmerged paths"

	hintPhrases = []string{
		"git add <file>",
		"git add/rm <file>",
		"git rm --cached",
		"git restore <file>",
		"git restore --staged <file>",
		"git reset HEAD <file>",
		"git checkout -- <file>",
		"nothing added to commit",
		"no changes added to commit",
	}

	looseLabels    = []string{"new file:", "modified:"}
	anchoredLabels = []string{
		"new file:",
		"modified:",
		"deleted:",
		"renamed:",
		"copied:",
		"typechange:",
		"both modified:",
		"both added:",
		"both deleted:",
		"added by us:",
		"added by them:",
		"deleted by us:",
		"deleted by them:",
	}
)

type section int

const (
	sectionNone section = iota
	sectionChanges
	sectionUntracked
)

// Parse classifies raw status output using MatchLoose.
func Parse(raw string) Status {
	return ParseWith(raw, MatchLoose)
}

// ParseWith classifies raw status output. It never fails: text of an unexpected
// shape yields a Status with no branch and empty path lists.
func ParseWith(raw string, m Matching) Status {
	p := parser{matching: m, changes: []string{}, untracked: []string{}}
	for _, line := range strings.Split(raw, "\n") {
		p.line(strings.TrimRight(line, "\r"))
	}

	return Status{
		Raw:       raw,
		Branch:    p.branch,
		Changes:   p.changes,
		Untracked: p.untracked,
	}
}

type parser struct {
	matching  Matching
	current   section
	branch    string
	changes   []string
	untracked []string
}

func (p *parser) line(line string) {
	if strings.TrimSpace(line) == "" || p.isNoCommits(line) {
		return
	}

	if p.current == sectionNone && strings.Contains(line, branchLabel) {
		if p.matching == MatchLoose || strings.HasPrefix(line, branchLabel) {
			p.branch = strings.TrimSpace(strings.Replace(line, branchLabel, "", 1))
			return
		}
	}

	switch {
	case p.isHeading(line, changesHeadings...):
		p.current = sectionChanges
		return
	case p.isHeading(line, untrackedHeading):
		p.current = sectionUntracked
		return
	case p.matching == MatchAnchored && p.isHeading(line, unmergedHeading):
		p.current = sectionChanges
		return
	}

	if p.current == sectionNone {
		return
	}

	if p.matching == MatchAnchored && !isIndented(line) {
		// An unindented line that is not a known heading ends the listing,
		// e.g. the trailing summary.
		p.current = sectionNone
		return
	}

	if p.isHint(line) {
		return
	}

	path := p.normalize(line)
	switch p.current {
	case sectionChanges:
		p.changes = append(p.changes, path)
	case sectionUntracked:
		p.untracked = append(p.untracked, path)
	}
}

func (p *parser) isNoCommits(line string) bool {
	if p.matching == MatchAnchored {
		return line == noCommitsLine
	}
	return strings.Contains(line, noCommitsLine)
}

func (p *parser) isHeading(line string, headings ...string) bool {
	for _, h := range headings {
		if p.matching == MatchLoose {
			if strings.Contains(line, h) {
				return true
			}
			continue
		}
		if line == h+":" {
			return true
		}
	}
	return false
}

func (p *parser) isHint(line string) bool {
	if p.matching == MatchAnchored {
		t := strings.TrimSpace(line)
		return strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")
	}

	for _, phrase := range hintPhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}

func (p *parser) normalize(line string) string {
	labels := looseLabels
	if p.matching == MatchAnchored {
		labels = anchoredLabels
	}

	t := strings.TrimSpace(line)
	for _, label := range labels {
		if rest, ok := strings.CutPrefix(t, label); ok {
			return strings.TrimSpace(rest)
		}
	}
	return t
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ")
}
