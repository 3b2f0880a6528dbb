package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hay-kot/gitrepo/pkg/executil"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// exitNotFound is the shell convention for a command that could not be found.
const exitNotFound = 127

// ToolsCheck verifies that the configured git executable resolves and runs.
type ToolsCheck struct {
	gitPath string
	exec    executil.Executor
}

// NewToolsCheck creates a new tools check for gitPath.
func NewToolsCheck(gitPath string, e executil.Executor) *ToolsCheck {
	return &ToolsCheck{gitPath: gitPath, exec: e}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	path, err := lookPathFunc(c.gitPath)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "git",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s not found on PATH", c.gitPath),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "git",
		Status: StatusPass,
		Detail: path,
	})

	res, err := c.exec.Exec(ctx, executil.Command{Name: c.gitPath, Args: []string{"--version"}})
	switch {
	case executil.ExitCode(err) == exitNotFound:
		result.Items = append(result.Items, CheckItem{
			Label:  "version",
			Status: StatusFail,
			Detail: "git reported command not found",
		})
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "version",
			Status: StatusFail,
			Detail: err.Error(),
		})
	default:
		result.Items = append(result.Items, versionItem(strings.TrimSpace(string(res.Stdout))))
	}

	return result
}

// versionItem grades "git version X.Y.Z" output. Status text from git 1.x
// predates the hint lines the parser recognizes.
func versionItem(out string) CheckItem {
	version := strings.TrimPrefix(out, "git version ")
	major, _, _ := strings.Cut(version, ".")

	n, err := strconv.Atoi(major)
	switch {
	case err != nil:
		return CheckItem{Label: "version", Status: StatusWarn, Detail: fmt.Sprintf("unrecognized output %q", out)}
	case n < 2:
		return CheckItem{Label: "version", Status: StatusWarn, Detail: version + " is older than 2.0; status parsing may be incomplete"}
	default:
		return CheckItem{Label: "version", Status: StatusPass, Detail: version}
	}
}
