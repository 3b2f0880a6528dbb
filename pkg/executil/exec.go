// Package executil runs external commands as child processes and captures their output.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a command when the caller's context carries no deadline.
const DefaultTimeout = 5 * time.Minute

// waitDelay bounds how long pipes are drained after the process is killed, so a
// grandchild holding stdout open cannot block the caller.
const waitDelay = 5 * time.Second

const maxStderrLen = 500

// Command describes a single process invocation. Args are handed to the process
// as-is; nothing is interpreted by a shell.
type Command struct {
	// Dir is the working directory. Empty means inherit the current directory.
	Dir  string
	Name string
	Args []string
	// Env is merged over the inherited environment. Keys in Env win.
	Env map[string]string
}

// String returns the command line in a form that can be pasted into a shell.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Result holds the captured streams and exit status of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Combined returns captured stderr followed by captured stdout. The order does not
// reflect how the two streams were interleaved while the process ran.
func (r Result) Combined() string {
	return string(r.Stderr) + string(r.Stdout)
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// ExitError is returned when a process started but exited with a non-zero status.
// The full Result is preserved so callers can inspect the tool's own messages.
type ExitError struct {
	Command Command
	Result  Result
	Err     error
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(string(e.Result.Stderr))
	if len(msg) > maxStderrLen {
		msg = msg[:maxStderrLen]
	}

	status := fmt.Sprintf("exit status %d", e.Result.ExitCode)
	if e.Err != nil {
		status = e.Err.Error()
	}

	if msg != "" {
		return fmt.Sprintf("exec %s: %s: %s", e.Command, msg, status)
	}
	return fmt.Sprintf("exec %s: %s", e.Command, status)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, or -1 when err does not come from
// a process that ran to completion.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Result.ExitCode
	}
	return -1
}

// Executor runs commands.
type Executor interface {
	// Exec runs cmd to completion and returns its captured output. A non-zero exit
	// returns the Result together with an *ExitError.
	Exec(ctx context.Context, cmd Command) (Result, error)
}

// RealExecutor spawns actual processes.
type RealExecutor struct {
	// Timeout applies when ctx has no deadline. Zero uses DefaultTimeout, negative disables it.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewRealExecutor creates a RealExecutor that logs through l.
func NewRealExecutor(timeout time.Duration, l zerolog.Logger) *RealExecutor {
	return &RealExecutor{Timeout: timeout, Logger: l}
}

// Exec runs cmd and blocks until both output streams are drained.
func (e *RealExecutor) Exec(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, errors.New("exec: no command specified")
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := e.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay
	if len(cmd.Env) > 0 {
		c.Env = MergeEnv(os.Environ(), cmd.Env)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	runErr := c.Run()

	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
	}

	e.Logger.Debug().
		Ctx(ctx).
		Str("dir", cmd.Dir).
		Str("cmd", cmd.String()).
		Int("exit_code", res.ExitCode).
		Dur("duration", time.Since(start)).
		Msg("command finished")

	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, &ExitError{Command: cmd, Result: res, Err: fmt.Errorf("%w: %w", ctxErr, runErr)}
		}
		return res, &ExitError{Command: cmd, Result: res, Err: runErr}
	}

	if cmd.Dir != "" {
		return Result{ExitCode: -1}, fmt.Errorf("exec %s in %s: %w", cmd.Name, cmd.Dir, runErr)
	}
	return Result{ExitCode: -1}, fmt.Errorf("exec %s: %w", cmd.Name, runErr)
}

// MergeEnv returns base with overlay applied. Entries of base whose key appears in
// overlay are dropped; overlay entries are appended in key order.
func MergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overlay[key]; ok {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged = append(merged, k+"="+overlay[k])
	}
	return merged
}
