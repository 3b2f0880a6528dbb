package executil

import (
	"context"
	"sync"
)

// RecordingExecutor captures commands for testing.
// Configure Results and Errors to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []Command

	// Results maps a command to its canned result. Lookup tries the full command
	// line ("git branch -r"), then the name plus first argument ("git branch"),
	// then the bare name ("git").
	Results map[string]Result

	// Errors maps a command to its error, using the same lookup as Results.
	Errors map[string]error
}

// Exec records the command and returns the configured result/error. A canned result
// with a non-zero ExitCode and no configured error yields an *ExitError.
func (e *RecordingExecutor) Exec(ctx context.Context, cmd Command) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	recorded := cmd
	recorded.Args = append([]string(nil), cmd.Args...)
	if cmd.Env != nil {
		recorded.Env = make(map[string]string, len(cmd.Env))
		for k, v := range cmd.Env {
			recorded.Env[k] = v
		}
	}
	e.Commands = append(e.Commands, recorded)

	var res Result
	for _, key := range lookupKeys(cmd) {
		if r, ok := e.Results[key]; ok {
			res = r
			break
		}
	}

	for _, key := range lookupKeys(cmd) {
		if err, ok := e.Errors[key]; ok {
			return res, err
		}
	}

	if res.ExitCode != 0 {
		return res, &ExitError{Command: cmd, Result: res}
	}
	return res, nil
}

// Last returns the most recently recorded command.
func (e *RecordingExecutor) Last() (Command, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.Commands) == 0 {
		return Command{}, false
	}
	return e.Commands[len(e.Commands)-1], true
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}

func lookupKeys(cmd Command) []string {
	keys := []string{cmd.String()}
	if len(cmd.Args) > 0 {
		keys = append(keys, Command{Name: cmd.Name, Args: cmd.Args[:1]}.String())
	}
	return append(keys, cmd.Name)
}
