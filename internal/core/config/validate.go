package config

import (
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// redirectingEnv lists variables that point git at a different repository than
// the one a session is bound to.
var redirectingEnv = []string{"GIT_DIR", "GIT_WORK_TREE", "GIT_INDEX_FILE"}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and the git executable. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
		c.validateEnv(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.CommandTimeout < 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Timeouts",
			Item:     "command_timeout",
			Message:  "timeout disabled; a hung git process blocks until cancelled",
		})
	}

	for _, key := range redirectingEnv {
		if _, ok := c.Env[key]; ok {
			warnings = append(warnings, ValidationWarning{
				Category: "Environment",
				Item:     key,
				Message:  "overrides the repository every command runs against",
			})
		}
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// validateEnv rejects variables set to an empty string.
func (c *Config) validateEnv() error {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs criterio.FieldErrorsBuilder
	for _, k := range keys {
		if c.Env[k] == "" {
			errs = errs.Append(fmt.Sprintf("env[%q]", k), fmt.Errorf("value is empty"))
		}
	}
	return errs.ToError()
}
