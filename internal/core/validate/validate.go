// Package validate provides shared validation functions for command arguments.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

// BranchName applies the subset of git's ref-name rules that can be checked
// without running git.
func BranchName(name string) error {
	if err := Required(name); err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("cannot start with '-'")
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/"):
		return fmt.Errorf("cannot start or end with '/'")
	case strings.HasSuffix(name, ".") || strings.HasSuffix(name, ".lock"):
		return fmt.Errorf("cannot end with '.' or '.lock'")
	case strings.Contains(name, ".."), strings.Contains(name, "//"), strings.Contains(name, "@{"):
		return fmt.Errorf("cannot contain '..', '//' or '@{'")
	case name == "@":
		return fmt.Errorf("cannot be '@'")
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return fmt.Errorf("contains invalid character %q", r)
		}
	}
	return nil
}

// BranchNameField returns a criterio validator for branch names.
func BranchNameField(field, name string) error {
	return criterio.Run(field, name, BranchName)
}

// RequiredField returns a criterio validator for required values.
func RequiredField(field, value string) error {
	return criterio.Run(field, value, Required)
}
