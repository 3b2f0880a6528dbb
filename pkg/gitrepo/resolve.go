package gitrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/config"
)

// ResolveOptions controls what resolution may do to a missing or empty directory.
type ResolveOptions struct {
	// Create allows a missing directory to be created. Its parent must exist.
	Create bool
	// Init allows a directory that is not yet a repository to be initialized.
	Init bool
}

type location struct {
	path   string
	bare   bool
	isRepo bool
	// created is set when resolve made the directory itself.
	created bool
}

// resolve applies the directory policy shared by the factory and direct session
// construction. It creates the directory when allowed but never runs git.
func resolve(path string, opts ResolveOptions) (location, error) {
	if path == "" {
		return location{}, ErrPathNotSet
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return location{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	var created bool
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !opts.Create {
			return location{}, fmt.Errorf("%q: %w", path, ErrPathNotExist)
		}
		if !isDir(filepath.Dir(abs)) {
			return location{}, fmt.Errorf("%q: %w", path, ErrParentNotExist)
		}
		if err := os.Mkdir(abs, 0o755); err != nil {
			return location{}, fmt.Errorf("create %s: %w", abs, err)
		}
		created = true
	case err != nil:
		return location{}, fmt.Errorf("stat %s: %w", abs, err)
	case !info.IsDir():
		return location{}, fmt.Errorf("%q: %w", abs, ErrNotDirectory)
	}

	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	working := IsWorkingRepository(abs)
	bare := IsBareRepository(abs)
	if !working && !bare && !opts.Init {
		return location{}, fmt.Errorf("%q: %w", abs, ErrNotRepository)
	}

	return location{path: abs, bare: bare, isRepo: working || bare, created: created}, nil
}

// IsRepository reports whether path is a working or bare repository.
func IsRepository(path string) bool {
	return IsWorkingRepository(path) || IsBareRepository(path)
}

// IsWorkingRepository reports whether path has a .git metadata directory.
func IsWorkingRepository(path string) bool {
	return isDir(path) && isDir(filepath.Join(path, ".git"))
}

// IsBareRepository reports whether path holds a config file with core.bare set.
func IsBareRepository(path string) bool {
	f, err := os.Open(filepath.Join(path, "config"))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	cfg, err := config.ReadConfig(f)
	if err != nil {
		return false
	}
	return cfg.Core.IsBare
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
