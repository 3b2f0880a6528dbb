package gitrepo

import "errors"

// Path and repository resolution errors.
var (
	ErrPathNotSet        = errors.New("repository path not set")
	ErrPathNotExist      = errors.New("path does not exist")
	ErrNotDirectory      = errors.New("not a directory")
	ErrParentNotExist    = errors.New("cannot create repository in non-existent directory")
	ErrNotRepository     = errors.New("not a git repository")
	ErrAlreadyRepository = errors.New("already a git repository")
	ErrInvalidReference  = errors.New("reference is not a git repository")
)

// Operation errors.
var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrNoActiveBranch   = errors.New("no active branch")
	ErrUnexpectedOutput = errors.New("unexpected git output")
	ErrInvalidRef       = errors.New("not a branch or tag reference")
)
