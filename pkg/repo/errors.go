package repo

import (
	"errors"
	"fmt"
)

var (
	ErrNotARepository  = errors.New("not a ugit repository")
	ErrAlreadyExists   = errors.New("repository already exists")
	ErrUnknownRevision = errors.New("unknown revision")
	ErrSymrefLoop      = errors.New("symbolic ref loop")
	ErrInvalidRefName  = errors.New("invalid ref name")
	ErrBranchExists    = errors.New("branch already exists")
	ErrTagExists       = errors.New("tag already exists")
	ErrNoCommits       = errors.New("HEAD does not point at a commit")
	ErrUnknownRemote   = errors.New("remote is not configured")
)

// UnknownRevisionError reports a name that matched no ref and is not an
// object hash.
type UnknownRevisionError struct {
	Name string
}

func (e *UnknownRevisionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %q", ErrUnknownRevision, e.Name)
}

func (e *UnknownRevisionError) Is(target error) bool {
	return target == ErrUnknownRevision
}
