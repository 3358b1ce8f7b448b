package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/object"
)

// CreateTag creates the lightweight tag refs/tags/<name> pointing at
// target. Existing tags are never moved.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	refName := "refs/tags/" + name
	if !validRefName(refName) {
		return fmt.Errorf("create tag: %w: %q", ErrInvalidRefName, name)
	}
	if _, ok, err := r.GetRef(refName, false); err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	} else if ok {
		return fmt.Errorf("create tag: %w: %q", ErrTagExists, name)
	}
	if err := r.UpdateRef(refName, RefValue{Value: string(target)}, false); err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	}
	return nil
}

// ListTags returns the tag names under refs/tags/, sorted.
func (r *Repo) ListTags() ([]string, error) {
	return r.listRefNames("refs/tags/")
}
