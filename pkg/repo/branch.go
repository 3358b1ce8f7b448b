package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

// CreateBranch creates refs/heads/<name> pointing at target. It fails with
// ErrBranchExists when the branch is already there.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	refName := "refs/heads/" + name
	if !validRefName(refName) {
		return fmt.Errorf("create branch: %w: %q", ErrInvalidRefName, name)
	}
	if _, ok, err := r.GetRef(refName, false); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	} else if ok {
		return fmt.Errorf("create branch: %w: %q", ErrBranchExists, name)
	}
	if err := r.UpdateRef(refName, RefValue{Value: string(target)}, false); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// ListBranches returns the branch names under refs/heads/, sorted.
func (r *Repo) ListBranches() ([]string, error) {
	return r.listRefNames("refs/heads/")
}

func (r *Repo) listRefNames(prefix string) ([]string, error) {
	refs, err := r.ListRefs(prefix, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, strings.TrimPrefix(ref.Name, prefix))
	}
	return names, nil
}

// IsBranch reports whether refs/heads/<name> exists.
func (r *Repo) IsBranch(name string) (bool, error) {
	refName := "refs/heads/" + name
	if !validRefName(refName) {
		return false, nil
	}
	_, ok, err := r.GetRef(refName, false)
	return ok, err
}

// CurrentBranch returns the branch HEAD points at, or "" when HEAD is
// detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, ok, err := r.GetRef("HEAD", false)
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if !ok || !head.Symbolic {
		return "", nil
	}
	return strings.TrimPrefix(head.Value, "refs/heads/"), nil
}
