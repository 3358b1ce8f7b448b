package repo

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
)

// Checkout replaces the working directory with the tree of a revision.
// Checking out a branch makes HEAD a symbolic ref to it; any other
// revision detaches HEAD at the commit.
func (r *Repo) Checkout(name string) error {
	target, err := r.ResolveRevision(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	c, err := r.GetCommit(target)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.ReadTree(c.TreeHash); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	isBranch, err := r.IsBranch(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	head := RefValue{Value: string(target)}
	if isBranch {
		head = RefValue{Symbolic: true, Value: "refs/heads/" + name}
	}
	if err := r.UpdateRef("HEAD", head, false); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	log.WithFields(log.Fields{"target": target, "branch": isBranch}).Debug("checked out")
	return nil
}

// Reset moves HEAD, through its branch when symbolic, to target. The
// working directory is left untouched.
func (r *Repo) Reset(target object.Hash) error {
	if _, err := r.GetCommit(target); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.UpdateRef("HEAD", RefValue{Value: string(target)}, true); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
