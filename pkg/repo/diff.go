package repo

import (
	"fmt"
	"io"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/object"
)

// DiffCommits writes the unified diff between the trees of two commits.
// An empty hash stands for the empty tree.
func (r *Repo) DiffCommits(w io.Writer, from, to object.Hash) error {
	fromFiles, err := r.CommitFiles(from)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	toFiles, err := r.CommitFiles(to)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	return diff.DiffTrees(w, r.Store, fromFiles, toFiles)
}

// DiffWorking writes the unified diff between the tree of a commit and the
// working directory.
func (r *Repo) DiffWorking(w io.Writer, from object.Hash) error {
	fromFiles, err := r.CommitFiles(from)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	working, blobs, err := r.workingTree()
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	return diff.DiffTrees(w, blobs, fromFiles, working)
}
