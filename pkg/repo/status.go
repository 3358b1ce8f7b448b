package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/object"
)

// StatusReport describes HEAD, an in-progress merge and the working
// directory changes relative to the HEAD commit.
type StatusReport struct {
	Branch    string      // "" when HEAD is detached
	Head      object.Hash // "" on an unborn branch
	MergeHead object.Hash // "" when no merge is in progress
	Changes   []diff.Change
}

// Status compares the working directory against the HEAD commit.
func (r *Repo) Status() (*StatusReport, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	head, _, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	report := &StatusReport{Branch: branch, Head: head}

	mergeHead, ok, err := r.GetRef("MERGE_HEAD", true)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if ok {
		report.MergeHead = mergeHead.Hash()
	}

	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	working, err := r.WorkingTree()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	report.Changes = diff.ChangedFiles(headFiles, working)
	return report, nil
}
