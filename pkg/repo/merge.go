package repo

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/object"
)

// MergeKind is the outcome of a merge.
type MergeKind int

const (
	MergeFastForward MergeKind = iota // HEAD moved to the other commit
	MergeUpToDate                     // the other commit is already in HEAD's history
	MergeThreeWay                     // working directory holds merged content; a commit is pending
)

func (k MergeKind) String() string {
	switch k {
	case MergeFastForward:
		return "fast-forward"
	case MergeUpToDate:
		return "up-to-date"
	case MergeThreeWay:
		return "three-way"
	default:
		return "unknown"
	}
}

// MergeReport describes the result of Merge.
type MergeReport struct {
	Kind      MergeKind
	Head      object.Hash
	Other     object.Hash
	Base      object.Hash // "" when the histories share no commit
	Conflicts []string    // paths holding conflict markers, sorted
}

// Merge merges the commit other into HEAD.
//
// When HEAD is an ancestor of other the merge fast-forwards: the working
// directory is replaced with other's tree and HEAD (through its branch) is
// set to other, without a commit. When other is already in HEAD's history
// nothing changes. Otherwise MERGE_HEAD is set to other and the working
// directory is replaced with the three-way merge of the base, HEAD and
// other trees; the merge completes with the next Commit.
func (r *Repo) Merge(other object.Hash) (*MergeReport, error) {
	otherCommit, err := r.GetCommit(other)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	head, hasHead, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	report := &MergeReport{Head: head, Other: other}
	fields := log.Fields{"head": head, "other": other}

	if hasHead {
		merged, err := r.IsAncestor(head, other)
		if err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		if merged {
			report.Kind = MergeUpToDate
			report.Base = other
			log.WithFields(fields).Debug("merge: already up to date")
			return report, nil
		}

		base, ok, err := r.MergeBase(other, head)
		if err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		if ok {
			report.Base = base
		}
		if !ok || base != head {
			return r.mergeThreeWay(report, otherCommit, fields)
		}
	}

	if err := r.ReadTree(otherCommit.TreeHash); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.UpdateRef("HEAD", RefValue{Value: string(other)}, true); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	report.Kind = MergeFastForward
	log.WithFields(fields).Debug("merge: fast-forward")
	return report, nil
}

func (r *Repo) mergeThreeWay(report *MergeReport, otherCommit *object.CommitObj, fields log.Fields) (*MergeReport, error) {
	if err := r.UpdateRef("MERGE_HEAD", RefValue{Value: string(report.Other)}, false); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	baseFiles, err := r.CommitFiles(report.Base)
	if err != nil {
		return nil, fmt.Errorf("merge: base: %w", err)
	}
	headFiles, err := r.CommitFiles(report.Head)
	if err != nil {
		return nil, fmt.Errorf("merge: head: %w", err)
	}
	otherFiles, err := object.Flatten(r.Store, otherCommit.TreeHash, "")
	if err != nil {
		return nil, fmt.Errorf("merge: other: %w", err)
	}

	merged, err := diff.MergeTrees(r.Store, baseFiles, headFiles, otherFiles, r.Config.Labels())
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.writeWorkingFiles(merged.Files); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	report.Kind = MergeThreeWay
	report.Conflicts = merged.Conflicts
	fields["base"] = report.Base
	fields["conflicts"] = len(merged.Conflicts)
	log.WithFields(fields).Debug("merge: three-way merge written to working directory")
	return report, nil
}
