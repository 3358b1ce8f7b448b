package diff

import (
	"fmt"
	"sort"

	"github.com/odvcencio/ugit/pkg/diff3"
	"github.com/odvcencio/ugit/pkg/object"
)

// TreeMerge is the content of a three-way tree merge. Files maps each
// surviving path to its merged bytes; Conflicts lists, sorted, the paths
// whose content needs manual resolution.
type TreeMerge struct {
	Files     map[string][]byte
	Conflicts []string
}

// MergeTrees merges head and other against their common ancestor base.
// A path changed on one side only takes that side; paths deleted on both
// sides, or deleted on one side and untouched on the other, are dropped.
// Everything else is merged line by line, with absent sides read as empty.
// Conflicting binary files keep the head version (other's when head
// deleted the path). Conflicts never fail the merge.
func MergeTrees(r BlobReader, base, head, other []object.FileEntry, labels diff3.Labels) (*TreeMerge, error) {
	m := &TreeMerge{Files: make(map[string][]byte)}
	for p, hashes := range CompareTrees(base, head, other) {
		b, h, o := hashes[0], hashes[1], hashes[2]

		var pick object.Hash
		switch {
		case h == o:
			pick = h
		case h == b:
			pick = o
		case o == b:
			pick = h
		default:
			if err := m.mergeFile(r, p, b, h, o, labels); err != nil {
				return nil, err
			}
			continue
		}
		if pick == "" {
			continue
		}
		data, err := readOrEmpty(r, pick)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", p, err)
		}
		m.Files[p] = data
	}
	sort.Strings(m.Conflicts)
	return m, nil
}

func (m *TreeMerge) mergeFile(r BlobReader, p string, b, h, o object.Hash, labels diff3.Labels) error {
	var contents [3][]byte
	for i, hash := range []object.Hash{b, h, o} {
		data, err := readOrEmpty(r, hash)
		if err != nil {
			return fmt.Errorf("merge %s: %w", p, err)
		}
		contents[i] = data
	}
	base, head, other := contents[0], contents[1], contents[2]

	if IsBinary(base) || IsBinary(head) || IsBinary(other) {
		m.Conflicts = append(m.Conflicts, p)
		if h != "" {
			m.Files[p] = head
		} else {
			m.Files[p] = other
		}
		return nil
	}

	res := diff3.MergeLabeled(base, head, other, labels)
	if res.HasConflicts {
		m.Conflicts = append(m.Conflicts, p)
	}
	m.Files[p] = res.Merged
	return nil
}
