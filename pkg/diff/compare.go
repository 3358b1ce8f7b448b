// Package diff compares flattened trees, renders unified diffs and merges
// three trees path by path.
package diff

import (
	"sort"

	"github.com/odvcencio/ugit/pkg/object"
)

// ChangeKind classifies what happened to a path between two trees.
type ChangeKind int

const (
	Added    ChangeKind = iota // path exists only in the newer tree
	Deleted                    // path exists only in the older tree
	Modified                   // path exists in both with different content
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "new file"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one changed path between two trees.
type Change struct {
	Path     string
	Kind     ChangeKind
	From, To object.Hash // empty where the path is absent
}

// BlobReader reads blob content by hash. *object.Store satisfies it.
type BlobReader interface {
	ReadBlob(h object.Hash) (*object.Blob, error)
}

// CompareTrees aligns any number of flattened trees by path. Each value
// holds one hash per input tree, in input order, with "" where that tree
// lacks the path.
func CompareTrees(trees ...[]object.FileEntry) map[string][]object.Hash {
	out := make(map[string][]object.Hash)
	for i, tree := range trees {
		for _, f := range tree {
			hashes, ok := out[f.Path]
			if !ok {
				hashes = make([]object.Hash, len(trees))
				out[f.Path] = hashes
			}
			hashes[i] = f.Hash
		}
	}
	return out
}

// ChangedFiles lists every path whose hash differs between from and to,
// sorted by path.
func ChangedFiles(from, to []object.FileEntry) []Change {
	var changes []Change
	for p, hashes := range CompareTrees(from, to) {
		f, t := hashes[0], hashes[1]
		if f == t {
			continue
		}
		c := Change{Path: p, From: f, To: t, Kind: Modified}
		switch {
		case f == "":
			c.Kind = Added
		case t == "":
			c.Kind = Deleted
		}
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// readOrEmpty returns the content of h, or nil for an absent side.
func readOrEmpty(r BlobReader, h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	b, err := r.ReadBlob(h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}
