package object

import (
	"fmt"
	"path"
	"strings"
)

// TreeReader is the read side of the store that tree flattening needs.
// *Store satisfies it; tests can supply an in-memory map.
type TreeReader interface {
	ReadTree(h Hash) (*TreeObj, error)
}

// Flatten expands the tree at root into every file it contains, depth-first
// in stored entry order. Paths are slash-separated and prefixed with base
// (which may be empty). A path that would escape the tree root fails with
// ErrMalformedTree.
func Flatten(r TreeReader, root Hash, base string) ([]FileEntry, error) {
	var out []FileEntry
	if err := flattenRec(r, root, base, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenRec(r TreeReader, h Hash, prefix string, out *[]FileEntry) error {
	tr, err := r.ReadTree(h)
	if err != nil {
		return fmt.Errorf("flatten tree: read %s: %w", h, err)
	}
	for _, e := range tr.Entries {
		full := e.Name
		if prefix != "" {
			full = prefix + "/" + e.Name
		}
		if !ValidPath(full) {
			return fmt.Errorf("flatten tree %s: %w: illegal path %q", h, ErrMalformedTree, full)
		}
		switch e.Type {
		case TypeTree:
			if err := flattenRec(r, e.Hash, full, out); err != nil {
				return err
			}
		case TypeBlob:
			*out = append(*out, FileEntry{Hash: e.Hash, Path: full})
		default:
			return fmt.Errorf("flatten tree %s: %w: entry %q has type %q", h, ErrMalformedTree, full, e.Type)
		}
	}
	return nil
}

// ValidPath reports whether p is a clean relative slash path: no empty,
// "." or ".." components and no leading slash.
func ValidPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return path.Clean(p) == p
}
