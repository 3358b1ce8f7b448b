package object

import (
	"bytes"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries keep their given order, one per
// line:
//
//	<type> <hash> <name>
func MarshalTree(tr *TreeObj) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range tr.Entries {
		if err := validateTreeEntry(e); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		fmt.Fprintf(&buf, "%s %s %s\n", e.Type, e.Hash, e.Name)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its serialized form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %q", ErrMalformedTree, line)
		}
		entry := TreeEntry{
			Type: ObjectType(parts[0]),
			Hash: Hash(parts[1]),
			Name: parts[2],
		}
		if err := validateTreeEntry(entry); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		tr.Entries = append(tr.Entries, entry)
	}
	return tr, nil
}

func validateTreeEntry(e TreeEntry) error {
	if e.Type != TypeBlob && e.Type != TypeTree {
		return fmt.Errorf("%w: entry %q has type %q", ErrMalformedTree, e.Name, e.Type)
	}
	if !IsHash(string(e.Hash)) {
		return fmt.Errorf("%w: entry %q has invalid hash %q", ErrMalformedTree, e.Name, e.Hash)
	}
	if !ValidEntryName(e.Name) {
		return fmt.Errorf("%w: illegal entry name %q", ErrMalformedTree, e.Name)
	}
	return nil
}

// ValidEntryName reports whether name can be stored as a single tree entry:
// non-empty, not "." or "..", and free of path separators and line breaks.
func ValidEntryName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\n\x00")
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form. The header
// must carry exactly one tree line; parent lines are kept in order.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	header, message := string(data), ""
	if idx := bytes.Index(data, []byte("\n\n")); idx >= 0 {
		header = string(data[:idx])
		message = string(data[idx+2:])
	} else {
		header = strings.TrimRight(header, "\n")
	}

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: header line %q", ErrMalformedCommit, line)
		}
		switch key {
		case "tree":
			if c.TreeHash != "" {
				return nil, fmt.Errorf("unmarshal commit: %w: duplicate tree header", ErrMalformedCommit)
			}
			if !IsHash(val) {
				return nil, fmt.Errorf("unmarshal commit: %w: bad tree hash %q", ErrMalformedCommit, val)
			}
			c.TreeHash = Hash(val)
		case "parent":
			if !IsHash(val) {
				return nil, fmt.Errorf("unmarshal commit: %w: bad parent hash %q", ErrMalformedCommit, val)
			}
			c.Parents = append(c.Parents, Hash(val))
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrMalformedCommit, key)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrMalformedCommit)
	}
	return c, nil
}
