package repo

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
)

// Commit snapshots the working directory and records it on top of HEAD.
//
//  1. WriteTree of the repository root
//  2. HEAD (if any) becomes the first parent, MERGE_HEAD (if any) the second
//  3. Write the commit object
//  4. Remove MERGE_HEAD
//  5. Point HEAD, through its branch when symbolic, at the new commit
func (r *Repo) Commit(message string) (object.Hash, error) {
	treeHash, _, err := r.WriteTree(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	c := &object.CommitObj{TreeHash: treeHash, Message: message}
	head, ok, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if ok {
		c.Parents = append(c.Parents, head)
	}
	mergeHead, ok, err := r.GetRef("MERGE_HEAD", true)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if ok {
		c.Parents = append(c.Parents, mergeHead.Hash())
	}

	commitHash, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}
	if err := r.DeleteRef("MERGE_HEAD", false); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := r.UpdateRef("HEAD", RefValue{Value: string(commitHash)}, true); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	log.WithFields(log.Fields{
		"commit":  commitHash,
		"tree":    treeHash,
		"parents": len(c.Parents),
	}).Debug("recorded commit")
	return commitHash, nil
}

// GetCommit reads and parses a commit object.
func (r *Repo) GetCommit(h object.Hash) (*object.CommitObj, error) {
	return r.commits().read(r.Store, h)
}

// CommitFiles returns the flattened tree of a commit. An empty hash stands
// for the empty tree of an unborn branch.
func (r *Repo) CommitFiles(h object.Hash) ([]object.FileEntry, error) {
	if h == "" {
		return nil, nil
	}
	c, err := r.GetCommit(h)
	if err != nil {
		return nil, err
	}
	files, err := object.Flatten(r.Store, c.TreeHash, "")
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h.Short(), err)
	}
	return files, nil
}

// LogEntry is one commit in a history listing.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks history from start in ancestor order, returning at most limit
// commits (no limit when limit <= 0).
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var out []LogEntry
	err := r.walkAncestors([]object.Hash{start}, func(h object.Hash, c *object.CommitObj) bool {
		out = append(out, LogEntry{Hash: h, Commit: c})
		return limit <= 0 || len(out) < limit
	})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return out, nil
}
