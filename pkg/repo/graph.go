package repo

import (
	"fmt"
	"sync"

	"github.com/odvcencio/ugit/pkg/object"
)

// commitCache memoizes parsed commits. Commits are immutable, so entries
// never go stale.
type commitCache struct {
	mu      sync.RWMutex
	commits map[object.Hash]*object.CommitObj
}

func newCommitCache() *commitCache {
	return &commitCache{commits: make(map[object.Hash]*object.CommitObj)}
}

func (c *commitCache) read(store *object.Store, h object.Hash) (*object.CommitObj, error) {
	c.mu.RLock()
	cached, ok := c.commits[h]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	commit, err := store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", h, err)
	}

	c.mu.Lock()
	if existing, exists := c.commits[h]; exists {
		c.mu.Unlock()
		return existing, nil
	}
	c.commits[h] = commit
	c.mu.Unlock()
	return commit, nil
}

func (c *commitCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.commits)
}

// walkAncestors visits every commit reachable from roots once. The first
// parent of a commit is visited next; other parents are queued behind
// everything already pending. visit returns false to stop the walk.
func (r *Repo) walkAncestors(roots []object.Hash, visit func(object.Hash, *object.CommitObj) bool) error {
	queue := append([]object.Hash(nil), roots...)
	seen := make(map[object.Hash]struct{})
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		c, err := r.GetCommit(h)
		if err != nil {
			return err
		}
		if !visit(h, c) {
			return nil
		}
		if len(c.Parents) > 0 {
			queue = append([]object.Hash{c.Parents[0]}, queue...)
			queue = append(queue, c.Parents[1:]...)
		}
	}
	return nil
}

// Ancestors returns every commit reachable from roots, roots included,
// each once, in traversal order.
func (r *Repo) Ancestors(roots []object.Hash) ([]object.Hash, error) {
	var out []object.Hash
	err := r.walkAncestors(roots, func(h object.Hash, _ *object.CommitObj) bool {
		out = append(out, h)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ancestors: %w", err)
	}
	return out, nil
}

// MergeBase returns the first commit, in the traversal order of b's
// history, that is also an ancestor of a. It is a common ancestor, not
// necessarily the lowest one. ok is false when the histories are disjoint.
func (r *Repo) MergeBase(a, b object.Hash) (object.Hash, bool, error) {
	ofA, err := r.Ancestors([]object.Hash{a})
	if err != nil {
		return "", false, fmt.Errorf("merge base: %w", err)
	}
	inA := make(map[object.Hash]struct{}, len(ofA))
	for _, h := range ofA {
		inA[h] = struct{}{}
	}

	var base object.Hash
	err = r.walkAncestors([]object.Hash{b}, func(h object.Hash, _ *object.CommitObj) bool {
		if _, ok := inA[h]; ok {
			base = h
			return false
		}
		return true
	})
	if err != nil {
		return "", false, fmt.Errorf("merge base: %w", err)
	}
	return base, base != "", nil
}

// IsAncestor reports whether candidate is reachable from commit. A commit
// is its own ancestor.
func (r *Repo) IsAncestor(commit, candidate object.Hash) (bool, error) {
	found := false
	err := r.walkAncestors([]object.Hash{commit}, func(h object.Hash, _ *object.CommitObj) bool {
		found = h == candidate
		return !found
	})
	if err != nil {
		return false, fmt.Errorf("is ancestor: %w", err)
	}
	return found, nil
}

// ReachableObjects returns every commit reachable from roots together with
// their trees, subtrees and blobs.
func (r *Repo) ReachableObjects(roots []object.Hash) (map[object.Hash]struct{}, error) {
	seen := make(map[object.Hash]struct{})
	trees := make(map[object.Hash]struct{})
	err := r.walkAncestors(roots, func(h object.Hash, c *object.CommitObj) bool {
		seen[h] = struct{}{}
		trees[c.TreeHash] = struct{}{}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("reachable objects: %w", err)
	}
	for t := range trees {
		if err := object.CollectTree(r.Store, t, seen); err != nil {
			return nil, fmt.Errorf("reachable objects: %w", err)
		}
	}
	return seen, nil
}
