// Package remote exchanges objects and refs between two repositories that
// are both reachable on the local filesystem.
package remote

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

const (
	// RemoteBranchPrefix is where the branches of a remote land locally.
	RemoteBranchPrefix = "refs/remote/"
	branchPrefix       = "refs/heads/"
)

// ErrNonFastForward rejects a push that would drop commits from the
// remote ref.
var ErrNonFastForward = errors.New("non-fast-forward update")

// FetchResult summarizes a fetch.
type FetchResult struct {
	Objects int             // object files copied into the local store
	Refs    []repo.NamedRef // local refs/remote/* refs written, sorted by name
}

// Fetch copies every branch of remote, with all objects reachable from it,
// into local. Branch refs/heads/<b> is recorded locally as
// refs/remote/<b>. Objects already present locally are not copied again.
func Fetch(local, remote *repo.Repo) (*FetchResult, error) {
	branches, err := remote.ListRefs(branchPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("fetch: list remote refs: %w", err)
	}

	tips := make([]object.Hash, 0, len(branches))
	for _, b := range branches {
		tips = append(tips, b.Value.Hash())
	}
	reachable, err := remote.ReachableObjects(tips)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	copied, err := copyObjects(remote.Store, local.Store, sortedHashes(reachable))
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	result := &FetchResult{Objects: copied}
	for _, b := range branches {
		name := RemoteBranchPrefix + strings.TrimPrefix(b.Name, branchPrefix)
		value := repo.RefValue{Value: b.Value.Value}
		if err := local.UpdateRef(name, value, false); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		result.Refs = append(result.Refs, repo.NamedRef{Name: name, Value: value})
	}

	log.WithFields(log.Fields{
		"remote":  remote.RootDir,
		"objects": copied,
		"refs":    len(result.Refs),
	}).Debug("fetch complete")
	return result, nil
}

// PushResult summarizes a push.
type PushResult struct {
	Ref     string      // full remote ref name
	Old     object.Hash // previous remote value, "" when the ref was created
	New     object.Hash
	Objects int // object files copied into the remote store
}

// Push sends the local ref refName (a full ref name or a branch name) and
// the objects it needs to remote, then points the remote ref at it. The
// remote ref must be an ancestor of the local one unless force is set.
// Objects reachable from any remote ref the local store knows are assumed
// present on the remote and skipped.
func Push(local, remote *repo.Repo, refName string, force bool) (*PushResult, error) {
	if !strings.HasPrefix(refName, "refs/") {
		refName = branchPrefix + refName
	}

	localRef, ok, err := local.GetRef(refName, true)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	if !ok {
		return nil, fmt.Errorf("push %s: %w", refName, &repo.UnknownRevisionError{Name: refName})
	}
	result := &PushResult{Ref: refName, New: localRef.Hash()}

	remoteRefs, err := remote.ListRefs("", true)
	if err != nil {
		return nil, fmt.Errorf("push %s: list remote refs: %w", refName, err)
	}
	var known []object.Hash
	for _, ref := range remoteRefs {
		h := ref.Value.Hash()
		if ref.Name == refName {
			result.Old = h
		}
		if local.Store.Has(h) {
			known = append(known, h)
		}
	}

	if result.Old != "" && !force {
		if err := checkFastForward(local, result.Old, result.New); err != nil {
			return nil, fmt.Errorf("push %s: %w", refName, err)
		}
	}

	knownObjects, err := local.ReachableObjects(known)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	localObjects, err := local.ReachableObjects([]object.Hash{result.New})
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	var missing []object.Hash
	for h := range localObjects {
		if _, ok := knownObjects[h]; !ok {
			missing = append(missing, h)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	result.Objects, err = copyObjects(local.Store, remote.Store, missing)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	if err := remote.UpdateRef(refName, repo.RefValue{Value: string(result.New)}, true); err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}

	log.WithFields(log.Fields{
		"remote":  remote.RootDir,
		"ref":     refName,
		"old":     result.Old,
		"new":     result.New,
		"objects": result.Objects,
		"force":   force,
	}).Debug("push complete")
	return result, nil
}

// checkFastForward fails unless old is in the history of tip. A remote
// commit missing locally cannot be proven to be an ancestor.
func checkFastForward(local *repo.Repo, old, tip object.Hash) error {
	if !local.Store.Has(old) {
		return fmt.Errorf("%w: remote has %s which is not present locally; fetch first", ErrNonFastForward, old.Short())
	}
	ok, err := local.IsAncestor(tip, old)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not an ancestor of %s", ErrNonFastForward, old.Short(), tip.Short())
	}
	return nil
}

// copyObjects copies object files byte-for-byte from src to dst, skipping
// those dst already has. It returns the number of files copied.
func copyObjects(src, dst *object.Store, hashes []object.Hash) (int, error) {
	copied := 0
	for _, h := range hashes {
		if dst.Has(h) {
			continue
		}
		raw, err := src.ReadRaw(h)
		if err != nil {
			return copied, fmt.Errorf("copy object %s: %w", h, err)
		}
		if err := dst.WriteRaw(h, raw); err != nil {
			return copied, fmt.Errorf("copy object %s: %w", h, err)
		}
		copied++
	}
	return copied, nil
}

func sortedHashes(set map[object.Hash]struct{}) []object.Hash {
	out := make([]object.Hash, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
