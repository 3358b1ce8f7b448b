package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
)

const (
	symrefPrefix   = "ref: "
	maxSymrefDepth = 16

	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// RefValue is the content of a ref: an object hash, or the name of another
// ref when Symbolic is set.
type RefValue struct {
	Symbolic bool
	Value    string
}

// Hash returns the value as an object hash. It is only meaningful for
// direct refs.
func (v RefValue) Hash() object.Hash {
	return object.Hash(v.Value)
}

func (v RefValue) String() string {
	if v.Symbolic {
		return symrefPrefix + v.Value
	}
	return v.Value
}

// NamedRef pairs a ref name with its value.
type NamedRef struct {
	Name  string
	Value RefValue
}

// validRefName accepts HEAD, MERGE_HEAD and clean paths under refs/.
func validRefName(name string) bool {
	if name == "HEAD" || name == "MERGE_HEAD" {
		return true
	}
	return strings.HasPrefix(name, "refs/") && object.ValidPath(name) && !strings.HasSuffix(name, ".lock")
}

func (r *Repo) refPath(name string) string {
	return filepath.Join(r.UgitDir, filepath.FromSlash(name))
}

// readRef reads one ref file without following it. A missing file, or a
// directory in its place, reports ok == false.
func (r *Repo) readRef(name string) (RefValue, bool, error) {
	data, err := os.ReadFile(r.refPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RefValue{}, false, nil
		}
		if info, statErr := os.Stat(r.refPath(name)); statErr == nil && info.IsDir() {
			return RefValue{}, false, nil
		}
		return RefValue{}, false, object.IOError(fmt.Sprintf("read ref %q", name), err)
	}

	content := strings.TrimSpace(string(data))
	if target, ok := strings.CutPrefix(content, symrefPrefix); ok {
		return RefValue{Symbolic: true, Value: strings.TrimSpace(target)}, true, nil
	}
	if !object.IsHash(content) {
		return RefValue{}, false, fmt.Errorf("read ref %q: malformed value %q", name, content)
	}
	return RefValue{Value: strings.ToLower(content)}, true, nil
}

// resolveRef returns the name of the ref that holds the value of name and
// that value. With deref set, symbolic refs are followed until a direct or
// missing ref is reached.
func (r *Repo) resolveRef(name string, deref bool) (string, RefValue, bool, error) {
	for depth := 0; ; depth++ {
		if !validRefName(name) {
			return "", RefValue{}, false, fmt.Errorf("%w: %q", ErrInvalidRefName, name)
		}
		value, ok, err := r.readRef(name)
		if err != nil {
			return "", RefValue{}, false, err
		}
		if !ok || !deref || !value.Symbolic {
			return name, value, ok, nil
		}
		if depth >= maxSymrefDepth {
			return "", RefValue{}, false, fmt.Errorf("resolve ref %q: %w", name, ErrSymrefLoop)
		}
		name = value.Value
	}
}

// GetRef reads a ref. With deref set, symbolic refs are followed and the
// final direct value is returned. An absent ref is ok == false, not an
// error.
func (r *Repo) GetRef(name string, deref bool) (RefValue, bool, error) {
	_, value, ok, err := r.resolveRef(name, deref)
	return value, ok, err
}

// UpdateRef writes value to name. With deref set and name symbolic, the
// ref at the end of the chain is written instead. Parent directories are
// created; the write goes through a lock file and a rename.
func (r *Repo) UpdateRef(name string, value RefValue, deref bool) error {
	if value.Symbolic {
		if !validRefName(value.Value) {
			return fmt.Errorf("update ref %q: %w: target %q", name, ErrInvalidRefName, value.Value)
		}
	} else if !object.IsHash(value.Value) {
		return fmt.Errorf("update ref %q: invalid object hash %q", name, value.Value)
	}

	target, _, _, err := r.resolveRef(name, deref)
	if err != nil {
		return fmt.Errorf("update ref: %w", err)
	}

	refPath := r.refPath(target)
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return object.IOError(fmt.Sprintf("update ref %q: mkdir", target), err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return object.IOError(fmt.Sprintf("update ref %q: lock", target), err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	if _, err := lockFile.WriteString(value.String() + "\n"); err != nil {
		return object.IOError(fmt.Sprintf("update ref %q: write", target), err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return object.IOError(fmt.Sprintf("update ref %q: close", target), err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return object.IOError(fmt.Sprintf("update ref %q: rename", target), err)
	}
	cleanupLock = false

	log.WithFields(log.Fields{"ref": target, "value": value.String()}).Debug("updated ref")
	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
		}
		time.Sleep(refLockRetryDelay)
	}
}

// DeleteRef removes a ref file. With deref set, the ref at the end of a
// symbolic chain is removed. Deleting an absent ref is not an error.
func (r *Repo) DeleteRef(name string, deref bool) error {
	target, _, ok, err := r.resolveRef(name, deref)
	if err != nil {
		return fmt.Errorf("delete ref: %w", err)
	}
	if !ok {
		return nil
	}
	if err := os.Remove(r.refPath(target)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return object.IOError(fmt.Sprintf("delete ref %q", target), err)
	}
	log.WithField("ref", target).Debug("deleted ref")
	return nil
}

// ListRefs returns HEAD, MERGE_HEAD and every ref under refs/ whose name
// starts with prefix, sorted by name. Absent refs are omitted. With deref
// set, each value is the end of its symbolic chain.
func (r *Repo) ListRefs(prefix string, deref bool) ([]NamedRef, error) {
	names := []string{"HEAD", "MERGE_HEAD"}

	refsRoot := filepath.Join(r.UgitDir, "refs")
	err := filepath.WalkDir(refsRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".lock") {
			return nil
		}
		rel, err := filepath.Rel(r.UgitDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, object.IOError("list refs", err)
	}

	var out []NamedRef
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) || !validRefName(name) {
			continue
		}
		value, ok, err := r.GetRef(name, deref)
		if err != nil {
			return nil, fmt.Errorf("list refs: %w", err)
		}
		if !ok {
			continue
		}
		out = append(out, NamedRef{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Head returns the hash HEAD resolves to. ok is false on an unborn branch.
func (r *Repo) Head() (object.Hash, bool, error) {
	v, ok, err := r.GetRef("HEAD", true)
	if err != nil || !ok {
		return "", false, err
	}
	return v.Hash(), true, nil
}

// ResolveRevision turns a user-supplied name into an object hash. "@" is
// HEAD. The name is tried as given, then under refs/, refs/tags/ and
// refs/heads/; the first existing ref wins. A 40-digit hex string is taken
// as a literal hash.
func (r *Repo) ResolveRevision(name string) (object.Hash, error) {
	if name == "@" {
		name = "HEAD"
	}
	for _, candidate := range []string{name, "refs/" + name, "refs/tags/" + name, "refs/heads/" + name} {
		if !validRefName(candidate) {
			continue
		}
		value, ok, err := r.GetRef(candidate, true)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		if ok {
			return value.Hash(), nil
		}
	}
	if object.IsHash(name) {
		return object.Hash(strings.ToLower(name)), nil
	}
	return "", &UnknownRevisionError{Name: name}
}
