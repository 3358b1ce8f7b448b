package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
)

// FileLister lists the regular files under a working directory root as
// slash-separated paths relative to root.
type FileLister interface {
	ListFiles(root string) ([]string, error)
}

// DirLister is the default FileLister. It walks the directory tree and
// skips the metadata directory.
type DirLister struct{}

// ListFiles implements FileLister.
func (DirLister) ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == MetaDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, object.IOError("list files", err)
	}
	sort.Strings(files)
	return files, nil
}

// isIgnored reports whether a slash path has a metadata directory
// component.
func isIgnored(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if part == MetaDir {
			return true
		}
	}
	return false
}

// relPath expresses dir relative to the repository root in slash form.
func (r *Repo) relPath(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.RootDir, dir)
	}
	rel, err := filepath.Rel(r.RootDir, dir)
	if err != nil {
		return "", fmt.Errorf("path %s: %w", dir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s is outside the repository", dir)
	}
	return rel, nil
}

// WriteTree snapshots dir (absolute, or relative to the repository root)
// into tree objects and returns the root tree hash. Entries are written in
// name order; the metadata directory and directories without any file are
// left out. ok is false when dir itself is ignored.
func (r *Repo) WriteTree(dir string) (object.Hash, bool, error) {
	rel, err := r.relPath(dir)
	if err != nil {
		return "", false, fmt.Errorf("write tree: %w", err)
	}
	if isIgnored(rel) {
		return "", false, nil
	}
	h, _, err := r.writeTreeDir(filepath.Join(r.RootDir, filepath.FromSlash(rel)), rel)
	if err != nil {
		return "", false, err
	}
	return h, true, nil
}

// writeTreeDir returns the tree hash of one directory and whether it holds
// any entry.
func (r *Repo) writeTreeDir(abs, rel string) (object.Hash, bool, error) {
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return "", false, object.IOError("write tree: read dir "+rel, err)
	}

	var entries []object.TreeEntry
	for _, de := range dirEntries {
		childRel := de.Name()
		if rel != "." {
			childRel = rel + "/" + de.Name()
		}
		if isIgnored(childRel) {
			continue
		}
		childAbs := filepath.Join(abs, de.Name())

		// Symlinks and other special files are left out, as in ListFiles.
		info, err := os.Lstat(childAbs)
		if err != nil {
			return "", false, object.IOError("write tree: stat "+childRel, err)
		}
		switch {
		case info.IsDir():
			h, nonEmpty, err := r.writeTreeDir(childAbs, childRel)
			if err != nil {
				return "", false, err
			}
			if nonEmpty {
				entries = append(entries, object.TreeEntry{Type: object.TypeTree, Hash: h, Name: de.Name()})
			}
		case info.Mode().IsRegular():
			data, err := os.ReadFile(childAbs)
			if err != nil {
				return "", false, object.IOError("write tree: read "+childRel, err)
			}
			h, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return "", false, fmt.Errorf("write tree: %s: %w", childRel, err)
			}
			entries = append(entries, object.TreeEntry{Type: object.TypeBlob, Hash: h, Name: de.Name()})
		}
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", false, fmt.Errorf("write tree %q: %w", rel, err)
	}
	return h, len(entries) > 0, nil
}

// ReadTree replaces the working directory with the content of a tree:
// everything outside the metadata directory is removed, then every file of
// the tree is written, parent directories included. Every path and blob is
// checked before anything is removed, so a bad tree leaves the working
// directory as it was.
func (r *Repo) ReadTree(treeHash object.Hash) error {
	files, err := object.Flatten(r.Store, treeHash, "")
	if err != nil {
		return fmt.Errorf("read tree: %w", err)
	}
	content := make(map[string][]byte, len(files))
	for _, f := range files {
		blob, err := r.Store.ReadBlob(f.Hash)
		if err != nil {
			return fmt.Errorf("read tree: %s: %w", f.Path, err)
		}
		content[f.Path] = blob.Data
	}
	if err := r.writeWorkingFiles(content); err != nil {
		return fmt.Errorf("read tree: %w", err)
	}
	log.WithFields(log.Fields{"tree": treeHash, "files": len(files)}).Debug("checked out tree")
	return nil
}

// writeWorkingFiles empties the working directory and writes files, sorted
// by path. Paths are validated first; nothing is touched if one is bad.
func (r *Repo) writeWorkingFiles(files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		if !writablePath(p) {
			return fmt.Errorf("%w: refusing to write %q", object.ErrMalformedTree, p)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if err := r.emptyWorkingDir(); err != nil {
		return err
	}
	for _, p := range paths {
		if err := r.writeWorkingFile(p, files[p]); err != nil {
			return err
		}
	}
	return nil
}

// writablePath reports whether p may be written into the working directory.
func writablePath(p string) bool {
	return object.ValidPath(p) && !isIgnored(p)
}

func (r *Repo) writeWorkingFile(p string, data []byte) error {
	if !writablePath(p) {
		return fmt.Errorf("%w: refusing to write %q", object.ErrMalformedTree, p)
	}
	abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return object.IOError("mkdir for "+p, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return object.IOError("write "+p, err)
	}
	return nil
}

// emptyWorkingDir removes every file outside the metadata directory, then
// every directory left empty.
func (r *Repo) emptyWorkingDir() error {
	var dirs []string
	err := filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == r.RootDir {
			return nil
		}
		if d.IsDir() {
			if d.Name() == MetaDir {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
	if err != nil {
		return object.IOError("empty working directory", err)
	}
	// Deepest first; directories that still hold ignored content stay.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
	return nil
}

// WorkingTree hashes the current working directory files without storing
// them and returns them sorted by path.
func (r *Repo) WorkingTree() ([]object.FileEntry, error) {
	files, _, err := r.workingTree()
	return files, err
}

// workingTree also returns a blob reader that serves working file content
// for the returned hashes and falls back to the store.
func (r *Repo) workingTree() ([]object.FileEntry, *workingBlobs, error) {
	paths, err := r.Lister.ListFiles(r.RootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("working tree: %w", err)
	}
	blobs := &workingBlobs{store: r.Store, content: make(map[object.Hash][]byte)}
	files := make([]object.FileEntry, 0, len(paths))
	for _, p := range paths {
		if isIgnored(p) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, nil, object.IOError("working tree: read "+p, err)
		}
		h := object.HashObject(object.TypeBlob, data)
		blobs.content[h] = data
		files = append(files, object.FileEntry{Hash: h, Path: p})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, blobs, nil
}

// workingBlobs serves blob content from the working directory snapshot
// first and from the object store otherwise.
type workingBlobs struct {
	store   *object.Store
	content map[object.Hash][]byte
}

func (w *workingBlobs) ReadBlob(h object.Hash) (*object.Blob, error) {
	if data, ok := w.content[h]; ok {
		return &object.Blob{Data: data}, nil
	}
	return w.store.ReadBlob(h)
}
