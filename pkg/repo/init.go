package repo

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/ugit/pkg/object"
)

// Init creates a new repository at path: .ugit/ with objects/, refs/heads/,
// refs/tags/, a HEAD pointing at refs/heads/master and a default
// config.toml. It fails with ErrAlreadyExists if .ugit/ is present.
func Init(path string) (*Repo, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	ugitDir := filepath.Join(root, MetaDir)

	if _, err := os.Stat(ugitDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrAlreadyExists, ugitDir)
	}

	for _, d := range []string{
		filepath.Join(ugitDir, "objects"),
		filepath.Join(ugitDir, "refs", "heads"),
		filepath.Join(ugitDir, "refs", "tags"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, object.IOError("init: mkdir "+d, err)
		}
	}
	if err := WriteConfig(ugitDir, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r, err := OpenAt(root)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.UpdateRef("HEAD", RefValue{Symbolic: true, Value: "refs/heads/master"}, false); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	log.WithField("root", root).Debug("initialized repository")
	return r, nil
}

// Open searches upward from path for a .ugit/ directory and opens the
// repository that owns it.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, MetaDir))
		if err == nil && info.IsDir() {
			return OpenAt(cur)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrNotARepository)
		}
		cur = parent
	}
}

// OpenAt opens the repository rooted exactly at root, without searching
// parent directories.
func OpenAt(root string) (*Repo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	ugitDir := filepath.Join(abs, MetaDir)
	info, err := os.Stat(ugitDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("open %s: %w", abs, ErrNotARepository)
	}

	cfg, err := ReadConfig(ugitDir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	store, err := object.NewStore(ugitDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}

	return &Repo{
		RootDir: abs,
		UgitDir: ugitDir,
		Store:   store,
		Config:  cfg,
		Lister:  DirLister{},
	}, nil
}
