// Package repo binds the object store, the reference namespace and the
// working directory of one ugit repository.
package repo

import (
	"sync"

	"github.com/odvcencio/ugit/pkg/object"
)

// MetaDir is the name of the metadata directory at the repository root.
const MetaDir = ".ugit"

// Repo is an opened ugit repository. Every operation is bound to its root,
// so a local and a remote repository are driven by the same methods.
type Repo struct {
	RootDir string        // working directory root
	UgitDir string        // .ugit/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config       // contents of .ugit/config.toml
	Lister  FileLister    // working directory file listing

	commitCacheOnce sync.Once
	commitCache     *commitCache
}

func (r *Repo) commits() *commitCache {
	r.commitCacheOnce.Do(func() {
		r.commitCache = newCommitCache()
	})
	return r.commitCache
}
