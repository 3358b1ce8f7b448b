package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

func workDir() string {
	if dir := viper.GetString("dir"); dir != "" {
		return dir
	}
	return "."
}

// absPath interprets a path argument relative to the working directory.
func absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Abs(filepath.Join(workDir(), p))
}

func openRepo() (*repo.Repo, error) {
	return repo.Open(workDir())
}

// resolveOrHead resolves a revision argument, defaulting to HEAD when none
// was given.
func resolveOrHead(r *repo.Repo, args []string) (object.Hash, error) {
	if len(args) > 0 {
		return r.ResolveRevision(args[0])
	}
	head, ok, err := r.Head()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", repo.ErrNoCommits
	}
	return head, nil
}

// openRemote opens a configured remote by name, or treats the argument as
// a repository path.
func openRemote(r *repo.Repo, nameOrPath string) (*repo.Repo, error) {
	path, err := r.RemotePath(nameOrPath)
	if err != nil {
		if path, err = absPath(nameOrPath); err != nil {
			return nil, err
		}
	}
	remote, err := repo.OpenAt(path)
	if err != nil {
		return nil, fmt.Errorf("remote %q: %w", nameOrPath, err)
	}
	return remote, nil
}
