package repo

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/odvcencio/ugit/pkg/object"
)

func TestWriteTreeReadTreeRoundTrip(t *testing.T) {
	r := initRepo(t)
	files := map[string]string{
		"a.txt":           "alpha\n",
		"dir/b.txt":       "bravo\n",
		"dir/sub/c.bin":   "\x00\x01\x02",
		"dir/sub/d e.txt": "spaces in names\n",
	}
	for p, c := range files {
		writeFile(t, r, p, c)
	}

	treeHash, ok, err := r.WriteTree(".")
	if err != nil || !ok {
		t.Fatalf("WriteTree: ok=%v err=%v", ok, err)
	}

	// Scribble over the working directory, then restore it.
	writeFile(t, r, "a.txt", "changed")
	writeFile(t, r, "extra/new.txt", "should disappear")
	if err := os.Remove(filepath.Join(r.RootDir, "dir", "b.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := r.ReadTree(treeHash); err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	for p, c := range files {
		if got := readFile(t, r, p); got != c {
			t.Errorf("%s = %q, want %q", p, got, c)
		}
	}
	if fileExists(r, "extra") {
		t.Error("ReadTree left an untracked directory behind")
	}
	if !fileExists(r, ".ugit/HEAD") {
		t.Error("ReadTree touched the metadata directory")
	}
}

func TestWriteTreeLayout(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "z.txt", "z")
	writeFile(t, r, "a/x.txt", "x")
	writeFile(t, r, "nested/.ugit/ignored", "ignored")
	if err := os.MkdirAll(filepath.Join(r.RootDir, "empty", "deeper"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	treeHash, _, err := r.WriteTree(r.RootDir)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	var names []string
	for _, e := range tree.Entries {
		names = append(names, e.Name)
	}
	want := []string{"a", "z.txt"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("root entries = %v, want %v", names, want)
	}
	if tree.Entries[0].Type != object.TypeTree || tree.Entries[1].Type != object.TypeBlob {
		t.Errorf("entry types = %+v", tree.Entries)
	}

	flat, err := object.Flatten(r.Store, treeHash, "")
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	for _, f := range flat {
		if isIgnored(f.Path) {
			t.Errorf("ignored path snapshotted: %s", f.Path)
		}
	}
}

func TestWriteTreeIgnoredDir(t *testing.T) {
	r := initRepo(t)
	_, ok, err := r.WriteTree(".ugit")
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if ok {
		t.Error("WriteTree of the metadata directory should report ok=false")
	}
}

func TestWriteTreeIsDeterministic(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "b", "2")
	writeFile(t, r, "a", "1")
	h1, _, err := r.WriteTree(".")
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	h2, _, err := r.WriteTree(".")
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same directory produced %s and %s", h1, h2)
	}
}

func TestWorkingTreeDoesNotStore(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "b.txt", "bee")
	writeFile(t, r, "a/c.txt", "sea")

	files, err := r.WorkingTree()
	if err != nil {
		t.Fatalf("WorkingTree: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if !sort.SliceIsSorted(files, func(i, j int) bool { return files[i].Path < files[j].Path }) {
		t.Errorf("not sorted: %+v", files)
	}
	if files[0].Path != "a/c.txt" || files[0].Hash != object.HashObject(object.TypeBlob, []byte("sea")) {
		t.Errorf("first entry = %+v", files[0])
	}
	if r.Store.Has(files[1].Hash) {
		t.Error("WorkingTree wrote a blob to the store")
	}
}

type fixedLister []string

func (l fixedLister) ListFiles(string) ([]string, error) { return l, nil }

func TestWorkingTreeUsesLister(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "listed.txt", "yes")
	writeFile(t, r, "hidden.txt", "no")
	r.Lister = fixedLister{"listed.txt", ".ugit/HEAD"}

	files, err := r.WorkingTree()
	if err != nil {
		t.Fatalf("WorkingTree: %v", err)
	}
	if len(files) != 1 || files[0].Path != "listed.txt" {
		t.Errorf("files = %+v", files)
	}
}

func TestSymlinksLeftOutOfSnapshots(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "a.txt", "target\n")
	if err := os.Symlink("a.txt", filepath.Join(r.RootDir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	commit(t, r, "with link")

	files, err := r.CommitFiles(mustHead(t, r))
	if err != nil {
		t.Fatalf("CommitFiles: %v", err)
	}
	if len(files) != 1 || files[0].Path != "a.txt" {
		t.Errorf("committed files = %v, want only a.txt", files)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Changes) != 0 {
		t.Errorf("fresh commit reports changes: %+v", st.Changes)
	}
}

func TestReadTreeRejectsMetadataPaths(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "keep.txt", "keep\n")

	blob, err := r.Store.WriteBlob(&object.Blob{Data: []byte("ref: refs/heads/evil\n")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	meta, err := r.Store.WriteTree(&object.TreeObj{Entries: []object.TreeEntry{
		{Type: object.TypeBlob, Hash: blob, Name: "HEAD"},
	}})
	if err != nil {
		t.Fatalf("WriteTree meta: %v", err)
	}
	root, err := r.Store.WriteTree(&object.TreeObj{Entries: []object.TreeEntry{
		{Type: object.TypeTree, Hash: meta, Name: MetaDir},
		{Type: object.TypeBlob, Hash: blob, Name: "z.txt"},
	}})
	if err != nil {
		t.Fatalf("WriteTree root: %v", err)
	}

	err = r.ReadTree(root)
	if !errors.Is(err, object.ErrMalformedTree) {
		t.Fatalf("ReadTree error = %v, want ErrMalformedTree", err)
	}
	if got := readFile(t, r, "keep.txt"); got != "keep\n" {
		t.Errorf("keep.txt = %q after failed ReadTree", got)
	}
	if fileExists(r, "z.txt") {
		t.Error("failed ReadTree wrote files")
	}
	head, ok, err := r.GetRef("HEAD", false)
	if err != nil || !ok || head != (RefValue{Symbolic: true, Value: "refs/heads/master"}) {
		t.Errorf("HEAD = %+v, %v, %v", head, ok, err)
	}
}

func TestReadTreeMissingBlobLeavesWorkingDir(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "keep.txt", "keep\n")

	missing := object.HashObject(object.TypeBlob, []byte("never stored"))
	root, err := r.Store.WriteTree(&object.TreeObj{Entries: []object.TreeEntry{
		{Type: object.TypeBlob, Hash: missing, Name: "gone.txt"},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	if err := r.ReadTree(root); !errors.Is(err, object.ErrObjectNotFound) {
		t.Fatalf("ReadTree error = %v, want ErrObjectNotFound", err)
	}
	if got := readFile(t, r, "keep.txt"); got != "keep\n" {
		t.Errorf("keep.txt = %q after failed ReadTree", got)
	}
}

func mustHead(t *testing.T, r *Repo) object.Hash {
	t.Helper()
	h, ok, err := r.Head()
	if err != nil || !ok {
		t.Fatalf("Head: %v, ok=%v", err, ok)
	}
	return h
}
