package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestHashObjectDeterminism(t *testing.T) {
	h1 := HashObject(TypeBlob, []byte("hello"))
	h2 := HashObject(TypeBlob, []byte("hello"))
	if h1 != h2 {
		t.Errorf("HashObject not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != HashLen {
		t.Errorf("Hash length: got %d, want %d", len(h1), HashLen)
	}
	if !IsHash(string(h1)) {
		t.Errorf("IsHash(%q) = false", h1)
	}
}

func TestHashObjectEnvelope(t *testing.T) {
	// sha1("blob\x00hello")
	const want = Hash("5b211494ba9e0f5c98ca51e8732bda579d8487ef")
	if got := HashObject(TypeBlob, []byte("hello")); got != want {
		t.Errorf("HashObject: got %s, want %s", got, want)
	}
	if HashObject(TypeBlob, []byte("x")) == HashObject(TypeTree, []byte("x")) {
		t.Error("Different types should produce different hashes")
	}
}

func TestIsHash(t *testing.T) {
	cases := map[string]bool{
		"cc2e5b5bae37feac4cad8bf2d4fc7e71cc6c3c0f":  true,
		"CC2E5B5BAE37FEAC4CAD8BF2D4FC7E71CC6C3C0F":  true,
		"cc2e5b5bae37feac4cad8bf2d4fc7e71cc6c3c0":   false,
		"cc2e5b5bae37feac4cad8bf2d4fc7e71cc6c3c0fa": false,
		"zz2e5b5bae37feac4cad8bf2d4fc7e71cc6c3c0f":  false,
		"../../../../../../../../../../etc/passwd":  false,
		"":                                          false,
	}
	for in, want := range cases {
		if got := IsHash(in); got != want {
			t.Errorf("IsHash(%q) = %v, want %v", in, got, want)
		}
	}
}

func tempStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreOnDiskFormat(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("payload\x00with nul"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(s.Root(), "objects", string(h)))
	if err != nil {
		t.Fatalf("read object file: %v", err)
	}
	want := []byte("blob\x00payload\x00with nul")
	if !bytes.Equal(raw, want) {
		t.Errorf("object file: got %q, want %q", raw, want)
	}

	_, data, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte("payload\x00with nul")) {
		t.Errorf("payload split on wrong NUL: %q", data)
	}
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t)
	h1, err := s.Write(TypeBlob, []byte("duplicate"))
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	h2, err := s.Write(TypeBlob, []byte("duplicate"))
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Same content produced different hashes: %q vs %q", h1, h2)
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), "objects"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one object file, got %d", len(entries))
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(Hash("0000000000000000000000000000000000000000"))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Read missing: got %v, want ErrObjectNotFound", err)
	}
	if s.Has(Hash("0000000000000000000000000000000000000000")) {
		t.Error("Has returned true for non-existing object")
	}
}

func TestStoreTypeMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob(&Blob{Data: []byte("not a commit")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	_, err = s.ReadCommit(h)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("ReadCommit on blob: got %v, want ErrTypeMismatch", err)
	}
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected *TypeMismatchError, got %T", err)
	}
	if tm.Got != TypeBlob || tm.Want != TypeCommit {
		t.Errorf("TypeMismatchError = %+v", tm)
	}

	if _, err := s.ReadAs(h, ""); err != nil {
		t.Errorf("ReadAs with no expected type: %v", err)
	}
}

func TestStoreWriteReadTree(t *testing.T) {
	s := tempStore(t)
	blob, _ := s.WriteBlob(&Blob{Data: []byte("x")})
	sub, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Type: TypeBlob, Hash: blob, Name: "x.txt"}}})
	if err != nil {
		t.Fatalf("WriteTree sub: %v", err)
	}
	orig := &TreeObj{Entries: []TreeEntry{
		{Type: TypeTree, Hash: sub, Name: "pkg"},
		{Type: TypeBlob, Hash: blob, Name: "main go.txt"},
	}}
	h, err := s.WriteTree(orig)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	got, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("Entries length: got %d, want 2", len(got.Entries))
	}
	// Stored order is preserved, not re-sorted.
	if got.Entries[0] != orig.Entries[0] || got.Entries[1] != orig.Entries[1] {
		t.Errorf("tree round-trip: got %+v, want %+v", got.Entries, orig.Entries)
	}
}

func TestStoreWriteReadCommit(t *testing.T) {
	s := tempStore(t)
	orig := &CommitObj{
		TreeHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents: []Hash{
			Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
			Hash("cccccccccccccccccccccccccccccccccccccccc"),
		},
		Message: "merge commit\n\nWith details.",
	}
	h, err := s.WriteCommit(orig)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	got, err := s.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if got.TreeHash != orig.TreeHash {
		t.Errorf("TreeHash: got %s, want %s", got.TreeHash, orig.TreeHash)
	}
	if len(got.Parents) != 2 || got.Parents[0] != orig.Parents[0] || got.Parents[1] != orig.Parents[1] {
		t.Errorf("Parents: got %v, want %v", got.Parents, orig.Parents)
	}
	if got.Message != orig.Message {
		t.Errorf("Message: got %q, want %q", got.Message, orig.Message)
	}
}

func TestStoreCompression(t *testing.T) {
	s := tempStore(t, WithCompression(zstd.SpeedDefault))
	data := bytes.Repeat([]byte("compressible line\n"), 200)
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if h != HashObject(TypeBlob, data) {
		t.Errorf("compression must not change the hash")
	}

	raw, err := s.ReadRaw(h)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !bytes.HasPrefix(raw, zstdMagic) {
		t.Fatalf("object file is not zstd framed")
	}
	if len(raw) >= len(data) {
		t.Errorf("compressed size %d not smaller than %d", len(raw), len(data))
	}

	blob, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if !bytes.Equal(blob.Data, data) {
		t.Error("compressed round-trip mismatch")
	}
}

func TestStoreRawCopyBetweenStores(t *testing.T) {
	src := tempStore(t, WithCompression(zstd.SpeedFastest))
	dst := tempStore(t)

	h, err := src.Write(TypeBlob, []byte("copied"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := src.ReadRaw(h)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if err := dst.WriteRaw(h, raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	// Copying again is a no-op.
	if err := dst.WriteRaw(h, raw); err != nil {
		t.Fatalf("WriteRaw again: %v", err)
	}

	blob, err := dst.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob from destination: %v", err)
	}
	if string(blob.Data) != "copied" {
		t.Errorf("got %q", blob.Data)
	}

	list, err := dst.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0] != h {
		t.Errorf("List: got %v, want [%s]", list, h)
	}
}

func TestIOErrorClassification(t *testing.T) {
	err := IOError("write ref", os.ErrPermission)
	if !errors.Is(err, ErrIO) {
		t.Error("expected ErrIO in chain")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected original error in chain")
	}
	if IOError("noop", nil) != nil {
		t.Error("IOError(nil) should be nil")
	}
}
