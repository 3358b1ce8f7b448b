package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic prefixes every zstd frame. A raw object always starts with an
// ASCII type tag, so the two encodings cannot be confused on read.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// A single decoder serves every store; DecodeAll is safe for concurrent use.
var objectDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

// Store is a content-addressed object store with a flat layout:
// objects/<40-hex-hash>, each file holding "type\0content".
type Store struct {
	root    string
	encoder *zstd.Encoder
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithCompression makes the store zstd-compress object files it writes.
// Reading handles compressed and raw object files regardless of this option.
func WithCompression(level zstd.EncoderLevel) StoreOption {
	return func(s *Store) error {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(level),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return fmt.Errorf("object store: zstd encoder: %w", err)
		}
		s.encoder = enc
		return nil
	}
}

// NewStore creates a Store rooted at the given metadata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string, opts ...StoreOption) (*Store, error) {
	s := &Store{root: root}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !IsHash(string(h)) {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Writing an object
// that already exists is a no-op.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	h := HashObject(objType, data)
	if s.Has(h) {
		return h, nil
	}

	raw := make([]byte, 0, len(objType)+1+len(data))
	raw = append(raw, objType...)
	raw = append(raw, 0)
	raw = append(raw, data...)
	if s.encoder != nil {
		raw = s.encoder.EncodeAll(raw, make([]byte, 0, len(raw)))
	}

	if err := s.writeFile(h, raw); err != nil {
		return "", err
	}
	return h, nil
}

// writeFile atomically places raw at the object path for h via a temp file
// and rename.
func (s *Store) writeFile(h Hash, raw []byte) error {
	dir := s.objectsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return IOError("object write mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return IOError("object write tmpfile", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return IOError("object write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return IOError("object write close", err)
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return IOError("object write rename", err)
	}
	return nil
}

// ReadRaw returns the object file for h exactly as stored on disk.
func (s *Store) ReadRaw(h Hash) ([]byte, error) {
	if !IsHash(string(h)) {
		return nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
	}
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return nil, IOError(fmt.Sprintf("object read %s", h), err)
	}
	return raw, nil
}

// WriteRaw stores an object file copied byte-for-byte from another store.
// The content is not re-hashed; the caller vouches for h. Existing objects
// are left untouched.
func (s *Store) WriteRaw(h Hash, raw []byte) error {
	if !IsHash(string(h)) {
		return fmt.Errorf("object write raw: invalid hash %q", h)
	}
	if s.Has(h) {
		return nil
	}
	return s.writeFile(h, raw)
}

// Read retrieves an object by hash, returning its type and content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	raw, err := s.ReadRaw(h)
	if err != nil {
		return "", nil, err
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		raw, err = objectDecoder.DecodeAll(raw, nil)
		if err != nil {
			return "", nil, fmt.Errorf("object read %s: decompress: %w", h, err)
		}
	}

	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", h)
	}
	return ObjectType(raw[:nulIdx]), raw[nulIdx+1:], nil
}

// ReadAs reads an object and fails with a *TypeMismatchError when its type
// is not want. An empty want accepts any type.
func (s *Store) ReadAs(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if want != "" && objType != want {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: want}
	}
	return data, nil
}

// List returns the hashes of every object in the store, sorted.
func (s *Store) List() ([]Hash, error) {
	entries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, IOError("object list", err)
	}
	var out []Hash
	for _, e := range entries {
		if e.IsDir() || !IsHash(e.Name()) {
			continue
		}
		out = append(out, Hash(e.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, b.Data)
}

// ReadBlob reads a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.ReadAs(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.ReadAs(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.ReadAs(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
