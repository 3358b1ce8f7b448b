package object

// Hash is a 40-character hex-encoded SHA-1 object identifier.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Type is TypeBlob for files and
// TypeTree for subdirectories.
type TreeEntry struct {
	Type ObjectType
	Hash Hash
	Name string
}

// IsDir reports whether the entry refers to a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Type == TypeTree
}

// TreeObj holds the entries of one directory level in stored order.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree snapshot.
type CommitObj struct {
	TreeHash Hash
	Parents  []Hash
	Message  string
}

// FileEntry is one file in a flattened tree: a blob hash and its
// slash-separated path relative to the tree root.
type FileEntry struct {
	Hash Hash
	Path string
}
