package object

import (
	"errors"
	"strings"
	"testing"
)

const (
	hashA = Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	hashB = Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	hashC = Hash("cccccccccccccccccccccccccccccccccccccccc")
)

func TestMarshalTreeFormat(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Type: TypeBlob, Hash: hashA, Name: "b.txt"},
		{Type: TypeTree, Hash: hashB, Name: "a dir"},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	want := "blob " + string(hashA) + " b.txt\n" +
		"tree " + string(hashB) + " a dir\n"
	if string(data) != want {
		t.Errorf("MarshalTree:\ngot  %q\nwant %q", data, want)
	}
}

func TestMarshalTreeEmpty(t *testing.T) {
	data, err := MarshalTree(&TreeObj{})
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("empty tree should serialize to nothing, got %q", data)
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(tr.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(tr.Entries))
	}
}

func TestMarshalTreeRejectsBadEntries(t *testing.T) {
	bad := []TreeEntry{
		{Type: TypeCommit, Hash: hashA, Name: "x"},
		{Type: TypeBlob, Hash: Hash("nothex"), Name: "x"},
		{Type: TypeBlob, Hash: hashA, Name: ""},
		{Type: TypeBlob, Hash: hashA, Name: ".."},
		{Type: TypeBlob, Hash: hashA, Name: "a/b"},
		{Type: TypeBlob, Hash: hashA, Name: "line\nbreak"},
	}
	for _, e := range bad {
		_, err := MarshalTree(&TreeObj{Entries: []TreeEntry{e}})
		if !errors.Is(err, ErrMalformedTree) {
			t.Errorf("MarshalTree(%+v): got %v, want ErrMalformedTree", e, err)
		}
	}
}

func TestUnmarshalTreeMalformed(t *testing.T) {
	cases := []string{
		"blob " + string(hashA) + "\n",
		"blob\n",
		"commit " + string(hashA) + " x\n",
		"blob " + string(hashA) + " ../escape\n",
	}
	for _, in := range cases {
		if _, err := UnmarshalTree([]byte(in)); !errors.Is(err, ErrMalformedTree) {
			t.Errorf("UnmarshalTree(%q): got %v, want ErrMalformedTree", in, err)
		}
	}
}

func TestUnmarshalTreeNameWithSpaces(t *testing.T) {
	in := "blob " + string(hashA) + " my file name.txt\n"
	tr, err := UnmarshalTree([]byte(in))
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(tr.Entries) != 1 || tr.Entries[0].Name != "my file name.txt" {
		t.Errorf("entries = %+v", tr.Entries)
	}
}

func TestMarshalCommitFormat(t *testing.T) {
	c := &CommitObj{TreeHash: hashA, Parents: []Hash{hashB}, Message: "H2"}
	want := "tree " + string(hashA) + "\nparent " + string(hashB) + "\n\nH2"
	if got := string(MarshalCommit(c)); got != want {
		t.Errorf("MarshalCommit:\ngot  %q\nwant %q", got, want)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	cases := []*CommitObj{
		{TreeHash: hashA, Message: "root"},
		{TreeHash: hashA, Parents: []Hash{hashB}, Message: ""},
		{TreeHash: hashA, Parents: []Hash{hashB, hashC}, Message: "merge\n\nbody\n"},
	}
	for _, c := range cases {
		got, err := UnmarshalCommit(MarshalCommit(c))
		if err != nil {
			t.Fatalf("UnmarshalCommit: %v", err)
		}
		if got.TreeHash != c.TreeHash || got.Message != c.Message {
			t.Errorf("round trip: got %+v, want %+v", got, c)
		}
		if len(got.Parents) != len(c.Parents) {
			t.Fatalf("parents: got %v, want %v", got.Parents, c.Parents)
		}
		for i := range c.Parents {
			if got.Parents[i] != c.Parents[i] {
				t.Errorf("parent %d: got %s, want %s", i, got.Parents[i], c.Parents[i])
			}
		}
	}
}

func TestUnmarshalCommitWithoutBlankLine(t *testing.T) {
	c, err := UnmarshalCommit([]byte("tree " + string(hashA) + "\n"))
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if c.TreeHash != hashA || c.Message != "" {
		t.Errorf("got %+v", c)
	}
}

func TestUnmarshalCommitMalformed(t *testing.T) {
	cases := map[string]string{
		"missing tree":   "parent " + string(hashB) + "\n\nmsg",
		"duplicate tree": "tree " + string(hashA) + "\ntree " + string(hashB) + "\n\nmsg",
		"bad tree hash":  "tree xyz\n\nmsg",
		"bad parent":     "tree " + string(hashA) + "\nparent 123\n\nmsg",
		"unknown key":    "tree " + string(hashA) + "\nauthor someone\n\nmsg",
		"no separator":   "tree" + strings.Repeat("a", 40) + "\n\nmsg",
		"empty":          "",
	}
	for name, in := range cases {
		if _, err := UnmarshalCommit([]byte(in)); !errors.Is(err, ErrMalformedCommit) {
			t.Errorf("%s: got %v, want ErrMalformedCommit", name, err)
		}
	}
}
