package repo

import (
	"strings"
	"testing"
)

func TestMergeFastForward(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "base\n")
	h1 := commit(t, r, "base")
	if err := r.CreateBranch("feature", h1); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	writeFile(t, r, "f.txt", "feature\n")
	writeFile(t, r, "new.txt", "new\n")
	h2 := commit(t, r, "feature work")

	if err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout master: %v", err)
	}
	if fileExists(r, "new.txt") {
		t.Fatal("checkout of master kept a feature-only file")
	}
	objectsBefore, _ := r.Store.List()

	report, err := r.Merge(h2)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.Kind != MergeFastForward {
		t.Fatalf("Kind = %v, want fast-forward", report.Kind)
	}

	head, _, _ := r.Head()
	if head != h2 {
		t.Errorf("HEAD = %s, want %s", head, h2)
	}
	if branch, _ := r.CurrentBranch(); branch != "master" {
		t.Errorf("branch = %q, HEAD should stay on master", branch)
	}
	if _, ok, _ := r.GetRef("MERGE_HEAD", false); ok {
		t.Error("fast-forward left MERGE_HEAD")
	}
	objectsAfter, _ := r.Store.List()
	if len(objectsAfter) != len(objectsBefore) {
		t.Error("fast-forward created objects")
	}
	if readFile(t, r, "f.txt") != "feature\n" || readFile(t, r, "new.txt") != "new\n" {
		t.Error("working directory not updated to the merged commit")
	}
}

func TestMergeUpToDate(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f", "1")
	h1 := commit(t, r, "one")
	writeFile(t, r, "f", "2")
	h2 := commit(t, r, "two")

	report, err := r.Merge(h1)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.Kind != MergeUpToDate {
		t.Errorf("Kind = %v, want up-to-date", report.Kind)
	}
	if head, _, _ := r.Head(); head != h2 {
		t.Errorf("HEAD moved to %s", head)
	}
}

// divergent builds master and feature branches that both changed the
// file f.txt and returns the feature tip.
func divergent(t *testing.T, r *Repo, base, ours, theirs string) string {
	t.Helper()
	writeFile(t, r, "f.txt", base)
	writeFile(t, r, "shared.txt", "shared\n")
	h := commit(t, r, "base")
	if err := r.CreateBranch("feature", h); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout feature: %v", err)
	}
	writeFile(t, r, "f.txt", theirs)
	writeFile(t, r, "theirs-only.txt", "from feature\n")
	feature := commit(t, r, "theirs")

	if err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout master: %v", err)
	}
	writeFile(t, r, "f.txt", ours)
	commit(t, r, "ours")
	return string(feature)
}

func TestMergeThreeWayConflict(t *testing.T) {
	r := initRepo(t)
	feature := divergent(t, r, "a\nb\nc\n", "a\nOURS\nc\n", "a\nTHEIRS\nc\n")
	head, _, _ := r.Head()

	other, err := r.ResolveRevision(feature)
	if err != nil {
		t.Fatalf("ResolveRevision: %v", err)
	}
	report, err := r.Merge(other)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.Kind != MergeThreeWay {
		t.Fatalf("Kind = %v", report.Kind)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0] != "f.txt" {
		t.Errorf("Conflicts = %v", report.Conflicts)
	}

	content := readFile(t, r, "f.txt")
	for _, want := range []string{"<<<<<<< HEAD\n", "OURS\n", "=======\n", "THEIRS\n", ">>>>>>> MERGE_HEAD\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("merged f.txt missing %q:\n%s", want, content)
		}
	}
	if readFile(t, r, "theirs-only.txt") != "from feature\n" {
		t.Error("file added on the other side not merged in")
	}

	mergeHead, ok, err := r.GetRef("MERGE_HEAD", false)
	if err != nil || !ok || mergeHead.Hash() != other {
		t.Fatalf("MERGE_HEAD = %+v, %v, %v", mergeHead, ok, err)
	}
	if h, _, _ := r.Head(); h != head {
		t.Error("three-way merge moved HEAD before the commit")
	}

	// Resolve and record the merge.
	writeFile(t, r, "f.txt", "a\nresolved\nc\n")
	mergeCommit := commit(t, r, "merge feature")
	c, err := r.GetCommit(mergeCommit)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if len(c.Parents) != 2 || c.Parents[0] != head || c.Parents[1] != other {
		t.Errorf("merge parents = %v, want [%s %s]", c.Parents, head, other)
	}
	if _, ok, _ := r.GetRef("MERGE_HEAD", false); ok {
		t.Error("MERGE_HEAD not removed by commit")
	}

	// The merged branch is now reachable through the second parent only.
	report, err = r.Merge(other)
	if err != nil {
		t.Fatalf("second Merge: %v", err)
	}
	if report.Kind != MergeUpToDate {
		t.Errorf("second merge Kind = %v, want up-to-date", report.Kind)
	}
}

func TestMergeThreeWayClean(t *testing.T) {
	r := initRepo(t)
	feature := divergent(t, r, "1\n2\n3\n4\n5\n6\n7\n", "ONE\n2\n3\n4\n5\n6\n7\n", "1\n2\n3\n4\n5\n6\nSEVEN\n")

	other, _ := r.ResolveRevision(feature)
	report, err := r.Merge(other)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", report.Conflicts)
	}
	if got := readFile(t, r, "f.txt"); got != "ONE\n2\n3\n4\n5\n6\nSEVEN\n" {
		t.Errorf("f.txt = %q", got)
	}
	if readFile(t, r, "shared.txt") != "shared\n" {
		t.Error("unchanged file lost")
	}
}

func TestMergeConfiguredLabels(t *testing.T) {
	r := initRepo(t)
	r.Config.Merge.OursLabel = "mine"
	r.Config.Merge.TheirsLabel = "yours"
	feature := divergent(t, r, "x\n", "y\n", "z\n")
	other, _ := r.ResolveRevision(feature)

	if _, err := r.Merge(other); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	content := readFile(t, r, "f.txt")
	if !strings.Contains(content, "<<<<<<< mine\n") || !strings.Contains(content, ">>>>>>> yours\n") {
		t.Errorf("labels not applied:\n%s", content)
	}
}
