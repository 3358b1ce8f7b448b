package diff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-enry/go-enry/v2"

	"github.com/odvcencio/ugit/pkg/diff3"
	"github.com/odvcencio/ugit/pkg/object"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// DiffTrees writes a unified diff for every path that differs between from
// and to, in path order.
func DiffTrees(w io.Writer, r BlobReader, from, to []object.FileEntry) error {
	for _, c := range ChangedFiles(from, to) {
		before, err := readOrEmpty(r, c.From)
		if err != nil {
			return fmt.Errorf("diff %s: %w", c.Path, err)
		}
		after, err := readOrEmpty(r, c.To)
		if err != nil {
			return fmt.Errorf("diff %s: %w", c.Path, err)
		}
		if err := DiffBlobs(w, c.Path, before, after); err != nil {
			return err
		}
	}
	return nil
}

// IsBinary reports whether content should not be treated as text.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// DiffBlobs writes the unified diff of one file. Nothing is written when
// the contents are equal.
func DiffBlobs(w io.Writer, path string, before, after []byte) error {
	if bytes.Equal(before, after) {
		return nil
	}

	if _, err := fmt.Fprintf(w, "diff --ugit a/%s b/%s\n", path, path); err != nil {
		return err
	}
	if IsBinary(before) || IsBinary(after) {
		_, err := fmt.Fprintf(w, "Binary files a/%s and b/%s differ\n", path, path)
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", path)
	fmt.Fprintf(&buf, "+++ b/%s\n", path)

	lines := diff3.LineDiff(before, after)
	for _, h := range groupHunks(lines, ContextLines) {
		oldStart, oldCount, newStart, newCount := h.lineRange(lines)
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, dl := range lines[h.start:h.end] {
			switch dl.Type {
			case diff3.Equal:
				buf.WriteByte(' ')
			case diff3.Insert:
				buf.WriteByte('+')
			case diff3.Delete:
				buf.WriteByte('-')
			}
			buf.WriteString(dl.Content)
			buf.WriteByte('\n')
			if dl.NoNewline {
				buf.WriteString("\\ No newline at end of file\n")
			}
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// hunk is a half-open window [start, end) over a line diff.
type hunk struct {
	start, end int
}

// groupHunks widens every changed line by context lines on both sides and
// merges windows that overlap or touch.
func groupHunks(lines []diff3.DiffLine, context int) []hunk {
	var hunks []hunk
	for i, dl := range lines {
		if dl.Type == diff3.Equal {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context+1, len(lines))
		if n := len(hunks); n > 0 && start <= hunks[n-1].end {
			hunks[n-1].end = max(hunks[n-1].end, end)
			continue
		}
		hunks = append(hunks, hunk{start: start, end: end})
	}
	return hunks
}

// lineRange returns the 1-based header ranges of h. An empty side starts at
// the line before the hunk, so a pure addition to an empty file reads -0,0.
func (h hunk) lineRange(lines []diff3.DiffLine) (oldStart, oldCount, newStart, newCount int) {
	oldLine, newLine := 1, 1
	for i, dl := range lines[:h.end] {
		inHunk := i >= h.start
		if i == h.start {
			oldStart, newStart = oldLine, newLine
		}
		if dl.Type != diff3.Insert {
			oldLine++
			if inHunk {
				oldCount++
			}
		}
		if dl.Type != diff3.Delete {
			newLine++
			if inHunk {
				newCount++
			}
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}
	return oldStart, oldCount, newStart, newCount
}
