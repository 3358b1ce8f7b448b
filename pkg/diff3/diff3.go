package diff3

import (
	"bytes"
	"slices"
	"strings"
)

// HunkType classifies a hunk in a three-way merge result.
type HunkType int

const (
	HunkClean    HunkType = iota // merged without intervention
	HunkConflict                 // both sides changed the region differently
)

// Hunk is a contiguous section of the merge output. Base holds the base
// lines the hunk replaces; Ours and Theirs hold each side's version when
// that side changed the region.
type Hunk struct {
	Type                       HunkType
	Base, Ours, Theirs, Merged []byte
}

// Result holds the outcome of a three-way merge.
type Result struct {
	Merged       []byte // full merged content, conflict markers included
	HasConflicts bool
	Hunks        []Hunk // in document order
}

// Labels name the two sides in conflict markers.
type Labels struct {
	Ours   string
	Theirs string
}

// DefaultLabels name the sides after the refs a merge reads them from.
var DefaultLabels = Labels{Ours: "HEAD", Theirs: "MERGE_HEAD"}

// DiffLine is a single line in the output of LineDiff. Content excludes the
// line terminator; NoNewline marks a last line that has none.
type DiffLine struct {
	Type      DiffType
	Content   string
	NoNewline bool
}

// LineDiff computes a line-level diff between a and b. A last line without
// a newline differs from the same text with one.
func LineDiff(a, b []byte) []DiffLine {
	ops := MyersDiff(splitKeepEnds(a), splitKeepEnds(b))
	out := make([]DiffLine, len(ops))
	for i, op := range ops {
		content, terminated := strings.CutSuffix(op.Line, "\n")
		out[i] = DiffLine{Type: op.Type, Content: content, NoNewline: !terminated}
	}
	return out
}

// SplitLines splits text into lines. A final newline does not produce a
// trailing empty line.
func SplitLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	lines := strings.Split(string(text), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitKeepEnds splits text after every newline. Joining the result gives
// back text byte for byte.
func splitKeepEnds(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(text), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Merge performs a three-way merge of base, ours and theirs with
// DefaultLabels.
func Merge(base, ours, theirs []byte) Result {
	return MergeLabeled(base, ours, theirs, DefaultLabels)
}

// MergeLabeled performs a three-way merge of base, ours and theirs.
//
// Each side is diffed against base and reduced to a list of edits over base
// line ranges. Edits from both sides are swept in base order and clustered
// whenever they overlap or touch. A cluster changed by one side only takes
// that side; a cluster changed identically by both sides is clean; anything
// else becomes a conflict block. Line endings are kept as they are, so a
// side without a final newline merges without gaining one; only marker
// lines are forced onto their own line:
//
//	<<<<<<< ours-label
//	...
//	=======
//	...
//	>>>>>>> theirs-label
func MergeLabeled(base, ours, theirs []byte, labels Labels) Result {
	baseLines := splitKeepEnds(base)
	oursEdits := editsOf(baseLines, splitKeepEnds(ours))
	theirsEdits := editsOf(baseLines, splitKeepEnds(theirs))

	m := merger{base: baseLines, labels: labels}
	pos, i, j := 0, 0, 0
	for i < len(oursEdits) || j < len(theirsEdits) {
		start := len(baseLines)
		if i < len(oursEdits) {
			start = oursEdits[i].baseStart
		}
		if j < len(theirsEdits) && theirsEdits[j].baseStart < start {
			start = theirsEdits[j].baseStart
		}
		m.unchanged(pos, start)

		end := start
		var oc, tc []edit
		for {
			if i < len(oursEdits) && oursEdits[i].baseStart <= end {
				oc = append(oc, oursEdits[i])
				end = max(end, oursEdits[i].baseEnd)
				i++
				continue
			}
			if j < len(theirsEdits) && theirsEdits[j].baseStart <= end {
				tc = append(tc, theirsEdits[j])
				end = max(end, theirsEdits[j].baseEnd)
				j++
				continue
			}
			break
		}
		m.cluster(start, end, oc, tc)
		pos = end
	}
	m.unchanged(pos, len(baseLines))

	return Result{
		Merged:       m.out.Bytes(),
		HasConflicts: m.conflicts,
		Hunks:        m.hunks,
	}
}

// edit replaces base[baseStart:baseEnd] with lines. A pure insertion has
// baseStart == baseEnd.
type edit struct {
	baseStart, baseEnd int
	lines              []string
}

func editsOf(base, side []string) []edit {
	var edits []edit
	pos := 0
	var cur *edit
	for _, op := range MyersDiff(base, side) {
		if op.Type == Equal {
			if cur != nil {
				edits = append(edits, *cur)
				cur = nil
			}
			pos++
			continue
		}
		if cur == nil {
			cur = &edit{baseStart: pos, baseEnd: pos}
		}
		if op.Type == Delete {
			pos++
			cur.baseEnd = pos
		} else {
			cur.lines = append(cur.lines, op.Line)
		}
	}
	if cur != nil {
		edits = append(edits, *cur)
	}
	return edits
}

// apply renders base[start:end] with edits applied.
func apply(base []string, start, end int, edits []edit) []string {
	var out []string
	pos := start
	for _, e := range edits {
		out = append(out, base[pos:e.baseStart]...)
		out = append(out, e.lines...)
		pos = e.baseEnd
	}
	return append(out, base[pos:end]...)
}

type merger struct {
	base      []string
	labels    Labels
	out       bytes.Buffer
	hunks     []Hunk
	conflicts bool
}

func (m *merger) unchanged(start, end int) {
	if start >= end {
		return
	}
	text := joinLines(m.base[start:end])
	m.out.Write(text)
	m.hunks = append(m.hunks, Hunk{Type: HunkClean, Base: text, Merged: text})
}

func (m *merger) cluster(start, end int, oc, tc []edit) {
	baseText := joinLines(m.base[start:end])
	switch {
	case len(tc) == 0:
		merged := joinLines(apply(m.base, start, end, oc))
		m.out.Write(merged)
		m.hunks = append(m.hunks, Hunk{Type: HunkClean, Base: baseText, Ours: merged, Merged: merged})
	case len(oc) == 0:
		merged := joinLines(apply(m.base, start, end, tc))
		m.out.Write(merged)
		m.hunks = append(m.hunks, Hunk{Type: HunkClean, Base: baseText, Theirs: merged, Merged: merged})
	default:
		oursLines := apply(m.base, start, end, oc)
		theirsLines := apply(m.base, start, end, tc)
		oursText, theirsText := joinLines(oursLines), joinLines(theirsLines)
		if slices.Equal(oursLines, theirsLines) {
			m.out.Write(oursText)
			m.hunks = append(m.hunks, Hunk{
				Type: HunkClean, Base: baseText, Ours: oursText, Theirs: theirsText, Merged: oursText,
			})
			return
		}
		m.conflicts = true
		var block bytes.Buffer
		block.WriteString("<<<<<<< " + m.labels.Ours + "\n")
		writeTerminated(&block, oursText)
		block.WriteString("=======\n")
		writeTerminated(&block, theirsText)
		block.WriteString(">>>>>>> " + m.labels.Theirs + "\n")
		m.out.Write(block.Bytes())
		m.hunks = append(m.hunks, Hunk{
			Type: HunkConflict, Base: baseText, Ours: oursText, Theirs: theirsText, Merged: block.Bytes(),
		})
	}
}

// joinLines concatenates lines produced by splitKeepEnds.
func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, ""))
}

// writeTerminated writes text and ends it with a newline if it lacks one.
func writeTerminated(buf *bytes.Buffer, text []byte) {
	buf.Write(text)
	if len(text) > 0 && text[len(text)-1] != '\n' {
		buf.WriteByte('\n')
	}
}
