package diff3

// DiffType classifies a line in an edit script.
type DiffType int

const (
	Equal  DiffType = iota // present in both a and b
	Insert                 // present in b only
	Delete                 // present in a only
)

// DiffOp is one line of an edit script.
type DiffOp struct {
	Type DiffType
	Line string
}

// MyersDiff returns a shortest line edit script turning a into b. Within a
// run of changed lines all deletions precede all insertions.
func MyersDiff(a, b []string) []DiffOp {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]DiffOp, 0, len(a)+len(b)-prefix-suffix)
	for _, l := range a[:prefix] {
		ops = append(ops, DiffOp{Type: Equal, Line: l})
	}
	ops = append(ops, shortestEdit(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, l := range a[len(a)-suffix:] {
		ops = append(ops, DiffOp{Type: Equal, Line: l})
	}
	return groupChanges(ops)
}

// shortestEdit runs the greedy Myers search, keeping one snapshot of the
// furthest-reaching frontier per edit distance for the walk back.
func shortestEdit(a, b []string) []DiffOp {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		ops := make([]DiffOp, 0, n+m)
		for _, l := range a {
			ops = append(ops, DiffOp{Type: Delete, Line: l})
		}
		for _, l := range b {
			ops = append(ops, DiffOp{Type: Insert, Line: l})
		}
		return ops
	}

	off := n + m
	v := make([]int, 2*off+2)
	var trace [][]int
	for d := 0; d <= n+m; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				return walkBack(trace, a, b, off)
			}
		}
	}
	return nil
}

func walkBack(trace [][]int, a, b []string, off int) []DiffOp {
	x, y := len(a), len(b)
	var rev []DiffOp
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		prevK := k - 1
		if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
			prevK = k + 1
		}
		prevX := v[off+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, DiffOp{Type: Equal, Line: a[x]})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, DiffOp{Type: Insert, Line: b[y]})
		} else {
			x--
			rev = append(rev, DiffOp{Type: Delete, Line: a[x]})
		}
	}

	ops := make([]DiffOp, len(rev))
	for i, op := range rev {
		ops[len(rev)-1-i] = op
	}
	return ops
}

// groupChanges reorders every maximal run of non-equal ops so deletions
// come first. Relative order inside each kind is kept.
func groupChanges(ops []DiffOp) []DiffOp {
	for i := 0; i < len(ops); {
		if ops[i].Type == Equal {
			i++
			continue
		}
		j := i
		for j < len(ops) && ops[j].Type != Equal {
			j++
		}
		var dels, ins []DiffOp
		for _, op := range ops[i:j] {
			if op.Type == Delete {
				dels = append(dels, op)
			} else {
				ins = append(ins, op)
			}
		}
		copy(ops[i:], dels)
		copy(ops[i+len(dels):], ins)
		i = j
	}
	return ops
}
