package hdf5

import "github.com/ajitpratap0/tabula/pkg/tabular"

// layout is the struct-of-columns arrangement of one row: a byte
// offset per column, the total row size and the overall alignment.
type layout struct {
	colpos []int
	size   int
	align  int
}

// alignUp rounds pos up to the next multiple of align.
func alignUp(pos, align int) int {
	return align * ((pos + align - 1) / align)
}

// computeLayout walks the columns in order, placing each at the next
// offset aligned for it. The row size is the end of the last member
// rounded up to the first member's alignment, so consecutive rows stay
// aligned.
func computeLayout(cols []tabular.Column) layout {
	l := layout{colpos: make([]int, len(cols)), align: 1}
	pos := 0
	for i, c := range cols {
		if c.Align() > l.align {
			l.align = c.Align()
		}
		if i > 0 {
			pos = alignUp(pos, c.Align())
		}
		l.colpos[i] = pos
		pos += c.Size()
	}
	if len(cols) > 0 {
		l.size = alignUp(pos, cols[0].Align())
	}
	return l
}
