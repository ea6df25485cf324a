package models

// Table is the loaded listing dataset. It is never modified after
// construction; every view works on a Selection of row indices into it.
type Table struct {
	rows []Listing
}

// NewTable takes ownership of rows. Callers must not modify rows afterwards.
func NewTable(rows []Listing) *Table {
	return &Table{rows: rows}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns the row at index i. The returned listing must be treated as
// read-only.
func (t *Table) At(i int) *Listing {
	return &t.rows[i]
}

// All selects every row of the table.
func (t *Table) All() Selection {
	return Selection{table: t, all: true}
}

// Head selects the first n rows (fewer if the table is shorter).
func (t *Table) Head(n int) Selection {
	if n >= t.Len() {
		return t.All()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Selection{table: t, idx: idx}
}

// Selection is an ordered subset of a Table's rows held as indices, so
// filtering and sampling never copy listing data.
type Selection struct {
	table *Table
	idx   []int
	all   bool
}

// NewSelection builds a selection from explicit row indices.
func NewSelection(t *Table, idx []int) Selection {
	return Selection{table: t, idx: idx}
}

func (s Selection) Table() *Table { return s.table }

func (s Selection) Len() int {
	if s.all {
		return s.table.Len()
	}
	return len(s.idx)
}

// Index maps the i-th selected row to its index in the table.
func (s Selection) Index(i int) int {
	if s.all {
		return i
	}
	return s.idx[i]
}

// At returns the i-th selected listing (read-only).
func (s Selection) At(i int) *Listing {
	return s.table.At(s.Index(i))
}

// Filter keeps the rows for which keep returns true, preserving order.
func (s Selection) Filter(keep func(*Listing) bool) Selection {
	n := s.Len()
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(s.At(i)) {
			idx = append(idx, s.Index(i))
		}
	}
	return Selection{table: s.table, idx: idx}
}

// Indices returns a copy of the selected table indices.
func (s Selection) Indices() []int {
	n := s.Len()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = s.Index(i)
	}
	return out
}
