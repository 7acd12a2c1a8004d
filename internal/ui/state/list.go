package state

// Row is one line of a tab's table. ID identifies the underlying record so the
// cursor can follow it across refreshes.
type Row struct {
	ID    string
	Cells []string
}

// List tracks the rows shown for a tab together with cursor and viewport.
type List struct {
	Rows           []Row
	Cursor         int
	ViewportOffset int
}

// NewList constructs a List holding rows.
func NewList(rows []Row) *List {
	l := &List{}
	l.SetRows(rows)
	return l
}

// SetRows replaces the rows, keeping the cursor on the same record when it
// is still present.
func (l *List) SetRows(rows []Row) {
	selected := ""
	if l.Cursor >= 0 && l.Cursor < len(l.Rows) {
		selected = l.Rows[l.Cursor].ID
	}
	l.Rows = cloneRows(rows)
	if idx := l.IndexOf(selected); idx >= 0 {
		l.Cursor = idx
	}
	if l.Cursor >= len(l.Rows) {
		l.Cursor = len(l.Rows) - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if len(l.Rows) == 0 || l.ViewportOffset > len(l.Rows)-1 {
		l.ViewportOffset = 0
	}
}

// IndexOf returns the index of the row with id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, row := range l.Rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the row under the cursor.
func (l *List) Selected() (Row, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Rows) {
		return Row{}, false
	}
	return l.Rows[l.Cursor], true
}

func cloneRows(rows []Row) []Row {
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
