package tabular

import (
	"fmt"
	"strings"
)

// Table is an in-memory tabular dataset: named columns over string cells.
// Cells hold the raw text of the uploaded file; typed coercion is left to the
// consumers so the same table can back sales cleaning and review scoring.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a table and pads every row to the column count.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		t.Rows = append(t.Rows, padRow(row, len(columns)))
	}
	return t
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column name); empty string if absent.
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= t.Len() {
		return ""
	}
	return t.Rows[row][idx]
}

// Col returns a copy of the named column's values.
func (t *Table) Col(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out
}

// Clone returns a deep copy. Consumers that rewrite cells must clone first;
// the uploaded table is shared by independent components.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	clone := &Table{Columns: append([]string(nil), t.Columns...)}
	clone.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		clone.Rows = append(clone.Rows, append([]string(nil), row...))
	}
	return clone
}

// Rename maps column names in place using the provided old→new table.
// Columns absent from the mapping keep their names.
func (t *Table) Rename(mapping map[string]string) {
	if t == nil {
		return
	}
	for i, col := range t.Columns {
		if renamed, ok := mapping[col]; ok {
			t.Columns[i] = renamed
		}
	}
}

// MissingColumns returns the required names absent from the table, in the
// order they were requested.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsBlank reports whether a cell value carries no usable content.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func (t *Table) String() string {
	if t == nil {
		return "tabular.Table(nil)"
	}
	return fmt.Sprintf("tabular.Table(%d cols, %d rows)", len(t.Columns), len(t.Rows))
}
