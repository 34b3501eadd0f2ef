package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Frame is an ordered table of rows keyed by an index column, the
// interchange format between spreadsheets and local code. Row order is
// preserved and duplicate index values are representable so that a
// sheet with a broken index can still be read and inspected.
type Frame struct {
	IndexName string
	Columns   []string
	index     []string
	cells     []map[string]any
}

// New returns an empty frame with the given index column name and
// body columns.
func New(indexName string, columns ...string) *Frame {
	if indexName == "" {
		indexName = "index"
	}
	return &Frame{
		IndexName: indexName,
		Columns:   append([]string(nil), columns...),
	}
}

// Len reports the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// Index returns the row keys in order.
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// AppendRow adds a row with the given index value. Missing columns are
// left nil, unknown columns are ignored.
func (f *Frame) AppendRow(index string, values map[string]any) {
	row := make(map[string]any, len(f.Columns))
	for _, col := range f.Columns {
		if v, ok := values[col]; ok {
			row[col] = v
		}
	}
	f.index = append(f.index, index)
	f.cells = append(f.cells, row)
}

// DeleteRow removes the row with the given index value.
func (f *Frame) DeleteRow(index string) error {
	i := f.pos(index)
	if i < 0 {
		return fmt.Errorf("no row %q in frame", index)
	}
	f.index = append(f.index[:i], f.index[i+1:]...)
	f.cells = append(f.cells[:i], f.cells[i+1:]...)
	return nil
}

// Has reports whether a row with the given index value exists.
func (f *Frame) Has(index string) bool {
	return f.pos(index) >= 0
}

// Get returns the cell at (index, column). The boolean is false when
// no such row exists. With a duplicate index the first row wins.
func (f *Frame) Get(index, column string) (any, bool) {
	i := f.pos(index)
	if i < 0 {
		return nil, false
	}
	return f.cells[i][column], true
}

// Set writes the cell at (index, column), failing when the row or the
// column does not exist.
func (f *Frame) Set(index, column string, v any) error {
	i := f.pos(index)
	if i < 0 {
		return fmt.Errorf("no row %q in frame", index)
	}
	if !f.hasColumn(column) {
		return fmt.Errorf("no column %q in frame", column)
	}
	f.cells[i][column] = v
	return nil
}

// At returns the index value and a copy of the row at position i.
func (f *Frame) At(i int) (string, map[string]any) {
	row := make(map[string]any, len(f.cells[i]))
	for k, v := range f.cells[i] {
		row[k] = v
	}
	return f.index[i], row
}

// Row returns a copy of the row with the given index value.
func (f *Frame) Row(index string) (map[string]any, bool) {
	i := f.pos(index)
	if i < 0 {
		return nil, false
	}
	row := make(map[string]any, len(f.cells[i]))
	for k, v := range f.cells[i] {
		row[k] = v
	}
	return row, true
}

// UniqueIndex reports whether every row key occurs exactly once.
func (f *Frame) UniqueIndex() bool {
	seen := make(map[string]bool, len(f.index))
	for _, ind := range f.index {
		if seen[ind] {
			return false
		}
		seen[ind] = true
	}
	return true
}

func (f *Frame) pos(index string) int {
	for i, ind := range f.index {
		if ind == index {
			return i
		}
	}
	return -1
}

func (f *Frame) hasColumn(column string) bool {
	for _, c := range f.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// String renders the frame as a plain-text table.
func (f *Frame) String() string {
	display := &strings.Builder{}
	table := tablewriter.NewWriter(display)
	table.SetHeader(append([]string{f.IndexName}, f.Columns...))
	for i, ind := range f.index {
		row := []string{ind}
		for _, col := range f.Columns {
			row = append(row, FormatCell(f.cells[i][col]))
		}
		table.Append(row)
	}
	table.Render()
	return display.String()
}

// Numericise converts a cell string to the narrowest type it parses
// as, the way spreadsheet clients type their cells: integers, floats
// and TRUE/FALSE booleans. Strings that are none of those come back
// unchanged, as does the empty string.
func Numericise(s string) any {
	if s == "" {
		return s
	}
	if strings.Contains(s, "_") {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	switch s {
	case "TRUE", "true":
		return true
	case "FALSE", "false":
		return false
	}
	return s
}

// FormatCell renders a cell value the way it should appear in a
// spreadsheet cell or CSV field. Nil becomes the empty string.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// DetectIndexColumn picks the index column from a header row: the
// column named by indexField when given, otherwise a column called
// "index" in any casing, otherwise the first column.
func DetectIndexColumn(columns []string, indexField string) (int, error) {
	if indexField != "" {
		for i, c := range columns {
			if c == indexField {
				return i, nil
			}
		}
		return 0, fmt.Errorf("index column %q not present in header row", indexField)
	}
	for i, c := range columns {
		if strings.EqualFold(c, "index") {
			return i, nil
		}
	}
	return 0, nil
}
