package frame

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the frame as CSV, index column first.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{f.IndexName}, f.Columns...)); err != nil {
		return err
	}
	for i, ind := range f.index {
		rec := []string{ind}
		for _, col := range f.Columns {
			rec = append(rec, FormatCell(f.cells[i][col]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses CSV input into a frame. The first record gives the
// column names, the index column is chosen per DetectIndexColumn and
// body cells are numericised. Cells matching an naValues entry become
// missing data; index cells are always taken as written.
func ReadCSV(r io.Reader, indexField string, naValues ...string) (*Frame, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv input has no header row")
	}
	header := records[0]
	idxCol, err := DetectIndexColumn(header, indexField)
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0, len(header)-1)
	for i, c := range header {
		if i != idxCol {
			columns = append(columns, c)
		}
	}
	na := make(map[string]bool, len(naValues))
	for _, v := range naValues {
		na[v] = true
	}
	f := New(header[idxCol], columns...)
	for _, rec := range records[1:] {
		values := make(map[string]any, len(columns))
		index := ""
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			if i == idxCol {
				index = cell
				continue
			}
			if na[cell] {
				continue
			}
			values[header[i]] = Numericise(cell)
		}
		f.AppendRow(index, values)
	}
	return f, nil
}
