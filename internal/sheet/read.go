package sheet

import (
	"context"
	"fmt"

	"github.com/opendsi/googoal/internal/frame"
)

// lookups map frame coordinates onto 1-based sheet coordinates.
type lookups struct {
	rowOf map[string]int64
	colOf map[string]int64
}

// Read pulls the table in the focused worksheet into a frame. When
// useColumns is given, only those columns are filled in.
func (c *Client) Read(ctx context.Context, useColumns ...string) (*frame.Frame, error) {
	f, _, err := c.read(ctx, useColumns...)
	return f, err
}

func (c *Client) read(ctx context.Context, useColumns ...string) (*frame.Frame, *lookups, error) {
	columns, colOf, err := c.readHeaders(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("no header row found in worksheet %q of %s", c.worksheet, c.URL())
	}
	idx, err := frame.DetectIndexColumn(columns, c.opts.IndexField)
	if err != nil {
		return nil, nil, fmt.Errorf("%v (worksheet %q of %s)", err, c.worksheet, c.URL())
	}
	return c.readBody(ctx, columns, colOf, columns[idx], useColumns)
}

func (c *Client) readHeaders(ctx context.Context) ([]string, map[string]int64, error) {
	rng := fmt.Sprintf("%s!%d:%d", quoteWorksheet(c.worksheet), c.opts.Header, c.opts.Header)
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read header row: %w", err)
	}
	var cells []interface{}
	if len(resp.Values) > 0 {
		cells = resp.Values[0]
	}
	if len(cells) > c.opts.ColIndent {
		cells = cells[c.opts.ColIndent:]
	} else {
		cells = nil
	}
	columns := make([]string, 0, len(cells))
	colOf := make(map[string]int64, len(cells))
	for i, cell := range cells {
		name := fmt.Sprint(cell)
		columns = append(columns, name)
		colOf[name] = int64(c.opts.ColIndent + i + 1)
	}
	return columns, colOf, nil
}

func (c *Client) readBody(ctx context.Context, columns []string, colOf map[string]int64, indexField string, useColumns []string) (*frame.Frame, *lookups, error) {
	idxColNum := colOf[indexField]
	colRng := fmt.Sprintf("%s!%s:%s", quoteWorksheet(c.worksheet), ColLetter(idxColNum), ColLetter(idxColNum))
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, colRng).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read index column: %w", err)
	}

	// The index column is assumed full: its height decides how many
	// entries the table has.
	var index []string
	for i, row := range resp.Values {
		if i < c.opts.Header {
			continue
		}
		val := ""
		if len(row) > 0 && row[0] != nil {
			val = fmt.Sprint(row[0])
		}
		index = append(index, val)
	}
	rowOf := make(map[string]int64, len(index))
	for i, ind := range index {
		if _, exists := rowOf[ind]; !exists {
			rowOf[ind] = int64(c.opts.Header + i + 1)
		}
	}

	bodyCols := make([]string, 0, len(columns)-1)
	for _, col := range columns {
		if col != indexField {
			bodyCols = append(bodyCols, col)
		}
	}
	f := frame.New(indexField, bodyCols...)
	lk := &lookups{rowOf: rowOf, colOf: colOf}
	if len(index) == 0 {
		return f, lk, nil
	}

	rng := RangeA1(c.worksheet,
		int64(c.opts.Header+1), int64(c.opts.ColIndent+1),
		int64(c.opts.Header+len(index)), int64(c.opts.ColIndent+len(columns)))
	call := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng)
	if c.opts.RawValues {
		call = call.ValueRenderOption("FORMULA")
	}
	body, err := call.Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	use := make(map[string]bool, len(useColumns))
	for _, col := range useColumns {
		use[col] = true
	}
	for i, ind := range index {
		var rowCells []interface{}
		if i < len(body.Values) {
			rowCells = body.Values[i]
		}
		values := make(map[string]any, len(bodyCols))
		for j, col := range columns {
			if col == indexField {
				continue
			}
			if len(use) > 0 && !use[col] {
				continue
			}
			raw := ""
			if j < len(rowCells) && rowCells[j] != nil {
				raw = fmt.Sprint(rowCells[j])
			}
			values[col] = c.cellValue(col, raw)
		}
		f.AppendRow(ind, values)
	}
	return f, lk, nil
}

func (c *Client) cellValue(column, raw string) any {
	for _, na := range c.opts.NAValues {
		if raw == na {
			return nil
		}
	}
	if convert, ok := c.opts.Dtype[column]; ok {
		return convert(raw)
	}
	return frame.Numericise(raw)
}
