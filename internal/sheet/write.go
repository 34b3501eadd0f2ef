package sheet

import (
	"context"
	"fmt"
	"math"

	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/opendsi/googoal/internal/frame"
)

// WriteComment writes a comment into a single cell, by default the
// top-left one. The header must be more than one row high for the
// comment to survive a subsequent Write.
func (c *Client) WriteComment(ctx context.Context, comment string, row, col int64) error {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	rng := fmt.Sprintf("%s!%s", quoteWorksheet(c.worksheet), CellA1(row, col))
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{{comment}}}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write comment: %w", err)
	}
	return nil
}

// Write puts a frame into the focused worksheet: the header row first,
// then one row per frame entry. The header cells and the index column
// of the target area must be empty.
func (c *Client) Write(ctx context.Context, f *frame.Frame, comment string) error {
	if comment != "" {
		if c.opts.Header == 1 {
			return fmt.Errorf("comment would be overwritten by column headers, increase the header height")
		}
		if err := c.WriteComment(ctx, comment, 1, 1); err != nil {
			return err
		}
	}
	if err := c.writeHeaders(ctx, f); err != nil {
		return err
	}
	return c.writeBody(ctx, f)
}

func (c *Client) writeHeaders(ctx context.Context, f *frame.Frame) error {
	headers := append([]string{f.IndexName}, f.Columns...)
	r := int64(c.opts.Header)
	rng := RangeA1(c.worksheet, r, int64(c.opts.ColIndent+1), r, int64(c.opts.ColIndent+len(headers)))
	if err := c.ensureEmpty(ctx, rng); err != nil {
		return err
	}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

func (c *Client) writeBody(ctx context.Context, f *frame.Frame) error {
	if f.Len() == 0 {
		return nil
	}
	r1 := int64(c.opts.Header + 1)
	r2 := int64(c.opts.Header + f.Len())
	idxCol := int64(c.opts.ColIndent + 1)
	if err := c.ensureEmpty(ctx, RangeA1(c.worksheet, r1, idxCol, r2, idxCol)); err != nil {
		return err
	}
	rng := RangeA1(c.worksheet, r1, idxCol, r2, int64(c.opts.ColIndent+1+len(f.Columns)))
	values := make([][]interface{}, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		ind, rowMap := f.At(i)
		row := []interface{}{ind}
		for _, col := range f.Columns {
			row = append(row, cellOut(rowMap[col]))
		}
		values = append(values, row)
	}
	vr := &sheetsv4.ValueRange{Values: values}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// AppendRow adds one row of raw values underneath the table in the
// focused worksheet.
func (c *Client) AppendRow(ctx context.Context, values ...any) error {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = cellOut(v)
	}
	anchor := fmt.Sprintf("%s!%s", quoteWorksheet(c.worksheet),
		CellA1(int64(c.opts.Header), int64(c.opts.ColIndent+1)))
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{out}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, anchor, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ensureEmpty fails when any cell in rng already holds a value.
func (c *Client) ensureEmpty(ctx context.Context, rng string) error {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("check target range %s: %w", rng, err)
	}
	for _, row := range resp.Values {
		for _, cell := range row {
			if cell != nil && fmt.Sprint(cell) != "" {
				return fmt.Errorf("refusing to overwrite non-empty cells in %s of %s", rng, c.URL())
			}
		}
	}
	return nil
}

// cellOut renders a frame value as a spreadsheet cell value. Missing
// data becomes an empty cell, and so do NaN and the infinities, which
// have no JSON encoding.
func cellOut(v any) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return t
	case string, int64, bool:
		return t
	case int:
		return int64(t)
	default:
		return fmt.Sprint(t)
	}
}
