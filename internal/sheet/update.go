package sheet

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/opendsi/googoal/internal/frame"
)

// Update reconciles the focused worksheet with desired: changed cells
// are rewritten, new rows appended, and rows absent from desired
// removed. The applied plan is returned. Update assumes the columns
// of desired and the worksheet match and that the index identifies
// each row uniquely on both sides.
func (c *Client) Update(ctx context.Context, desired *frame.Frame, columns []string, comment string, overwrite bool) (*Plan, error) {
	if comment != "" {
		if c.opts.Header == 1 {
			return nil, fmt.Errorf("comment would be overwritten by column headers, increase the header height")
		}
		if err := c.WriteComment(ctx, comment, 1, 1); err != nil {
			return nil, err
		}
	}
	current, lk, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := PlanUpdate(current, desired, columns, overwrite)
	if err != nil {
		return nil, fmt.Errorf("%w (spreadsheet %s)", err, c.URL())
	}
	if plan.Empty() {
		log.Infof("nothing to change in %s", c.URL())
		return plan, nil
	}
	log.Infof("updating %d cells, adding %d rows, removing %d rows in %s",
		len(plan.Updates), len(plan.Add), len(plan.Remove), c.URL())

	if err := c.updateCells(ctx, plan.Updates, lk); err != nil {
		return nil, err
	}
	if err := c.appendRows(ctx, desired, current.IndexName, plan.Add, lk); err != nil {
		return nil, err
	}
	if err := c.removeRows(ctx, plan.Remove, lk); err != nil {
		return nil, err
	}
	return plan, nil
}

// Augment is Update with overwrite off: only cells that are currently
// empty gain values, and no rows are ever removed.
func (c *Client) Augment(ctx context.Context, desired *frame.Frame, columns []string, comment string) (*Plan, error) {
	return c.Update(ctx, desired, columns, comment, false)
}

func (c *Client) updateCells(ctx context.Context, updates []CellChange, lk *lookups) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheetsv4.ValueRange, 0, len(updates))
	for _, ch := range updates {
		row, rok := lk.rowOf[ch.Index]
		col, cok := lk.colOf[ch.Column]
		if !rok || !cok {
			return fmt.Errorf("cell (%s, %s) not found in sheet", ch.Index, ch.Column)
		}
		data = append(data, &sheetsv4.ValueRange{
			Range:  fmt.Sprintf("%s!%s", quoteWorksheet(c.worksheet), CellA1(row, col)),
			Values: [][]interface{}{{cellOut(ch.Value)}},
		})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	if _, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update cells: %w", err)
	}
	return nil
}

func (c *Client) appendRows(ctx context.Context, desired *frame.Frame, indexField string, add []string, lk *lookups) error {
	if len(add) == 0 {
		return nil
	}
	minCol, maxCol := lk.colOf[indexField], lk.colOf[indexField]
	for _, n := range lk.colOf {
		if n < minCol {
			minCol = n
		}
		if n > maxCol {
			maxCol = n
		}
	}
	width := maxCol - minCol + 1

	rows := make([][]interface{}, 0, len(add))
	for _, ind := range add {
		row := make([]interface{}, width)
		for i := range row {
			row[i] = ""
		}
		row[lk.colOf[indexField]-minCol] = ind
		rowMap, _ := desired.Row(ind)
		for _, col := range desired.Columns {
			n, ok := lk.colOf[col]
			if !ok {
				return fmt.Errorf("column %q not found in sheet", col)
			}
			row[n-minCol] = cellOut(rowMap[col])
		}
		rows = append(rows, row)
	}

	anchor := fmt.Sprintf("%s!%s", quoteWorksheet(c.worksheet), CellA1(int64(c.opts.Header), minCol))
	vr := &sheetsv4.ValueRange{Values: rows}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, anchor, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

func (c *Client) removeRows(ctx context.Context, remove []string, lk *lookups) error {
	if len(remove) == 0 {
		return nil
	}
	sheetID, err := c.worksheetIDByTitle(ctx, c.worksheet)
	if err != nil {
		return err
	}
	rows := make([]int64, 0, len(remove))
	for _, ind := range remove {
		row, ok := lk.rowOf[ind]
		if !ok {
			return fmt.Errorf("row %q not found in sheet", ind)
		}
		rows = append(rows, row)
	}
	// Delete bottom-up so earlier deletions do not shift later ones.
	sort.Slice(rows, func(i, j int) bool { return rows[i] > rows[j] })
	reqs := make([]*sheetsv4.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, &sheetsv4.Request{
			DeleteDimension: &sheetsv4.DeleteDimensionRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: row - 1,
					EndIndex:   row,
				},
			},
		})
	}
	if err := c.batchUpdate(ctx, reqs...); err != nil {
		return fmt.Errorf("remove rows: %w", err)
	}
	return nil
}
