package sheet

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Worksheet describes one sheet inside the spreadsheet.
type Worksheet struct {
	ID    int64
	Title string
	Index int64
}

// Worksheets lists the sheets inside the spreadsheet.
func (c *Client) Worksheets(ctx context.Context) ([]Worksheet, error) {
	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets(properties(sheetId,title,index))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	out := make([]Worksheet, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		out = append(out, Worksheet{ID: s.Properties.SheetId, Title: s.Properties.Title, Index: s.Properties.Index})
	}
	return out, nil
}

// SetFocus selects the worksheet that subsequent reads and writes
// work on. An empty name selects the first sheet. A name that does
// not exist yet is created first.
func (c *Client) SetFocus(ctx context.Context, name string) error {
	sheets, err := c.Worksheets(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		if len(sheets) == 0 {
			return fmt.Errorf("spreadsheet %s has no worksheets", c.spreadsheetID)
		}
		c.worksheet = sheets[0].Title
		if len(sheets) > 1 && c.worksheet != "Sheet1" {
			log.Warnf("multiple worksheets and no title specified, assuming %q; name a worksheet to silence this", c.worksheet)
		}
		return nil
	}
	for _, s := range sheets {
		if s.Title == name {
			c.worksheet = name
			return nil
		}
	}
	if err := c.AddWorksheet(ctx, name, 0, 0); err != nil {
		return err
	}
	c.worksheet = name
	return nil
}

// AddWorksheet creates a sheet with the given grid size. Zero rows or
// cols fall back to a 100 by 10 grid.
func (c *Client) AddWorksheet(ctx context.Context, title string, rows, cols int64) error {
	if rows <= 0 {
		rows = 100
	}
	if cols <= 0 {
		cols = 10
	}
	req := &sheetsv4.Request{
		AddSheet: &sheetsv4.AddSheetRequest{
			Properties: &sheetsv4.SheetProperties{
				Title:          title,
				GridProperties: &sheetsv4.GridProperties{RowCount: rows, ColumnCount: cols},
			},
		},
	}
	if err := c.batchUpdate(ctx, req); err != nil {
		return fmt.Errorf("add worksheet %q: %w", title, err)
	}
	return nil
}

// DeleteWorksheet removes the named sheet.
func (c *Client) DeleteWorksheet(ctx context.Context, title string) error {
	id, err := c.worksheetIDByTitle(ctx, title)
	if err != nil {
		return err
	}
	req := &sheetsv4.Request{DeleteSheet: &sheetsv4.DeleteSheetRequest{SheetId: id}}
	if err := c.batchUpdate(ctx, req); err != nil {
		return fmt.Errorf("delete worksheet %q: %w", title, err)
	}
	return nil
}

func (c *Client) worksheetIDByTitle(ctx context.Context, title string) (int64, error) {
	sheets, err := c.Worksheets(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range sheets {
		if s.Title == title {
			return s.ID, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found in spreadsheet %s", title, c.URL())
}

func (c *Client) batchUpdate(ctx context.Context, reqs ...*sheetsv4.Request) error {
	_, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}
