// Package sheet interchanges tabular data between Google spreadsheets
// and frames. A client manages one spreadsheet and holds the focus on
// one of its worksheets.
package sheet

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/opendsi/googoal/internal/drive"
	"github.com/opendsi/googoal/internal/gauth"
)

// DefaultScopes covers spreadsheet access plus the drive operations a
// sheet client delegates for naming and sharing.
var DefaultScopes = []string{sheetsv4.SpreadsheetsScope, drivev3.DriveScope}

// Options tune how the table inside a worksheet is laid out and read.
// The zero value reads a table whose header is the first row.
type Options struct {
	// Worksheet is the title to focus. Empty means the first sheet.
	Worksheet string

	// IndexField names the column holding row keys. Empty picks a
	// column called "index" in any casing, else the first column.
	IndexField string

	// Header is the number of header rows, at least 1. The column
	// names sit in the last of them.
	Header int

	// ColIndent shifts the table this many columns to the right.
	ColIndent int

	// NAValues are cell contents treated as missing data.
	NAValues []string

	// Dtype maps column names to converters applied to raw cell
	// strings on read, in place of the usual numericising. NAValues
	// filtering happens first, so converters never see missing data.
	Dtype map[string]func(string) any

	// RawValues reads the formulae behind cells instead of their
	// computed values.
	RawValues bool
}

func (o Options) withDefaults() Options {
	if o.Header < 1 {
		o.Header = 1
	}
	if o.NAValues == nil {
		o.NAValues = []string{"nan"}
	}
	return o
}

type Client struct {
	srv   *sheetsv4.Service
	drive *drive.Client

	spreadsheetID string
	worksheet     string
	opts          Options
}

// Open attaches a client to an existing spreadsheet and focuses the
// configured worksheet.
func Open(ctx context.Context, provider gauth.Provider, spreadsheetID string, opts Options) (*Client, error) {
	c, err := newClient(ctx, provider, opts)
	if err != nil {
		return nil, err
	}
	c.spreadsheetID = spreadsheetID
	if err := c.SetFocus(ctx, opts.Worksheet); err != nil {
		return nil, err
	}
	return c, nil
}

// Create makes a new spreadsheet on the drive and attaches a client
// to it.
func Create(ctx context.Context, provider gauth.Provider, name string, opts Options) (*Client, error) {
	c, err := newClient(ctx, provider, opts)
	if err != nil {
		return nil, err
	}
	log.Infof("creating new spreadsheet %q", name)
	f, err := c.drive.Create(ctx, name, drive.MimeSpreadsheet)
	if err != nil {
		return nil, err
	}
	c.spreadsheetID = f.ID
	if err := c.SetFocus(ctx, opts.Worksheet); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(ctx context.Context, provider gauth.Provider, opts Options) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := sheetsv4.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSrv, err := drivev3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{
		srv:   srv,
		drive: drive.NewClientFromService(driveSrv),
		opts:  opts.withDefaults(),
	}, nil
}

// NewClientFromServices wires a client from already-built services,
// for callers that share one login across clients.
func NewClientFromServices(srv *sheetsv4.Service, dc *drive.Client, spreadsheetID string, opts Options) *Client {
	return &Client{
		srv:           srv,
		drive:         dc,
		spreadsheetID: spreadsheetID,
		opts:          opts.withDefaults(),
	}
}

// SpreadsheetID reports the id of the attached spreadsheet.
func (c *Client) SpreadsheetID() string { return c.spreadsheetID }

// Worksheet reports the title of the worksheet in focus.
func (c *Client) Worksheet() string { return c.worksheet }

// Drive exposes the drive client the sheet delegates file-level
// operations to.
func (c *Client) Drive() *drive.Client { return c.drive }

// URL is the browser address of the spreadsheet.
func (c *Client) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + c.spreadsheetID
}

// Title fetches the spreadsheet's name from the drive.
func (c *Client) Title(ctx context.Context) (string, error) {
	f, err := c.drive.Get(ctx, c.spreadsheetID)
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

// Rename changes the spreadsheet's name on the drive.
func (c *Client) Rename(ctx context.Context, name string) error {
	return c.drive.Rename(ctx, c.spreadsheetID, name)
}
