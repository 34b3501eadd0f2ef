// Package analytics pulls Core Reporting results into frames.
package analytics

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	analyticsv3 "google.golang.org/api/analytics/v3"
	"google.golang.org/api/option"

	"github.com/opendsi/googoal/internal/frame"
	"github.com/opendsi/googoal/internal/gauth"
)

// DefaultScopes is all the access a reporting client needs.
var DefaultScopes = []string{analyticsv3.AnalyticsReadonlyScope}

// Client queries the reporting data of one analytics view. The table
// id is the view's, found under Admin: View on the analytics page.
type Client struct {
	srv     *analyticsv3.Service
	tableID string

	startDate  string
	endDate    string
	startIndex int64
	maxResults int64
}

// NewClient builds a reporting client for the given view.
func NewClient(ctx context.Context, provider gauth.Provider, tableID string) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := analyticsv3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create analytics service: %w", err)
	}
	return NewClientFromService(srv, tableID)
}

// NewClientFromService wires a client from an already-built service.
func NewClientFromService(srv *analyticsv3.Service, tableID string) (*Client, error) {
	if tableID == "" {
		return nil, fmt.Errorf("analytics table id is empty, set google.analytics_table in the config file")
	}
	return &Client{
		srv:        srv,
		tableID:    tableID,
		startDate:  "30daysAgo",
		endDate:    "yesterday",
		startIndex: 1,
		maxResults: 100,
	}, nil
}

// TableID reports the view the client queries.
func (c *Client) TableID() string { return c.tableID }

// SetStartDate sets the first day queries cover. The reporting API
// accepts YYYY-MM-DD dates and relative forms like "30daysAgo".
func (c *Client) SetStartDate(date string) { c.startDate = date }

// SetEndDate sets the last day queries cover.
func (c *Client) SetEndDate(date string) { c.endDate = date }

// SetStartIndex sets the 1-based index of the first result returned.
func (c *Client) SetStartIndex(i int64) { c.startIndex = i }

// SetMaxResults caps how many rows a query returns.
func (c *Client) SetMaxResults(n int64) { c.maxResults = n }

// Run executes a query over the client's date window and returns the
// result as a frame. Empty metrics fall back to page views, empty
// dimensions to the page path.
func (c *Client) Run(ctx context.Context, q Query) (*frame.Frame, error) {
	if len(q.Metrics) == 0 {
		q.Metrics = []string{"pageviews"}
	}
	if len(q.Dimensions) == 0 {
		q.Dimensions = []string{"pagePath"}
	}
	call := c.srv.Data.Ga.Get(c.tableID, c.startDate, c.endDate, joinGA(q.Metrics)).
		Dimensions(joinGA(q.Dimensions)).
		StartIndex(c.startIndex).
		MaxResults(c.maxResults)
	if len(q.Sort) > 0 {
		call = call.Sort(joinGA(q.Sort))
	}
	if q.Filters != "" {
		call = call.Filters(q.Filters)
	}
	if q.Segment != "" {
		call = call.Segment(q.Segment)
	}
	data, err := call.Context(ctx).Do()
	if err != nil {
		name := q.Name
		if name == "" {
			name = "reporting"
		}
		return nil, fmt.Errorf("run %s query: %w", name, err)
	}
	return frameFromData(data), nil
}

// prefixGA qualifies a bare column name, keeping a leading minus in
// front so sort orders survive.
func prefixGA(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-ga:" + s[1:]
	}
	return "ga:" + s
}

func joinGA(names []string) string {
	prefixed := make([]string, len(names))
	for i, n := range names {
		prefixed[i] = prefixGA(n)
	}
	return strings.Join(prefixed, ",")
}

var camelBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+?)`)

// prettyHeader turns an API column name into a readable title:
// "ga:goalCompletionsAll" becomes "Goal Completions All".
func prettyHeader(name string) string {
	name = strings.TrimPrefix(name, "ga:")
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// frameFromData maps a reporting result onto a frame with prettified
// column titles. INTEGER columns come back as int64 cells, everything
// else stays a string. Rows keep their result order under a numeric
// index.
func frameFromData(data *analyticsv3.GaData) *frame.Frame {
	columns := make([]string, 0, len(data.ColumnHeaders))
	for _, h := range data.ColumnHeaders {
		columns = append(columns, prettyHeader(h.Name))
	}
	f := frame.New("", columns...)
	for i, row := range data.Rows {
		values := make(map[string]any, len(columns))
		for j, col := range columns {
			if j >= len(row) {
				break
			}
			values[col] = cellFor(data.ColumnHeaders[j].DataType, row[j])
		}
		f.AppendRow(strconv.Itoa(i), values)
	}
	return f
}

func cellFor(dataType, raw string) any {
	if dataType == "INTEGER" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return raw
}
