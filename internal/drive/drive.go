// Package drive manages files on a Google drive: listing, creation,
// naming, the bin, sharing and revision history.
package drive

import (
	"context"
	"fmt"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/opendsi/googoal/internal/gauth"
)

// MimeSpreadsheet is the MIME type of a Google spreadsheet.
const MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// DefaultScopes is what a drive client needs when no narrower scope
// list is configured.
var DefaultScopes = []string{drivev3.DriveScope}

// File is one resource on the drive.
type File struct {
	ID       string
	Name     string
	MimeType string
	URL      string
}

// Permission records one grant on a file.
type Permission struct {
	ID    string
	Email string
	Role  string
}

// Revision is one entry of a file's revision history.
type Revision struct {
	ID           string
	ModifiedTime string
}

type Client struct {
	srv *drivev3.Service
}

// NewClient builds a drive client from a credential provider.
func NewClient(ctx context.Context, provider gauth.Provider) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := drivev3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// NewClientFromService wraps an existing drive service, so one login
// can back several clients.
func NewClientFromService(srv *drivev3.Service) *Client {
	return &Client{srv: srv}
}

// Service exposes the underlying drive service.
func (c *Client) Service() *drivev3.Service {
	return c.srv
}

// List returns all files on the drive that are not in the bin,
// following pagination to the end.
func (c *Client) List(ctx context.Context) ([]File, error) {
	return c.list(ctx, "trashed = false")
}

// ListMime lists non-binned files of one MIME type.
func (c *Client) ListMime(ctx context.Context, mimeType string) ([]File, error) {
	return c.list(ctx, fmt.Sprintf("trashed = false and mimeType = '%s'", mimeType))
}

func (c *Client) list(ctx context.Context, query string) ([]File, error) {
	var out []File
	pageToken := ""
	for {
		call := c.srv.Files.List().
			Q(query).
			Fields("nextPageToken", "files(id, name, mimeType, webViewLink)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list drive files: %w", err)
		}
		for _, f := range page.Files {
			out = append(out, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, URL: f.WebViewLink})
		}
		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// Create makes a new, empty file of the given MIME type and returns
// its record.
func (c *Client) Create(ctx context.Context, name, mimeType string) (*File, error) {
	created, err := c.srv.Files.Create(&drivev3.File{Name: name, MimeType: mimeType}).
		Fields("id, name, mimeType, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create drive file %q: %w", name, err)
	}
	return &File{ID: created.Id, Name: created.Name, MimeType: created.MimeType, URL: created.WebViewLink}, nil
}

// Get fetches the record of one file.
func (c *Client) Get(ctx context.Context, fileID string) (*File, error) {
	f, err := c.srv.Files.Get(fileID).
		Fields("id, name, mimeType, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get drive file %s: %w", fileID, err)
	}
	return &File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, URL: f.WebViewLink}, nil
}

// Rename changes the file's name.
func (c *Client) Rename(ctx context.Context, fileID, name string) error {
	_, err := c.srv.Files.Update(fileID, &drivev3.File{Name: name}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rename drive file %s: %w", fileID, err)
	}
	return nil
}

// Trash moves the file to the bin.
func (c *Client) Trash(ctx context.Context, fileID string) error {
	_, err := c.srv.Files.Update(fileID, &drivev3.File{Trashed: true}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("trash drive file %s: %w", fileID, err)
	}
	return nil
}

// Untrash recovers the file from the bin.
func (c *Client) Untrash(ctx context.Context, fileID string) error {
	f := &drivev3.File{Trashed: false, ForceSendFields: []string{"Trashed"}}
	_, err := c.srv.Files.Update(fileID, f).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("untrash drive file %s: %w", fileID, err)
	}
	return nil
}

// Delete removes the file permanently, bypassing the bin.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if err := c.srv.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete drive file %s: %w", fileID, err)
	}
	return nil
}
