package drive

import (
	"context"
	"fmt"

	drivev3 "google.golang.org/api/drive/v3"
)

// ValidateRole checks a sharing role against the roles a file grant
// can carry here.
func ValidateRole(role string) error {
	switch role {
	case "writer", "reader", "owner":
		return nil
	default:
		return fmt.Errorf("share role should be 'writer', 'reader' or 'owner', got %q", role)
	}
}

// Share grants the given role on a file to each of the users, by
// email address.
func (c *Client) Share(ctx context.Context, fileID, role string, notify bool, message string, emails ...string) error {
	if err := ValidateRole(role); err != nil {
		return err
	}
	for _, email := range emails {
		call := c.srv.Permissions.Create(fileID, &drivev3.Permission{
			Type:         "user",
			Role:         role,
			EmailAddress: email,
		}).SendNotificationEmail(notify)
		if message != "" {
			call = call.EmailMessage(message)
		}
		if role == "owner" {
			call = call.TransferOwnership(true)
		}
		if _, err := call.Context(ctx).Do(); err != nil {
			return fmt.Errorf("share file %s with %s: %w", fileID, email, err)
		}
	}
	return nil
}

// ShareDelete removes a user's grant on a file.
func (c *Client) ShareDelete(ctx context.Context, fileID, email string) error {
	id, err := c.permissionIDForEmail(ctx, fileID, email)
	if err != nil {
		return err
	}
	if err := c.srv.Permissions.Delete(fileID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("remove share on %s for %s: %w", fileID, email, err)
	}
	return nil
}

// ShareModify changes the role a user holds on a file.
func (c *Client) ShareModify(ctx context.Context, fileID, email, role string) error {
	if err := ValidateRole(role); err != nil {
		return err
	}
	id, err := c.permissionIDForEmail(ctx, fileID, email)
	if err != nil {
		return err
	}
	call := c.srv.Permissions.Update(fileID, id, &drivev3.Permission{Role: role})
	if role == "owner" {
		call = call.TransferOwnership(true)
	}
	if _, err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("modify share on %s for %s: %w", fileID, email, err)
	}
	return nil
}

// ShareList returns who can access a file and with which role.
func (c *Client) ShareList(ctx context.Context, fileID string) ([]Permission, error) {
	perms, err := c.srv.Permissions.List(fileID).
		Fields("permissions(id, emailAddress, role)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list shares on %s: %w", fileID, err)
	}
	out := make([]Permission, 0, len(perms.Permissions))
	for _, p := range perms.Permissions {
		out = append(out, Permission{ID: p.Id, Email: p.EmailAddress, Role: p.Role})
	}
	return out, nil
}

func (c *Client) permissionIDForEmail(ctx context.Context, fileID, email string) (string, error) {
	perms, err := c.ShareList(ctx, fileID)
	if err != nil {
		return "", err
	}
	for _, p := range perms {
		if p.Email == email {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("no permission for %s on file %s", email, fileID)
}

// Revisions returns the revision history of a file.
func (c *Client) Revisions(ctx context.Context, fileID string) ([]Revision, error) {
	revs, err := c.srv.Revisions.List(fileID).
		Fields("revisions(id, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list revisions of %s: %w", fileID, err)
	}
	out := make([]Revision, 0, len(revs.Revisions))
	for _, r := range revs.Revisions {
		out = append(out, Revision{ID: r.Id, ModifiedTime: r.ModifiedTime})
	}
	return out, nil
}
