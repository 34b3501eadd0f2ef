// Package gauth turns a configured OAuth2 key file into credentials
// for the Google APIs.
package gauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider yields OAuth2 tokens for one kind of credential. The token
// source it returns can be shared between services, so a drive client
// and a sheets client built from the same provider reuse one login.
type Provider interface {
	Name() string

	// TokenSource returns a source of valid tokens, refreshing or
	// running an authorization flow as the credential kind requires.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}
