// Package serviceaccount authenticates with a service account key
// file. No user interaction is involved.
package serviceaccount

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

type Provider struct {
	conf *jwt.Config
}

func New(credJSON []byte, scopes ...string) (*Provider, error) {
	conf, err := google.JWTConfigFromJSON(credJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account keyfile: %w", err)
	}
	return &Provider{conf: conf}, nil
}

func (p *Provider) Name() string { return "service-account" }

// Email is the service account identity, useful for working out what
// to share documents with.
func (p *Provider) Email() string { return p.conf.Email }

func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return p.conf.TokenSource(ctx), nil
}
