// Package installed runs the installed-application OAuth2 flow. A
// token is cached in a local file and a browser authorization is
// started when no usable token exists.
package installed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/opendsi/googoal/internal/oauthcb"
)

// DefaultTokenFile is where the token is cached between runs.
const DefaultTokenFile = "token.json"

type Provider struct {
	conf      *oauth2.Config
	tokenFile string
}

func New(credJSON []byte, scopes []string, tokenFile string) (*Provider, error) {
	conf, err := google.ConfigFromJSON(credJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets keyfile: %w", err)
	}
	if tokenFile == "" {
		tokenFile = DefaultTokenFile
	}
	return &Provider{conf: conf, tokenFile: tokenFile}, nil
}

func (p *Provider) Name() string { return "installed" }

// TokenFile reports where tokens are cached.
func (p *Provider) TokenFile() string { return p.tokenFile }

// TokenSource returns a refreshing token source backed by the cached
// token. When there is no cache, or the cached token has expired with
// no refresh token to renew it, the browser flow runs first and its
// token is cached for the next run.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := LoadToken(p.tokenFile)
	if err != nil || (!tok.Valid() && tok.RefreshToken == "") {
		tok, err = p.Authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(p.tokenFile, tok); err != nil {
			log.Warnf("could not cache token in %s: %v", p.tokenFile, err)
		}
	}
	return p.conf.TokenSource(ctx, tok), nil
}

// Authorize runs the loopback browser flow and returns the token it
// produced. The redirect is served on an ephemeral local port.
func (p *Provider) Authorize(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	srv := oauthcb.New(0, state)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(stopCtx)
	}()

	conf := *p.conf
	conf.RedirectURL = srv.RedirectURL()

	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	log.Infof("authorize this application at: %s", authURL)
	if err := oauthcb.OpenBrowser(authURL); err != nil {
		log.Warnf("could not open a browser, visit the URL above to authorize: %v", err)
	}

	code, err := srv.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}
	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}
