package oauthcb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *Server {
	t.Helper()
	s := New(0, state)
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestServer_PicksEphemeralPort(t *testing.T) {
	s := startServer(t, "state")

	assert.Greater(t, s.Port(), 0)
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/", s.Port()), s.RedirectURL())
}

func TestServer_ReceivesCode(t *testing.T) {
	s := startServer(t, "expected-state")

	resp, body := get(t, s.RedirectURL()+"?state=expected-state&code=auth-code-123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "You may close this window")

	code, err := s.WaitForCode(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "auth-code-123", code)
}

func TestServer_StateMismatch(t *testing.T) {
	s := startServer(t, "expected-state")

	_, body := get(t, s.RedirectURL()+"?state=forged&code=auth-code-123")
	assert.Contains(t, body, "state mismatch")

	_, err := s.WaitForCode(waitCtx(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state")
}

func TestServer_ProviderError(t *testing.T) {
	s := startServer(t, "state")

	_, body := get(t, s.RedirectURL()+"?error=access_denied&error_description=user+said+no")
	assert.Contains(t, body, "Authorization failed")

	_, err := s.WaitForCode(waitCtx(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestServer_MissingCode(t *testing.T) {
	s := startServer(t, "state")

	_, _ = get(t, s.RedirectURL()+"?state=state")

	_, err := s.WaitForCode(waitCtx(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no code")
}

func TestServer_WaitHonoursContext(t *testing.T) {
	s := startServer(t, "state")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.WaitForCode(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := New(0, "state")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestServer_FixedPort(t *testing.T) {
	first := New(0, "first")
	require.NoError(t, first.Start())
	port := first.Port()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, first.Stop(ctx))

	s := New(port, "state")
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	assert.Equal(t, port, s.Port())
}
