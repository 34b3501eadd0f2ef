// Package oauthcb runs the loopback HTTP server that receives the
// redirect at the end of an interactive OAuth2 authorization.
package oauthcb

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server listens on a loopback port for the authorization redirect and
// hands the received code back to the flow that started it.
type Server struct {
	mu     sync.Mutex
	port   int
	state  string
	codeCh chan string
	errCh  chan error
	srv    *http.Server
	ln     net.Listener
}

// New returns a server that will listen on the given port, or on an
// ephemeral port when port is 0. state must match the state parameter
// sent with the authorization request.
func New(port int, state string) *Server {
	return &Server{
		port:   port,
		state:  state,
		codeCh: make(chan string, 1),
		errCh:  make(chan error, 1),
	}
}

// Start begins listening on 127.0.0.1. After Start returns the actual
// port is available from Port and RedirectURL.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRedirect)

	s.srv = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listen for oauth redirect: %w", err)
	}
	s.ln = ln
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = addr.Port
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			select {
			case s.errCh <- err:
			default:
			}
		}
	}()

	return nil
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		s.fail(fmt.Errorf("authorization refused: %s %s", e, q.Get("error_description")))
		writePage(w, "Authorization failed: "+html.EscapeString(e))
		return
	}
	if got := q.Get("state"); got != s.state {
		s.fail(fmt.Errorf("state parameter mismatch in authorization redirect"))
		writePage(w, "Authorization failed: state mismatch.")
		return
	}
	code := q.Get("code")
	if code == "" {
		s.fail(fmt.Errorf("authorization redirect carried no code"))
		writePage(w, "Authorization failed: no code received.")
		return
	}

	select {
	case s.codeCh <- code:
	default:
	}
	writePage(w, "The authentication flow has completed. You may close this window.")
}

func (s *Server) fail(err error) {
	select {
	case s.errCh <- err:
	default:
	}
}

func writePage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := `<!doctype html><html><head><meta charset="utf-8"><title>googoal</title></head><body>
<p>` + msg + `</p>
</body></html>`
	_, _ = w.Write([]byte(page))
}

// WaitForCode blocks until the authorization code arrives, the server
// fails, or ctx is done.
func (s *Server) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeCh:
		return code, nil
	case err := <-s.errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization redirect: %w", ctx.Err())
	}
}

// Stop shuts the server down, waiting for in-flight requests up to the
// deadline on ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Port reports the port the server is listening on.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURL is the loopback URL to register as the OAuth2 redirect.
func (s *Server) RedirectURL() string {
	return fmt.Sprintf("http://localhost:%d/", s.Port())
}
