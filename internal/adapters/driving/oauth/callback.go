// Package oauth provides the loopback callback server for the OAuth2
// web flow. Google's installed-application flow redirects the browser to
// http://localhost:PORT/callback; the server captures the authorization
// code (after validating the state parameter) and hands it to the flow.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

// CallbackServer handles OAuth redirect callbacks.
// It starts a local HTTP server to receive the authorization code.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new OAuth callback server.
// Port 0 selects an ephemeral port on Start; Google accepts loopback
// redirect URIs with any port for installed applications.
// The expectedState is used to validate the callback matches the request.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start begins listening on 127.0.0.1 and serving the callback endpoint.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Record the actual port (matters when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback processes the OAuth callback request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Error reported by the authorization server
	if errParam := q.Get("error"); errParam != "" {
		errDesc := q.Get("error_description")
		s.deliverErr(fmt.Errorf("oauth error: %s - %s", errParam, errDesc))
		writePage(w, "Authorization failed", html.EscapeString(errDesc))
		return
	}

	// Validate state parameter
	if state := q.Get("state"); state != s.expectedState {
		s.deliverErr(fmt.Errorf("state mismatch: expected %s, got %s", s.expectedState, state))
		writePage(w, "Authorization failed", "Invalid state parameter.")
		return
	}

	code := q.Get("code")
	if code == "" {
		s.deliverErr(fmt.Errorf("no authorization code received"))
		writePage(w, "Authorization failed", "No authorization code received.")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	writePage(w, "Authorization successful", "You can close this window and return to the terminal.")
}

func (s *CallbackServer) deliverErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until the authorization code is received, an error is
// delivered, or the context is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
// Must be called after Start when the server was created with port 0.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.Port())
}

func writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>gsc - OAuth Callback</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #F5F6F8;
        }
        .card {
            text-align: center;
            background: white;
            padding: 40px 56px;
            border-radius: 12px;
            border: 1px solid #D8DAE0;
        }
        h1 { color: #1F2A44; margin: 0 0 8px 0; font-size: 22px; }
        p  { color: #6B7280; margin: 0; font-size: 15px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}
