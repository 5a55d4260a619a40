package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	srv "github.com/arden-labs/gsc-cli/internal/adapters/driving/oauth"
	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/logger"
)

// Interactive flow names.
const (
	// FlowWeb opens a browser and captures the code on a loopback server.
	FlowWeb = "web"
	// FlowConsole prints the authorization URL and reads the pasted
	// redirect URL (or bare code) from the terminal.
	FlowConsole = "console"
)

// defaultFlowTimeout bounds the wait for the browser callback.
const defaultFlowTimeout = 3 * time.Minute

// Flow runs an interactive OAuth2 authorization against a parsed client
// configuration and yields a provider holding the granted credentials.
// Both flows carry a PKCE challenge (S256).
type Flow struct {
	// Config is the OAuth2 client configuration (see ParseClientConfig).
	Config *oauth2.Config

	// In and Out are the console flow's streams. Default stdin/stdout.
	In  io.Reader
	Out io.Writer

	// OpenBrowser launches the user's browser. Default pkg/browser.
	// The authorization URL is always printed as a fallback.
	OpenBrowser func(url string) error

	// Timeout bounds the web flow's callback wait.
	Timeout time.Duration
}

// Run executes the named flow ("web" or "console").
func (f *Flow) Run(ctx context.Context, flow string) (*OAuth2Provider, error) {
	if f.Config == nil {
		return nil, fmt.Errorf("%w: interactive flow requires a client configuration", domain.ErrInvalidConfiguration)
	}
	switch flow {
	case FlowWeb, "":
		return f.runWeb(ctx)
	case FlowConsole:
		return f.runConsole(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown authorization flow %q", domain.ErrInvalidConfiguration, flow)
	}
}

// runWeb authorizes through the loopback callback server.
func (f *Flow) runWeb(ctx context.Context) (*OAuth2Provider, error) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	callback := srv.NewCallbackServer(0, state)
	if err := callback.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer callback.Stop() //nolint:errcheck

	cfg := *f.Config
	cfg.RedirectURL = callback.RedirectURI()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "consent"))

	fmt.Fprintf(f.out(), "Opening browser for authorization. If it does not open, visit:\n\n  %s\n\n", authURL)
	if err := f.openBrowser(authURL); err != nil {
		logger.Warn("could not open browser", "error", err)
	}

	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultFlowTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	code, err := callback.WaitForCode(waitCtx)
	if err != nil {
		return nil, err
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return providerFromToken(&cfg, tok), nil
}

// runConsole authorizes without a local server: the user opens the URL in
// any browser and pastes the redirect URL (or the bare code) back.
func (f *Flow) runConsole(ctx context.Context) (*OAuth2Provider, error) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	cfg := *f.Config
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost"
	}

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "consent"))

	fmt.Fprintf(f.out(), "Visit this URL to authorize:\n\n  %s\n\n", authURL)
	fmt.Fprint(f.out(), "After authorizing, paste the full redirect URL (or the code) here: ")

	line, err := readLine(f.in())
	if err != nil {
		return nil, fmt.Errorf("read authorization response: %w", err)
	}

	code, err := extractCode(line, state)
	if err != nil {
		return nil, err
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return providerFromToken(&cfg, tok), nil
}

// extractCode pulls the authorization code out of a pasted redirect URL.
// Bare input (no query string) is treated as the code itself.
func extractCode(input, expectedState string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty authorization response", domain.ErrInvalidConfiguration)
	}

	u, err := url.Parse(input)
	if err != nil || u.RawQuery == "" {
		return input, nil
	}

	q := u.Query()
	if errParam := q.Get("error"); errParam != "" {
		return "", fmt.Errorf("oauth error: %s - %s", errParam, q.Get("error_description"))
	}
	if state := q.Get("state"); state != "" && state != expectedState {
		return "", fmt.Errorf("state mismatch: expected %s, got %s", expectedState, state)
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: redirect URL carries no code parameter", domain.ErrInvalidConfiguration)
	}
	return code, nil
}

// providerFromToken captures the granted token into a credential record.
func providerFromToken(cfg *oauth2.Config, tok *oauth2.Token) *OAuth2Provider {
	creds := domain.OAuth2Credentials{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     cfg.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		creds.IDToken = id
	}
	provider := NewOAuth2Provider(creds)
	// Reuse the just-granted token instead of forcing an initial refresh.
	provider.source = oauth2.ReuseTokenSource(tok, cfg.TokenSource(context.Background(), tok))
	return provider
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return scanner.Text(), nil
}

func (f *Flow) out() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

func (f *Flow) in() io.Reader {
	if f.In != nil {
		return f.In
	}
	return os.Stdin
}

func (f *Flow) openBrowser(url string) error {
	if f.OpenBrowser != nil {
		return f.OpenBrowser(url)
	}
	return browser.OpenURL(url)
}
