package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
)

// OAuth2 scopes for the Search Console API.
const (
	// ScopeReadonly grants read access to Search Console data.
	ScopeReadonly = "https://www.googleapis.com/auth/webmasters.readonly"
	// ScopeFull additionally allows write operations.
	ScopeFull = "https://www.googleapis.com/auth/webmasters"
)

// Ensure OAuth2Provider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*OAuth2Provider)(nil)

// OAuth2Provider mints access tokens from a stored OAuth2 credential
// record, refreshing through the record's token endpoint.
//
// The stored access token's expiry is unknown (the serialized record does
// not carry it), so when a refresh token is present the first GetToken
// refreshes immediately and the reuse source caches from there.
type OAuth2Provider struct {
	creds domain.OAuth2Credentials

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewOAuth2Provider creates a provider from a credential record.
func NewOAuth2Provider(creds domain.OAuth2Credentials) *OAuth2Provider {
	return &OAuth2Provider{creds: creds}
}

// Identifier returns the OAuth2 client ID.
func (p *OAuth2Provider) Identifier() string {
	return p.creds.ClientID
}

// Credentials returns a copy of the underlying credential record.
func (p *OAuth2Provider) Credentials() domain.OAuth2Credentials {
	return p.creds
}

// ToMap returns the seven-field credential mapping.
func (p *OAuth2Provider) ToMap() (map[string]any, error) {
	return p.creds.ToMap(), nil
}

// GetToken returns a valid access token, refreshing if needed.
func (p *OAuth2Provider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.source == nil {
		p.source = p.newSource(ctx)
	}
	source := p.source
	p.mu.Unlock()

	tok, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return tok.AccessToken, nil
}

// newSource builds the token source on first use. The context is captured
// by the source for its refresh HTTP calls, mirroring how the API session
// factory binds its context once at construction.
func (p *OAuth2Provider) newSource(ctx context.Context) oauth2.TokenSource {
	seed := &oauth2.Token{
		AccessToken:  p.creds.Token,
		RefreshToken: p.creds.RefreshToken,
	}
	if !p.creds.HasRefreshToken() {
		// Nothing to refresh with; serve the stored token as-is.
		return oauth2.StaticTokenSource(seed)
	}
	// Force a refresh on first use since the stored expiry is unknown.
	seed.Expiry = time.Now().Add(-time.Minute)
	return p.config().TokenSource(ctx, seed)
}

// config assembles the oauth2 client configuration from the record.
func (p *OAuth2Provider) config() *oauth2.Config {
	endpoint := google.Endpoint
	if p.creds.TokenURI != "" {
		endpoint.TokenURL = p.creds.TokenURI
	}
	return &oauth2.Config{
		ClientID:     p.creds.ClientID,
		ClientSecret: p.creds.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       p.creds.Scopes,
	}
}
