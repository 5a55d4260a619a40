package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
)

// Ensure ServiceAccountProvider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*ServiceAccountProvider)(nil)

// ServiceAccountProvider mints access tokens through the JWT grant using a
// Google service-account key. Service accounts do not serialize: the key
// file is managed outside this tool and ToMap always fails.
type ServiceAccountProvider struct {
	cfg *jwt.Config

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewServiceAccountProvider parses a service-account key (JSON bytes) and
// prepares the JWT token source. Scopes default to read-only access.
func NewServiceAccountProvider(keyJSON []byte, scopes ...string) (*ServiceAccountProvider, error) {
	if len(scopes) == 0 {
		scopes = []string{ScopeReadonly}
	}
	cfg, err := google.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service-account key: %w", domain.ErrInvalidConfiguration, err)
	}
	return &ServiceAccountProvider{cfg: cfg}, nil
}

// Identifier returns the service-account email.
func (p *ServiceAccountProvider) Identifier() string {
	return p.cfg.Email
}

// ToMap fails: service-account credentials never round-trip through the
// credential store.
func (p *ServiceAccountProvider) ToMap() (map[string]any, error) {
	return nil, fmt.Errorf("%w: service account %s", domain.ErrSerializationUnsupported, p.cfg.Email)
}

// GetToken returns a valid access token from the JWT grant.
func (p *ServiceAccountProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.source == nil {
		p.source = p.cfg.TokenSource(ctx)
	}
	source := p.source
	p.mu.Unlock()

	tok, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("mint service-account token: %w", err)
	}
	return tok.AccessToken, nil
}
