package gsc

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/arden-labs/gsc-cli/internal/adapters/driven/auth"
	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
)

// Account is the directory of web properties visible to an authenticated
// identity. Navigate to a WebProperty to run queries.
type Account struct {
	service *Service
	creds   driven.CredentialProvider
}

// NewAccount wraps an API session together with the credential provider
// that authenticated it.
func NewAccount(service *Service, creds driven.CredentialProvider) *Account {
	return &Account{
		service: service,
		creds:   creds,
	}
}

// Webproperties lists every web property the identity can see. The list
// is read through to the API on every call, never cached, so properties
// verified after authentication show up without a new session. Ordering
// follows the API response.
func (a *Account) Webproperties(ctx context.Context) ([]*WebProperty, error) {
	sites, err := a.service.listSites(ctx)
	if err != nil {
		return nil, err
	}

	properties := make([]*WebProperty, 0, len(sites))
	for _, site := range sites {
		properties = append(properties, newWebProperty(site, a.service))
	}

	return properties, nil
}

// Property returns the web property whose URL matches exactly, or nil
// when the identity cannot see it. Absence is not an error.
func (a *Account) Property(ctx context.Context, siteURL string) (*WebProperty, error) {
	properties, err := a.Webproperties(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range properties {
		if p.URL == siteURL {
			return p, nil
		}
	}

	return nil, nil
}

// PropertyAt returns the web property at the given position in the
// listing. Unlike Property, an out-of-range index is an error.
func (a *Account) PropertyAt(ctx context.Context, index int) (*WebProperty, error) {
	properties, err := a.Webproperties(ctx)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(properties) {
		return nil, fmt.Errorf("%w: property index %d out of range (%d properties)",
			domain.ErrNotFound, index, len(properties))
	}

	return properties[index], nil
}

// Identifier names the credential behind the account: the OAuth client ID
// or the service-account email.
func (a *Account) Identifier() string {
	if a.creds == nil {
		return ""
	}
	return a.creds.Identifier()
}

// SaveCredentials serializes the account's credentials to path so later
// sessions can skip the interactive flow. Service-account sessions fail
// with domain.ErrSerializationUnsupported; reuse the key file instead.
func (a *Account) SaveCredentials(path string) error {
	if a.creds == nil {
		return fmt.Errorf("%w: account has no credential provider", domain.ErrInvalidConfiguration)
	}
	return auth.SaveCredentials(afero.NewOsFs(), path, a.creds)
}

// String implements fmt.Stringer.
func (a *Account) String() string {
	return fmt.Sprintf("Account(%s)", a.Identifier())
}
