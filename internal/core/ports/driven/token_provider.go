package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently: an expired OAuth2
// access token is refreshed through the token endpoint, and service-account
// implementations mint tokens through the JWT grant as needed.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	GetToken(ctx context.Context) (string, error)
}
