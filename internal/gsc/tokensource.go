package gsc

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
)

// TokenSourceAdapter adapts the TokenProvider port to oauth2.TokenSource.
// This lets the generated Search Console client draw access tokens from
// whichever credential provider authenticated the session.
type TokenSourceAdapter struct {
	provider driven.TokenProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource from a TokenProvider.
// The returned TokenSource is intended for option.WithTokenSource() when
// building the API service.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
// Called by the API client whenever it needs an access token.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
