package gsc

import (
	"context"

	"github.com/arden-labs/gsc-cli/internal/adapters/driven/auth"
)

// Authenticate resolves credentials, opens an API session, and returns
// the resulting account directory. It is the package's front door:
//
//	account, err := gsc.Authenticate(ctx, auth.Options{
//		Credentials: "credentials.json",
//	})
//
// See auth.Options for the accepted credential sources and flows.
// Service options (pacing, logging, endpoint) pass through to the
// underlying session.
func Authenticate(ctx context.Context, opts auth.Options, serviceOpts ...Option) (*Account, error) {
	provider, err := auth.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}

	service, err := NewService(ctx, provider, serviceOpts...)
	if err != nil {
		return nil, err
	}

	return NewAccount(service, provider), nil
}
