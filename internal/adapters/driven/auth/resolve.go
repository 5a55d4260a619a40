package auth

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
	"github.com/arden-labs/gsc-cli/internal/logger"
)

// Options configures credential resolution. Exactly one credential family
// must be chosen: stored OAuth2 credentials and/or a client configuration,
// or a service-account key. Supplying a service account together with
// either OAuth2 input is an error.
type Options struct {
	// ClientConfig is an OAuth2 client-secrets input: a file path, a
	// parsed mapping, or raw JSON bytes. Triggers an interactive flow
	// unless Credentials is also set.
	ClientConfig any

	// Credentials is a stored credential input: a file path or the
	// seven-field mapping. Takes precedence over ClientConfig.
	Credentials any

	// ServiceAccount is a service-account key input: a file path, a
	// parsed mapping, or raw JSON bytes.
	ServiceAccount any

	// Flow selects the interactive flow: FlowWeb (default) or FlowConsole.
	Flow string

	// Scopes override the default read-only scope.
	Scopes []string

	// Serialize, when non-empty, persists the resolved credentials to this
	// path. Service-account resolution with Serialize set is an error.
	Serialize string

	// Fs is the filesystem used for reads and writes. Defaults to the OS
	// filesystem; tests inject a memory filesystem.
	Fs afero.Fs
}

func (o Options) fs() afero.Fs {
	if o.Fs != nil {
		return o.Fs
	}
	return afero.NewOsFs()
}

// Resolve applies the credential decision table:
//
//	service account + any OAuth2 input -> error (mutually exclusive)
//	stored credentials                 -> load and refresh as needed
//	client config only                 -> run the interactive flow
//	service account only               -> JWT grant provider
//	nothing                            -> error
func Resolve(ctx context.Context, opts Options) (driven.CredentialProvider, error) {
	fs := opts.fs()

	if opts.ServiceAccount != nil && (opts.ClientConfig != nil || opts.Credentials != nil) {
		return nil, fmt.Errorf("%w: service account and OAuth2 inputs are mutually exclusive", domain.ErrInvalidConfiguration)
	}

	provider, err := resolveProvider(ctx, fs, opts)
	if err != nil {
		return nil, err
	}

	if opts.Serialize != "" {
		if err := SaveCredentials(fs, opts.Serialize, provider); err != nil {
			return nil, err
		}
		logger.Debug("credentials serialized", "path", opts.Serialize)
	}

	return provider, nil
}

func resolveProvider(ctx context.Context, fs afero.Fs, opts Options) (driven.CredentialProvider, error) {
	switch {
	case opts.Credentials != nil:
		return resolveStored(fs, opts.Credentials)

	case opts.ClientConfig != nil:
		cfg, err := ParseClientConfig(fs, opts.ClientConfig, opts.Scopes...)
		if err != nil {
			return nil, err
		}
		flow := &Flow{Config: cfg}
		provider, err := flow.Run(ctx, opts.Flow)
		if err != nil {
			return nil, err
		}
		logger.Debug("interactive authorization complete", "client_id", provider.Identifier())
		return provider, nil

	case opts.ServiceAccount != nil:
		data, err := readJSONInput(fs, opts.ServiceAccount)
		if err != nil {
			return nil, err
		}
		return NewServiceAccountProvider(data, opts.Scopes...)

	default:
		return nil, fmt.Errorf("%w: no credentials supplied", domain.ErrInvalidConfiguration)
	}
}

// resolveStored loads previously serialized OAuth2 credentials from a file
// path or an in-memory mapping.
func resolveStored(fs afero.Fs, v any) (*OAuth2Provider, error) {
	switch x := v.(type) {
	case string:
		return LoadCredentials(fs, x)
	case map[string]any:
		return OAuth2FromMap(x)
	case domain.OAuth2Credentials:
		return NewOAuth2Provider(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported credentials input type %T", domain.ErrInvalidConfiguration, v)
	}
}
