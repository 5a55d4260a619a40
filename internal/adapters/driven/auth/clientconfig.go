package auth

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// readJSONInput normalizes the accepted configuration input shapes to raw
// JSON bytes: a file path, an already-parsed mapping, or raw bytes.
func readJSONInput(fs afero.Fs, v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		data, err := afero.ReadFile(fs, x)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrInvalidConfiguration, x, err)
		}
		return data, nil
	case map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("%w: encode mapping: %w", domain.ErrInvalidConfiguration, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported configuration input type %T", domain.ErrInvalidConfiguration, v)
	}
}

// ParseClientConfig reads an OAuth2 client-secrets document (the Google
// Cloud console download, with a top-level "installed" or "web" key) from a
// path, mapping, or raw JSON, and returns the oauth2 client configuration.
func ParseClientConfig(fs afero.Fs, v any, scopes ...string) (*oauth2.Config, error) {
	if len(scopes) == 0 {
		scopes = []string{ScopeReadonly}
	}
	data, err := readJSONInput(fs, v)
	if err != nil {
		return nil, err
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse client secrets: %w", domain.ErrInvalidConfiguration, err)
	}
	return cfg, nil
}
