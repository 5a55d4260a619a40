package auth

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
)

// OAuth2FromMap decodes a seven-field credential mapping into a provider.
// Value types are tolerated loosely (JSON and TOML decode scope lists as
// []any); required fields are validated after decoding.
func OAuth2FromMap(m map[string]any) (*OAuth2Provider, error) {
	var creds domain.OAuth2Credentials
	if err := mapstructure.Decode(m, &creds); err != nil {
		return nil, fmt.Errorf("%w: decode credentials: %w", domain.ErrInvalidConfiguration, err)
	}
	if err := validateRecord(creds); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	return NewOAuth2Provider(creds), nil
}

// validateRecord checks the fields required to authenticate and refresh.
// Token and IDToken may legitimately be empty in a stored record.
func validateRecord(creds domain.OAuth2Credentials) error {
	return validation.ValidateStruct(&creds,
		validation.Field(&creds.ClientID, validation.Required),
		validation.Field(&creds.ClientSecret, validation.Required),
		validation.Field(&creds.TokenURI, validation.Required),
	)
}

// SaveCredentials serializes a provider's credential mapping as indented
// JSON at path, creating parent directories. Service-account providers fail
// with domain.ErrSerializationUnsupported before anything is written.
func SaveCredentials(fs afero.Fs, path string, p driven.CredentialProvider) error {
	m, err := p.ToMap()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credentials directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// LoadCredentials reads a serialized credential file into a provider.
func LoadCredentials(fs afero.Fs, path string) (*OAuth2Provider, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials %s: %w", domain.ErrInvalidConfiguration, path, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse credentials %s: %w", domain.ErrInvalidConfiguration, path, err)
	}
	return OAuth2FromMap(m)
}
