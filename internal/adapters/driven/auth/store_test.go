package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

func TestOAuth2FromMap_RoundTrip(t *testing.T) {
	provider, err := OAuth2FromMap(validCredentialMap())
	require.NoError(t, err)

	m, err := provider.ToMap()
	require.NoError(t, err)

	reloaded, err := OAuth2FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, provider.Credentials(), reloaded.Credentials())
}

func TestOAuth2FromMap_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "missing client_id", missing: "client_id"},
		{name: "missing client_secret", missing: "client_secret"},
		{name: "missing token_uri", missing: "token_uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validCredentialMap()
			delete(m, tt.missing)

			_, err := OAuth2FromMap(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestOAuth2FromMap_EmptyOptionalFields(t *testing.T) {
	m := validCredentialMap()
	m["token"] = ""
	m["id_token"] = ""
	delete(m, "refresh_token")

	provider, err := OAuth2FromMap(m)
	require.NoError(t, err)
	assert.False(t, provider.Credentials().HasRefreshToken())
}

func TestSaveCredentials_CreatesDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	provider, err := OAuth2FromMap(validCredentialMap())
	require.NoError(t, err)

	err = SaveCredentials(fs, "/deeply/nested/dir/credentials.json", provider)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/deeply/nested/dir/credentials.json")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m, 7)
	assert.Equal(t, "client-id.apps.googleusercontent.com", m["client_id"])
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadCredentials(fs, "/nope/credentials.json")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestLoadCredentials_MalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/credentials.json", []byte("{not json"), 0o600))

	_, err := LoadCredentials(fs, "/credentials.json")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestParseClientConfig_InstalledApp(t *testing.T) {
	fs := afero.NewMemMapFs()
	secrets := `{
	  "installed": {
	    "client_id": "abc.apps.googleusercontent.com",
	    "client_secret": "shh",
	    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
	    "token_uri": "https://oauth2.googleapis.com/token",
	    "redirect_uris": ["http://localhost"]
	  }
	}`
	require.NoError(t, afero.WriteFile(fs, "/client_secrets.json", []byte(secrets), 0o600))

	cfg, err := ParseClientConfig(fs, "/client_secrets.json")
	require.NoError(t, err)

	assert.Equal(t, "abc.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, "shh", cfg.ClientSecret)
	assert.Equal(t, []string{ScopeReadonly}, cfg.Scopes)
}

func TestParseClientConfig_Mapping(t *testing.T) {
	mapping := map[string]any{
		"web": map[string]any{
			"client_id":     "web-client",
			"client_secret": "web-secret",
			"auth_uri":      "https://accounts.google.com/o/oauth2/auth",
			"token_uri":     "https://oauth2.googleapis.com/token",
		},
	}

	cfg, err := ParseClientConfig(afero.NewMemMapFs(), mapping, ScopeFull)
	require.NoError(t, err)
	assert.Equal(t, "web-client", cfg.ClientID)
	assert.Equal(t, []string{ScopeFull}, cfg.Scopes)
}

func TestParseClientConfig_Malformed(t *testing.T) {
	_, err := ParseClientConfig(afero.NewMemMapFs(), []byte(`{"neither": {}}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNewServiceAccountProvider_BadKey(t *testing.T) {
	_, err := NewServiceAccountProvider([]byte(`{"type":"authorized_user"}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestOAuth2Provider_GetToken_StaticWithoutRefresh(t *testing.T) {
	// With no refresh token the stored access token is served as-is.
	provider := NewOAuth2Provider(domain.OAuth2Credentials{
		Token:        "stored-token",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "id",
		ClientSecret: "secret",
	})

	tok, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", tok)
}
