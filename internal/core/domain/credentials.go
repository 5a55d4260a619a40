package domain

// OAuth2Credentials is the serializable OAuth2 credential record.
//
// It carries exactly the seven fields that round-trip through the
// credential store and through configuration mappings. Field names on the
// wire are fixed; see ToMap.
type OAuth2Credentials struct {
	// Token is the current access token (may be expired; providers refresh).
	Token string `json:"token" mapstructure:"token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token" mapstructure:"refresh_token"`
	// IDToken is the OpenID Connect identity token, when granted.
	IDToken string `json:"id_token" mapstructure:"id_token"`
	// TokenURI is the token endpoint used for refresh.
	TokenURI string `json:"token_uri" mapstructure:"token_uri"`
	// ClientID identifies the OAuth2 client application.
	ClientID string `json:"client_id" mapstructure:"client_id"`
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	// Scopes lists the granted OAuth2 scopes.
	Scopes []string `json:"scopes" mapstructure:"scopes"`
}

// ToMap returns the credential record as a plain mapping with exactly the
// seven serialization keys. The inverse lives in the auth adapter, which
// tolerates looser value types coming from JSON or TOML.
func (c OAuth2Credentials) ToMap() map[string]any {
	scopes := make([]string, len(c.Scopes))
	copy(scopes, c.Scopes)
	return map[string]any{
		"token":         c.Token,
		"refresh_token": c.RefreshToken,
		"id_token":      c.IDToken,
		"token_uri":     c.TokenURI,
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"scopes":        scopes,
	}
}

// HasRefreshToken returns true if a refresh token is available.
func (c OAuth2Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}
