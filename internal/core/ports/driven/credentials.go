package driven

// CredentialProvider is a resolved credential: something that can mint
// access tokens, name the identity it represents, and (when the kind
// supports it) serialize itself for later reuse.
//
// Two kinds exist: OAuth2 user credentials, which round-trip through a
// seven-field mapping, and service-account credentials, whose ToMap fails
// with domain.ErrSerializationUnsupported because the key material is
// managed outside this tool.
type CredentialProvider interface {
	TokenProvider

	// Identifier names the authenticated principal: the OAuth2 client ID
	// or the service-account email.
	Identifier() string

	// ToMap returns the serializable credential mapping.
	// Service-account providers return domain.ErrSerializationUnsupported.
	ToMap() (map[string]any, error)
}
