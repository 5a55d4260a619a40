// Package domain defines the core business entities for gsc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - OAuth2Credentials: The serializable OAuth2 credential record
//   - Site: A web property the credential may access
//   - PermissionLevel: Ordered access level on a site
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
