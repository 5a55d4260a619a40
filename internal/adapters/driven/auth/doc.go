// Package auth resolves credential inputs into providers that can mint
// access tokens for the Search Console API.
//
// Three input families are supported:
//
//   - Stored OAuth2 credentials: the seven-field mapping (or a JSON file
//     holding it) produced by a previous interactive authorization.
//   - An OAuth2 client-secrets document plus an interactive flow (web
//     callback or console paste) that authorizes a user on first run.
//   - A service-account key, exchanged through the JWT grant. Service
//     accounts never serialize; their key files are the source of truth.
//
// Resolve applies the decision table across these inputs; the individual
// constructors are exported for callers that already know what they hold.
package auth
