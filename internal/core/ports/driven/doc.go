// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core code depends on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TokenProvider: Supplies live access tokens for API sessions
//   - CredentialProvider: A credential that can identify and serialize itself
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
