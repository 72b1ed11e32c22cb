// Package domain defines the core business entities for fabricctl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: An acquired bearer token and its expiry
//   - ServicePrincipalConfig: Application identity for the client-credential flow
//   - SessionState: The durable form of an authenticated session
//   - Workspace, Lakehouse, Warehouse, Environment: Fabric resources
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
