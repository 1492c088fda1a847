// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the safety service with per-call
// timeouts that attaches the signed-in user from a session store, and a helper
// deriving a local user identity.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
