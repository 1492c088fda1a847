// Package version exposes build metadata of the sos binaries.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ..." at build time.
// The health endpoint reports Current, the CLIs print Full.
package version
