// Package safety implements persistence for alerts, emergency contacts and
// profiles.
//
// Store keeps the records in SQLite (modernc.org/sqlite, no cgo) and applies
// the embedded schema migrations on Open. Every query is scoped to a user.
package safety
