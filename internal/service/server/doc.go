// Package server runs the safety backend: the SQLite-backed safety service over
// gRPC and the chat relay with the emergency directory over HTTP.
package server
