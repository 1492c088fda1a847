// Package chat relays a user transcript to an OpenAI-compatible chat
// completion endpoint, prefixed with a fixed safety-focused system prompt.
//
// Relay runs inside sos-server; Client is its HTTP counterpart used by the sos
// terminal client.
package chat
