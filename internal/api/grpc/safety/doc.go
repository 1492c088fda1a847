// Package safety implements the gRPC transport for the safety service.
//
// The service descriptor is declared by hand and messages are plain structs
// carried by the JSON codec from package codec. Server adapts the wire messages
// to domain types and calls into a provided business-service interface.
package safety
