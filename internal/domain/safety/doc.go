// Package safety contains the core domain types: emergency alerts, contacts,
// profiles, chat messages and device locations.
//
// Records carry Clone helpers so services never hand out references to their
// internal state.
package safety
