// Package config defines the YAML settings shared by sos-server and the sos
// client, with helpers to load, validate and save them.
//
// Secrets and per-user values can be overlaid from environment variables
// (SOS_AI_API_KEY, SOS_AI_BASE_URL, SOS_USER_ID) so they never have to be
// written to the settings file.
package config
