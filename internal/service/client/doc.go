// Package client implements the sos terminal client: the press-and-hold SOS
// control, the fake incoming call and the views over contacts, profile, alerts,
// chat and the emergency directory.
package client
