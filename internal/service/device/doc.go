// Package device provides the local stand-ins for device hardware used by the
// sos client: audible sirens, a static locator, a tel: dialer and a notifier
// that logs instead of messaging contacts.
package device
