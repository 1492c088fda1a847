// Package hold implements the press-and-hold SOS activation control.
//
// A Controller turns a sustained gesture into a single activation: Start arms
// a progress driver and a deadline timer, End cancels both, and when the
// deadline expires the activation sequence runs exactly once (siren, location,
// alert submission, contact notification, timed wind-down). Teardown releases
// every timer and resource on any exit path.
//
// Timer callbacks run on their own goroutines. Each one carries the session
// generation it was armed for and does nothing unless that generation is still
// current, so a cancellation observed before expiry always wins.
package hold
