// Package logger wraps zap for the sos binaries.
//
// A global sugared logger is configured once at startup (console or JSON
// output, adjustable level) and scoped copies travel through context.Context:
// ToContext/FromContext carry them, WithName and WithKV derive them. The
// package-level helpers (Infof, WarnKV, ...) always log through the logger
// found in the supplied context.
package logger
