// Package errors provides structured errors for vstore.
//
// Every misuse the store can detect is registered under a short code:
//
//	S001  invalid updater passed to Update
//	S002  nil producer passed to NewFunc
//	S003  prop value does not match its declared prop type
//	S004  required prop missing
//	S005  flush exceeded its pass limit
//	C001  invalid configuration
//	C002  configuration file unreadable
//	C003  seed snapshot could not be loaded
//
// Errors carry an optional detail, suggestion and wrapped cause, and can be
// rendered for a terminal (Format), a log line (FormatCompact) or an API
// response (FormatJSON).
package errors
