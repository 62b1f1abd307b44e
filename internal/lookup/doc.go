// Package lookup holds the static classification tables used to turn UWP
// characters, trade codes, base codes, and allegiance codes into readable text.
//
// The tables are package-level maps built once at start-up and never mutated,
// so they are safe to read from any goroutine. Callers go through the accessor
// functions, which apply the "Unknown" fallback for UWP fields and report
// membership for trade, base, and allegiance codes.
package lookup
