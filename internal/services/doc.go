// Package services defines shared utilities consumed by the sector builder,
// the format emitters, and the transports that front them.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs, stage names, sector names, and
//     request correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures with the
//     taxonomy the CLI and HTTP layers translate into exit codes and statuses.
//
// Use these helpers when wiring new pipeline steps so error reporting and
// observability stay uniform across the build.
package services
