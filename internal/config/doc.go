// Package config loads, normalizes, and validates astrogen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ASTROGEN_OUTPUT_DIR and TRAVELLERMAP_BASE_URL. The Config type centralizes
// every knob the CLI, the sector builder, and the HTTP server need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
