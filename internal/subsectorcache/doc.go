// Package subsectorcache keeps TravellerMap responses in a local SQLite
// database so repeated builds of the same sector skip the network.
//
// Cache wraps the upstream providers and is transparent: entries older than
// the configured TTL are refetched, and a failed cache write is logged but
// never fails a build.
package subsectorcache
