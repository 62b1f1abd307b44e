// Package travellermap wraps the TravellerMap HTTP API that supplies sector
// metadata, per-subsector world listings, and the list of charted sectors.
//
// The Client satisfies the provider interfaces the sector builder consumes.
// Every outbound request is gated by a token-bucket limiter so bulk builds
// stay polite to the public service.
package travellermap
