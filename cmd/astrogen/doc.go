// Package main hosts the astrogen CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into sector builds,
// TravellerMap lookups, offline decoding of sec-format files, the HTTP/SSE
// server, and configuration and cache maintenance. Configuration loading,
// logger construction, and provider wiring live in commandContext so the
// individual commands stay declarative.
package main
