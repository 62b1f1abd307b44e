// Package sector orchestrates a build: validate the request, fetch subsector
// metadata, fetch and decode every subsector in metadata order, and hand the
// ordered world list to exactly one format emitter.
//
// Builder reports progress through a progress.Sink. Run wraps Build and always
// ends the stream with a terminal token ([DONE] or [ERROR] <message>), which is
// what the CLI and the SSE transport forward to their clients.
//
// Fetches may run concurrently when configured, but results are buffered and
// consumed strictly in metadata order, so concurrency changes latency only,
// never the emitted artifacts or the progress sequence.
package sector
