// Package api exposes sector builds over HTTP.
//
// Builds stream their progress as Server-Sent Events: every progress message
// becomes one `data:` frame, a comment frame keeps idle connections open, and
// the stream ends after the terminal [DONE] or [ERROR] token. Closing the
// connection cancels the build at its next fetch boundary.
//
// Routes:
//
//	GET  /api/generate-stream?sector=&format=
//	POST /api/generate            {"sector": "...", "format": "..."}
//	GET  /api/sectorlist
//	GET  /health
package api
