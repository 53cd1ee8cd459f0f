// Package server exposes the HTTP surface: the signal API, the ingest
// endpoint, the live WebSocket stream and the health and metrics endpoints.
package server
