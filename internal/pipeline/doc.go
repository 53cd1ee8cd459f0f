// Package pipeline chains the post-processing stages into a single entry
// point: validation, deduplication, spam filtering, ticker extraction,
// sentiment scoring and finally ingestion into the aggregation engine.
package pipeline
