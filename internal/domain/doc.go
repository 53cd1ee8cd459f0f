// Package domain holds the core data model shared across the pipeline:
// posts, sentiment signals, alerts and the external scorer capability.
// It has no dependencies on other internal packages.
package domain
