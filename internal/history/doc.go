// Package history records periodic Fear & Greed index snapshots and serves
// them back for the historical API, either in process or from Redis.
package history
