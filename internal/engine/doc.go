// Package engine maintains the rolling aggregation windows behind all
// market-sentiment signals: per-ticker and global hourly buckets with a
// 7-day retention horizon, the composite Fear & Greed index, per-ticker
// sentiment and momentum, trending tickers, and unusual-activity alerts.
package engine
