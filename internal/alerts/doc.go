// Package alerts persists and delivers unusual-activity alerts: a repository
// over the alert log and a dispatcher that sweeps active tickers on a
// periodic tick.
package alerts
