package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline Metrics
var (
	// PipelinePostsTotal tracks posts entering the pipeline by outcome
	PipelinePostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_posts_total",
			Help: "Total posts processed by outcome (accepted/invalid/duplicate/spam/score_error)",
		},
		[]string{"outcome"},
	)

	// PipelineProcessDuration tracks end-to-end processing latency per post
	PipelineProcessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_process_duration_seconds",
			Help:    "Post processing duration in seconds (excluding rejected posts)",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

// Deduplicator Metrics
var (
	// DedupChecksTotal tracks duplicate checks by result
	DedupChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_checks_total",
			Help: "Total duplicate checks by result (unique/exact_duplicate/near_duplicate)",
		},
		[]string{"result"},
	)

	// DedupSimilarityFailures tracks similarity computations that fell back to 0.0
	DedupSimilarityFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedup_similarity_failures_total",
			Help: "Total similarity computations that degenerated and returned 0.0",
		},
	)

	// DedupBufferSize tracks current recent-content buffer occupancy
	DedupBufferSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_buffer_entries",
			Help: "Current number of entries in the recent-content buffer",
		},
	)
)

// Spam Filter Metrics
var (
	// SpamRejectionsTotal tracks spam rejections by rule
	SpamRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spam_rejections_total",
			Help: "Total spam rejections by rule (pattern/known_bot/velocity/low_quality)",
		},
		[]string{"rule"},
	)

	// SpamTrackedAuthors tracks authors with an active activity record
	SpamTrackedAuthors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spam_tracked_authors",
			Help: "Current number of authors with a non-empty activity record",
		},
	)
)

// Scorer Metrics
var (
	// ScorerRequestsTotal tracks scorer calls by result
	ScorerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_requests_total",
			Help: "Total sentiment scorer calls by result (success/error/circuit_open)",
		},
		[]string{"result"},
	)

	// ScorerRequestDuration tracks scorer call latency
	ScorerRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scorer_request_duration_seconds",
			Help:    "Sentiment scorer call duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// ScorerBreakerState tracks the scorer circuit breaker state (0=closed, 1=half-open, 2=open)
	ScorerBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scorer_breaker_state",
			Help: "Current scorer circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Aggregation Engine Metrics
var (
	// EngineIngestTotal tracks posts ingested into the aggregation windows
	EngineIngestTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_ingest_total",
			Help: "Total posts ingested into the aggregation engine",
		},
	)

	// EngineTickersTracked tracks distinct tickers with retained window state
	EngineTickersTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_tickers_tracked",
			Help: "Current number of tickers with window state inside the retention horizon",
		},
	)

	// EngineBucketsEvicted tracks hourly buckets evicted past the retention horizon
	EngineBucketsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_buckets_evicted_total",
			Help: "Total hourly buckets evicted past the 7-day retention horizon",
		},
	)

	// FearGreedValue tracks the last computed fear/greed index value
	FearGreedValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fear_greed_index_value",
			Help: "Last computed Fear & Greed index value (0-100)",
		},
	)
)

// Alerting Metrics
var (
	// AlertsEmittedTotal tracks unusual-activity alerts emitted by severity
	AlertsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_emitted_total",
			Help: "Total unusual-activity alerts emitted by severity",
		},
		[]string{"severity"},
	)

	// AlertsNotifiedTotal tracks alerts delivered to the notifier
	AlertsNotifiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_notified_total",
			Help: "Total alerts delivered to the notifier and marked notified",
		},
	)

	// AlertDispatchErrors tracks alert delivery failures
	AlertDispatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_dispatch_errors_total",
			Help: "Total alert delivery failures (alert stays unnotified for retry)",
		},
	)
)

// History Metrics
var (
	// HistorySnapshotsTotal tracks fear/greed snapshots appended to the history store
	HistorySnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_snapshots_total",
			Help: "Total fear/greed index snapshots appended to the history store",
		},
	)

	// HistoryErrorsTotal tracks history store failures
	HistoryErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_errors_total",
			Help: "Total history store failures",
		},
	)
)

// Stream Metrics
var (
	// StreamClientsCurrent tracks connected WebSocket stream clients
	StreamClientsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_clients_current",
			Help: "Current number of connected sentiment-stream WebSocket clients",
		},
	)

	// StreamSlowClientsEvicted tracks clients evicted for not keeping up
	StreamSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_slow_clients_evicted_total",
			Help: "Total WebSocket clients evicted because their send buffer was full",
		},
	)

	// StreamMessagesTotal tracks messages fanned out to stream clients
	StreamMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_messages_total",
			Help: "Total messages fanned out to sentiment-stream clients",
		},
	)
)

// HTTP Request Metrics
// Note: http_errors_total{type} is provided by the internal/errors package.
