package engine

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// Engine turns accepted, scored, ticker-tagged posts into point-in-time
// signals: the Fear & Greed index, per-ticker sentiment, trending tickers
// and unusual-activity alerts.
//
// Lock layout follows the data: one RWMutex per ticker window, a separate
// lock for the global window, and an outer RWMutex guarding only the ticker
// map itself. Ingest touches ticker windows in lexicographic order. Reads
// tolerate slightly stale state.
type Engine struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	tickers map[string]*window

	global *window

	lastMu    sync.RWMutex
	lastIndex *domain.FearGreedIndex

	sf singleflight.Group
}

func New(clock clockwork.Clock) *Engine {
	return &Engine{
		clock:   clock,
		tickers: make(map[string]*window),
		global:  newWindow(),
	}
}

// Ingest accumulates a non-spam, scored post into every tagged ticker's
// window and always into the global window: the market-wide index reflects
// whole-market chatter, not only tagged posts.
func (e *Engine) Ingest(post *domain.Post) {
	if post.IsSpam {
		slog.Warn("Spam post reached the engine, dropping", "post_id", post.ID)
		return
	}

	hits := countKeywords(post.Content)
	cutoff := bucketStart(post.Timestamp.Add(-retention))

	// Fixed lexicographic order across per-ticker locks.
	symbols := append([]string(nil), post.Tickers...)
	sort.Strings(symbols)

	evicted := 0
	for _, symbol := range symbols {
		w := e.window(symbol)
		w.mu.Lock()
		w.accumulate(post.Timestamp, post.Platform, post.Sentiment.Score, hits)
		evicted += w.evictBefore(cutoff)
		w.mu.Unlock()
	}

	e.global.mu.Lock()
	e.global.accumulate(post.Timestamp, post.Platform, post.Sentiment.Score, hits)
	evicted += e.global.evictBefore(cutoff)
	e.global.mu.Unlock()

	metrics.EngineIngestTotal.Inc()
	if evicted > 0 {
		metrics.EngineBucketsEvicted.Add(float64(evicted))
	}
}

// window returns the ticker's window, creating it on first sight.
func (e *Engine) window(symbol string) *window {
	e.mu.RLock()
	w, ok := e.tickers[symbol]
	e.mu.RUnlock()
	if ok {
		return w
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok = e.tickers[symbol]; ok {
		return w
	}
	w = newWindow()
	e.tickers[symbol] = w
	metrics.EngineTickersTracked.Set(float64(len(e.tickers)))
	return w
}

// Compact evicts buckets past the retention horizon in every window and
// drops tickers left with no data. Intended to run on a periodic tick so
// quiet tickers don't linger for a week of wall-clock time.
func (e *Engine) Compact() {
	cutoff := bucketStart(e.clock.Now().Add(-retention))

	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	for symbol, w := range e.tickers {
		w.mu.Lock()
		evicted += w.evictBefore(cutoff)
		empty := len(w.buckets) == 0
		w.mu.Unlock()
		if empty {
			delete(e.tickers, symbol)
		}
	}

	e.global.mu.Lock()
	evicted += e.global.evictBefore(cutoff)
	e.global.mu.Unlock()

	metrics.EngineTickersTracked.Set(float64(len(e.tickers)))
	if evicted > 0 {
		metrics.EngineBucketsEvicted.Add(float64(evicted))
	}
}

// TrendingTickers returns up to limit tickers ordered by mention count over
// the last 24 hours, most mentioned first. Ties break lexicographically.
func (e *Engine) TrendingTickers(limit int) []domain.TrendingTicker {
	since := bucketStart(e.clock.Now().Add(-24 * bucketWidth))

	e.mu.RLock()
	symbols := make([]string, 0, len(e.tickers))
	for symbol := range e.tickers {
		symbols = append(symbols, symbol)
	}
	e.mu.RUnlock()

	var trending []domain.TrendingTicker
	for _, symbol := range symbols {
		e.mu.RLock()
		w, ok := e.tickers[symbol]
		e.mu.RUnlock()
		if !ok {
			continue
		}

		w.mu.RLock()
		count, sum := w.totals(since)
		w.mu.RUnlock()

		if count == 0 {
			continue
		}
		trending = append(trending, domain.TrendingTicker{
			Ticker:       symbol,
			Mentions:     count,
			AvgSentiment: sum / float64(count),
		})
	}

	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Mentions != trending[j].Mentions {
			return trending[i].Mentions > trending[j].Mentions
		}
		return trending[i].Ticker < trending[j].Ticker
	})

	if limit > 0 && len(trending) > limit {
		trending = trending[:limit]
	}
	return trending
}

// LastFearGreedIndex returns the most recently computed index, if any.
func (e *Engine) LastFearGreedIndex() (domain.FearGreedIndex, bool) {
	e.lastMu.RLock()
	defer e.lastMu.RUnlock()
	if e.lastIndex == nil {
		return domain.FearGreedIndex{}, false
	}
	return *e.lastIndex, true
}
