package engine

import (
	"strings"
	"sync"
	"time"
)

const (
	// bucketWidth is the fixed aggregation interval. Buckets are right-open
	// [start, start+bucketWidth) and addressed by start time, so late posts
	// land in the correct bucket as long as it has not been evicted.
	bucketWidth = time.Hour

	// retention is the window-state horizon. Buckets older than this are
	// evicted; it also defines the baseline for spike detection.
	retention     = 7 * 24 * time.Hour
	baselineHours = 168.0
)

// platformAgg accumulates per-platform sub-sums inside one bucket.
type platformAgg struct {
	count int
	sum   float64
}

// bucket accumulates statistics for one hour. Keyword mentions are counted
// at ingest time so index computation never rescans content.
type bucket struct {
	start          int64 // unix seconds, aligned to bucketWidth
	count          int
	sumSentiment   float64
	sumSentimentSq float64
	platforms      map[string]*platformAgg
	callMentions   int
	putMentions    int
	fearMentions   int
	greedMentions  int
}

func (b *bucket) mean() float64 {
	if b == nil || b.count == 0 {
		return 0
	}
	return b.sumSentiment / float64(b.count)
}

// window is one lock domain of time-bucketed aggregates: either a single
// ticker's state or the global (ticker-less) index state.
type window struct {
	mu      sync.RWMutex
	buckets map[int64]*bucket
}

func newWindow() *window {
	return &window{buckets: make(map[int64]*bucket)}
}

func bucketStart(ts time.Time) int64 {
	return ts.Truncate(bucketWidth).Unix()
}

// accumulate adds one post's contribution to the bucket containing ts.
// Caller holds the write lock.
func (w *window) accumulate(ts time.Time, platform string, score float64, hits keywordHits) {
	start := bucketStart(ts)
	b, ok := w.buckets[start]
	if !ok {
		b = &bucket{start: start, platforms: make(map[string]*platformAgg)}
		w.buckets[start] = b
	}

	b.count++
	b.sumSentiment += score
	b.sumSentimentSq += score * score

	p, ok := b.platforms[platform]
	if !ok {
		p = &platformAgg{}
		b.platforms[platform] = p
	}
	p.count++
	p.sum += score

	b.callMentions += hits.calls
	b.putMentions += hits.puts
	b.fearMentions += hits.fear
	b.greedMentions += hits.greed
}

// evictBefore drops buckets whose start is before cutoff. Caller holds the
// write lock. Returns the number of evicted buckets.
func (w *window) evictBefore(cutoff int64) int {
	evicted := 0
	for start := range w.buckets {
		if start < cutoff {
			delete(w.buckets, start)
			evicted++
		}
	}
	return evicted
}

// totals sums count and sentiment over buckets with start at or after since.
// Caller holds at least the read lock.
func (w *window) totals(since int64) (count int, sumSentiment float64) {
	for start, b := range w.buckets {
		if start >= since {
			count += b.count
			sumSentiment += b.sumSentiment
		}
	}
	return count, sumSentiment
}

// keywordHits counts mood-keyword occurrences in one post. A post counts at
// most once per keyword, mirroring per-post containment checks.
type keywordHits struct {
	calls int
	puts  int
	fear  int
	greed int
}

var (
	callKeywords  = []string{"call"}
	putKeywords   = []string{"put"}
	fearKeywords  = []string{"crash", "tank", "dump", "fear", "panic", "sell", "bearish"}
	greedKeywords = []string{"moon", "rocket", "bull", "rally", "buy", "lambo", "breakout"}
)

func countKeywords(content string) keywordHits {
	lower := strings.ToLower(content)
	var hits keywordHits
	for _, kw := range callKeywords {
		if strings.Contains(lower, kw) {
			hits.calls++
		}
	}
	for _, kw := range putKeywords {
		if strings.Contains(lower, kw) {
			hits.puts++
		}
	}
	for _, kw := range fearKeywords {
		if strings.Contains(lower, kw) {
			hits.fear++
		}
	}
	for _, kw := range greedKeywords {
		if strings.Contains(lower, kw) {
			hits.greed++
		}
	}
	return hits
}
