package spam

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

const (
	// velocityWindow is the trailing window for the posting-velocity check.
	velocityWindow = time.Hour
	// velocityLimit is the maximum posts per author per window before the
	// author is treated as a bot.
	velocityLimit = 50
	// minQualityLength is the minimum content length (in runes) below which
	// content must mention a financial term to pass.
	minQualityLength = 20
)

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(click here|buy now|limited time)`),
	regexp.MustCompile(`(🚀){3,}`),
	regexp.MustCompile(`(!!!){2,}`),
	regexp.MustCompile(`(dm me|contact me|join my)`),
}

var financialTerms = []string{
	"stock", "ticker", "calls", "puts", "buy",
	"sell", "dd", "analysis", "target", "price",
}

// activityRecord tracks one author's recent post timestamps. Pruned to the
// trailing velocity window on every access.
type activityRecord struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// Filter rejects spam, bots and low-quality content. Author activity is
// locked per author so unrelated authors never contend.
type Filter struct {
	clock     clockwork.Clock
	knownBots map[string]struct{}

	mu      sync.Mutex
	authors map[string]*activityRecord
}

// New creates a filter. knownBots is the injected bot registry; nil means
// no known bots.
func New(clock clockwork.Clock, knownBots []string) *Filter {
	bots := make(map[string]struct{}, len(knownBots))
	for _, b := range knownBots {
		bots[b] = struct{}{}
	}
	return &Filter{
		clock:     clock,
		knownBots: bots,
		authors:   make(map[string]*activityRecord),
	}
}

// IsSpam reports whether content should be rejected. Rules are evaluated in
// order, short-circuiting on the first hit: spam signatures, bot registry,
// posting velocity, low-quality heuristic. The velocity check records the
// attempt even when a later rule rejects the content.
func (f *Filter) IsSpam(content string, meta domain.PostMeta) bool {
	lower := strings.ToLower(content)

	for _, pattern := range spamPatterns {
		if pattern.MatchString(lower) {
			metrics.SpamRejectionsTotal.WithLabelValues("pattern").Inc()
			return true
		}
	}

	if _, ok := f.knownBots[meta.Author]; ok {
		metrics.SpamRejectionsTotal.WithLabelValues("known_bot").Inc()
		return true
	}

	if f.isPostingTooFast(meta.Author) {
		metrics.SpamRejectionsTotal.WithLabelValues("velocity").Inc()
		return true
	}

	if utf8.RuneCountInString(content) < minQualityLength && !containsFinancialTerm(lower) {
		metrics.SpamRejectionsTotal.WithLabelValues("low_quality").Inc()
		return true
	}

	return false
}

// isPostingTooFast records the current attempt under the author, prunes
// entries older than the velocity window, and flags the author once the
// pruned count exceeds the limit.
func (f *Filter) isPostingTooFast(author string) bool {
	record := f.record(author)
	now := f.clock.Now()

	record.mu.Lock()
	defer record.mu.Unlock()

	record.timestamps = append(record.timestamps, now)

	cutoff := now.Add(-velocityWindow)
	kept := record.timestamps[:0]
	for _, ts := range record.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	record.timestamps = kept

	return len(record.timestamps) > velocityLimit
}

func (f *Filter) record(author string) *activityRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.authors[author]
	if !ok {
		record = &activityRecord{}
		f.authors[author] = record
		metrics.SpamTrackedAuthors.Set(float64(len(f.authors)))
	}
	return record
}

func containsFinancialTerm(lower string) bool {
	for _, term := range financialTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
