package dedup

import (
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

const (
	// bufferCapacity bounds the recent-content window used for near-duplicate
	// detection. Oldest entries are evicted FIFO together with their fingerprints.
	bufferCapacity = 1000

	// similarityThreshold is the cosine similarity above which content is
	// treated as a repost rather than new information.
	similarityThreshold = 0.95
)

var termPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// entry is the fingerprint of one buffered content: exact hash plus the raw
// term counts backing the term-weight vector. Immutable after insertion.
type entry struct {
	hash  uint64
	terms map[string]int
}

// Deduplicator detects exact and near-duplicate content over a bounded
// recent-content window. It is a single writer-lock domain: near-duplicate
// checks need a globally consistent view of the buffer.
type Deduplicator struct {
	mu      sync.Mutex
	seen    map[uint64]struct{}
	buffer  []*entry
	head    int
	docFreq map[string]int
}

func New() *Deduplicator {
	return &Deduplicator{
		seen:    make(map[uint64]struct{}),
		buffer:  make([]*entry, 0, bufferCapacity),
		docFreq: make(map[string]int),
	}
}

// IsDuplicate reports whether content is an exact or near-duplicate of
// recently seen content. On first sight the content's fingerprint is
// registered. Never fails: the answer is always a definite boolean.
func (d *Deduplicator) IsDuplicate(content string, _ domain.PostMeta) bool {
	normalized := normalize(content)
	hash := xxhash.Sum64String(normalized)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[hash]; ok {
		metrics.DedupChecksTotal.WithLabelValues("exact_duplicate").Inc()
		return true
	}

	terms := termCounts(normalized)

	if len(d.buffer) > 0 {
		if d.maxSimilarity(terms) > similarityThreshold {
			metrics.DedupChecksTotal.WithLabelValues("near_duplicate").Inc()
			return true
		}
	}

	d.insert(&entry{hash: hash, terms: terms})
	metrics.DedupChecksTotal.WithLabelValues("unique").Inc()
	return false
}

// maxSimilarity computes the maximum cosine similarity between the candidate
// term counts and every buffered entry, under TF-IDF weights fitted over the
// buffer plus the candidate. A degenerate candidate (no usable terms) yields
// 0.0 and bumps a counter instead of failing the caller.
func (d *Deduplicator) maxSimilarity(candidate map[string]int) float64 {
	if len(candidate) == 0 {
		metrics.DedupSimilarityFailures.Inc()
		return 0.0
	}

	// Document frequencies include the candidate itself, matching a vectorizer
	// refit over buffer + candidate.
	n := float64(len(d.buffer) + 1)
	idf := func(term string) float64 {
		df := d.docFreq[term]
		if _, ok := candidate[term]; ok {
			df++
		}
		return math.Log((1+n)/(1+float64(df))) + 1
	}

	candWeights := make(map[string]float64, len(candidate))
	var candNorm float64
	for term, tf := range candidate {
		w := float64(tf) * idf(term)
		candWeights[term] = w
		candNorm += w * w
	}
	candNorm = math.Sqrt(candNorm)
	if candNorm == 0 {
		metrics.DedupSimilarityFailures.Inc()
		return 0.0
	}

	best := 0.0
	for _, e := range d.buffer {
		var dot, norm float64
		for term, tf := range e.terms {
			w := float64(tf) * idf(term)
			norm += w * w
			if cw, ok := candWeights[term]; ok {
				dot += w * cw
			}
		}
		if norm == 0 {
			continue
		}
		if sim := dot / (math.Sqrt(norm) * candNorm); sim > best {
			best = sim
		}
	}
	return best
}

// insert registers a fingerprint, evicting the oldest entry (and its
// fingerprint) once the buffer is at capacity.
func (d *Deduplicator) insert(e *entry) {
	if len(d.buffer) < bufferCapacity {
		d.buffer = append(d.buffer, e)
	} else {
		old := d.buffer[d.head]
		delete(d.seen, old.hash)
		for term := range old.terms {
			if d.docFreq[term]--; d.docFreq[term] == 0 {
				delete(d.docFreq, term)
			}
		}
		d.buffer[d.head] = e
		d.head = (d.head + 1) % bufferCapacity
	}

	d.seen[e.hash] = struct{}{}
	for term := range e.terms {
		d.docFreq[term]++
	}
	metrics.DedupBufferSize.Set(float64(len(d.buffer)))
}

func normalize(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

func termCounts(normalized string) map[string]int {
	counts := make(map[string]int)
	for _, term := range termPattern.FindAllString(normalized, -1) {
		counts[term]++
	}
	return counts
}
