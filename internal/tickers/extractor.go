package tickers

import (
	"regexp"
	"sort"
	"strings"
)

var (
	cashtagPattern   = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	bareTokenPattern = regexp.MustCompile(`\b([A-Z]{1,5})\b`)
)

// contextWords gate bare uppercase tokens: without one of these anywhere in
// the text, a token like "CEO" is treated as an ordinary acronym. The gate is
// whole-text, not proximity-based, matching observed posting style (a ticker
// post almost always carries at least one of these).
var contextWords = []string{
	"stock", "shares", "calls", "puts", "long", "short",
	"buy", "sell", "price", "target", "dd", "yolo",
}

// Extractor resolves free text to canonical ticker symbols using three
// independent strategies whose results are unioned: cashtags, context-gated
// bare uppercase tokens, and company-name matching.
type Extractor struct {
	known     map[string]struct{}
	companies map[string]string
}

// New creates an extractor over the given reference data. Passing nil for
// either uses the built-in reference sets.
func New(known []string, companies map[string]string) *Extractor {
	if known == nil {
		known = knownTickers
	}
	if companies == nil {
		companies = companyToTicker
	}
	set := make(map[string]struct{}, len(known))
	for _, t := range known {
		set[t] = struct{}{}
	}
	return &Extractor{known: set, companies: companies}
}

// Extract returns the sorted set of canonical uppercase ticker symbols
// found in text.
func (e *Extractor) Extract(text string) []string {
	found := make(map[string]struct{})

	// Strategy 1: cashtags ($AAPL), validated against the reference set.
	for _, m := range cashtagPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := e.known[m[1]]; ok {
			found[m[1]] = struct{}{}
		}
	}

	lower := strings.ToLower(text)

	// Strategy 2: bare uppercase tokens, validated and context-gated.
	if hasTickerContext(lower) {
		for _, m := range bareTokenPattern.FindAllStringSubmatch(text, -1) {
			if _, ok := e.known[m[1]]; ok {
				found[m[1]] = struct{}{}
			}
		}
	}

	// Strategy 3: company names, unconditional. Recall over precision:
	// "apple earnings beat" should tag AAPL without any context word.
	for company, ticker := range e.companies {
		if strings.Contains(lower, company) {
			found[ticker] = struct{}{}
		}
	}

	result := make([]string, 0, len(found))
	for t := range found {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

func hasTickerContext(lower string) bool {
	for _, w := range contextWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
