// Package scorer provides implementations of the external sentiment
// capability: a remote HTTP model client, a circuit-breaker wrapper, and a
// deterministic lexicon scorer for development and tests.
package scorer
