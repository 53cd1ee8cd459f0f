// Package dedup removes exact and near-duplicate posts before they reach
// the rest of the pipeline. Exact matches use a content-hash set; near
// matches use cosine similarity of TF-IDF term weights over a bounded
// window of recent content.
package dedup
