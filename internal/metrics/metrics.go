// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when expvar's handler is mounted by the serve command.
package metrics

import "expvar"

// Ingestion counters.
var (
	FeedsFetched  = expvar.NewInt("sixdegrees_feeds_fetched_total")
	FeedsFailed   = expvar.NewInt("sixdegrees_feeds_failed_total")
	PostsSeen     = expvar.NewInt("sixdegrees_posts_seen_total")
	EvidenceLinks = expvar.NewInt("sixdegrees_evidence_links_total")
	HashtagLinks  = expvar.NewInt("sixdegrees_hashtag_links_total")
)

// Query counters.
var (
	PathQueries  = expvar.NewInt("sixdegrees_path_queries_total")
	PathNotFound = expvar.NewInt("sixdegrees_path_not_found_total")
	ImageFetches = expvar.NewInt("sixdegrees_image_fetches_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
