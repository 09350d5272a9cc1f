package metrics_test

import (
	"expvar"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/sixdegrees/internal/metrics"
)

func TestInc(t *testing.T) {
	before := metrics.PathQueries.Value()
	metrics.Inc(metrics.PathQueries)
	metrics.Inc(metrics.PathQueries)
	assert.Equal(t, before+2, metrics.PathQueries.Value())
}

func TestCountersPublished(t *testing.T) {
	for _, name := range []string{
		"sixdegrees_feeds_fetched_total",
		"sixdegrees_feeds_failed_total",
		"sixdegrees_posts_seen_total",
		"sixdegrees_evidence_links_total",
		"sixdegrees_hashtag_links_total",
		"sixdegrees_path_queries_total",
		"sixdegrees_path_not_found_total",
		"sixdegrees_image_fetches_total",
	} {
		assert.NotNil(t, expvar.Get(name), name)
	}
}
