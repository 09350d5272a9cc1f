package social_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/sixdegrees/internal/social"
)

func TestParseFeed(t *testing.T) {
	doc := feedJSON(
		postJSON("http://img/1", "Cannes", "premiere", "Tom Hanks", "Meg Ryan"),
		postJSON("http://img/2", "", "great night with #rita"),
	)

	posts, skipped, err := social.ParseFeed([]byte(doc))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, posts, 2)

	assert.Equal(t, social.Post{
		ImageURL:    "http://img/1",
		Location:    "Cannes",
		TaggedNames: []string{"Tom Hanks", "Meg Ryan"},
		Tagged:      2,
		Caption:     "premiere",
	}, posts[0])

	assert.Equal(t, "http://img/2", posts[1].ImageURL)
	assert.Empty(t, posts[1].Location)
	assert.Empty(t, posts[1].TaggedNames)
	assert.Zero(t, posts[1].Tagged)
	assert.Equal(t, "great night with #rita", posts[1].Caption)
}

func TestParseFeed_SkipsIncompletePosts(t *testing.T) {
	doc := feedJSON(
		`{"node":{"edge_media_to_tagged_user":{"edges":[]}}}`,
		`{"node":{"display_url":"http://img/3"}}`,
		`{"node":{"display_url":"http://img/4","edge_media_to_tagged_user":{"edges":[{"node":{"user":{}}}]}}}`,
	)

	posts, skipped, err := social.ParseFeed([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, posts, 1)
	assert.Equal(t, "http://img/4", posts[0].ImageURL)
	assert.Empty(t, posts[0].TaggedNames, "tagged users without a full_name are ignored")
	assert.Equal(t, 1, posts[0].Tagged, "unnamed tagged users still count as tagged")
	assert.Empty(t, posts[0].Caption)
}

func TestParseFeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"data":`},
		{"wrong envelope", `{"data":{"user":{"edges":[]}}}`},
		{"edges not array", `{"data":{"user":{"edge_owner_to_timeline_media":{"edges":{}}}}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := social.ParseFeed([]byte(tc.doc))
			var fpe *social.FeedParseError
			assert.ErrorAs(t, err, &fpe)
		})
	}
}
