package social

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Paths into a feed document. The nesting mirrors the upstream provider's
// timeline-media response and must not change.
const (
	timelineEdgesPath = "data.user.edge_owner_to_timeline_media.edges"
	displayURLPath    = "node.display_url"
	locationPath      = "node.location.name"
	taggedEdgesPath   = "node.edge_media_to_tagged_user.edges"
	taggedNamePath    = "node.user.full_name"
	captionTextPath   = "node.edge_media_to_caption.edges.0.node.text"
)

// Post is one timeline entry reduced to the fields ingestion needs.
type Post struct {
	ImageURL    string
	Location    string
	TaggedNames []string
	// Tagged counts every tagged-user edge, including ones without a usable name.
	Tagged  int
	Caption string
}

// FeedParseError describes a feed document that could not be read.
type FeedParseError struct {
	URL    string
	Reason string
}

func (e *FeedParseError) Error() string {
	if e.URL == "" {
		return "feed document: " + e.Reason
	}
	return fmt.Sprintf("feed document %s: %s", e.URL, e.Reason)
}

// ParseFeed extracts posts from a feed document. Posts lacking a display URL
// or a tagged-user array are skipped and counted in the second result.
func ParseFeed(data []byte) ([]Post, int, error) {
	if !gjson.ValidBytes(data) {
		return nil, 0, &FeedParseError{Reason: "malformed JSON"}
	}
	edges := gjson.GetBytes(data, timelineEdgesPath)
	if !edges.IsArray() {
		return nil, 0, &FeedParseError{Reason: "missing " + timelineEdgesPath}
	}

	var (
		posts   []Post
		skipped int
	)
	for _, edge := range edges.Array() {
		post, ok := parsePost(edge)
		if !ok {
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, skipped, nil
}

func parsePost(edge gjson.Result) (Post, bool) {
	display := edge.Get(displayURLPath)
	tagged := edge.Get(taggedEdgesPath)
	if display.Type != gjson.String || !tagged.IsArray() {
		return Post{}, false
	}

	edges := tagged.Array()
	post := Post{ImageURL: display.Str, Tagged: len(edges)}
	if loc := edge.Get(locationPath); loc.Type == gjson.String {
		post.Location = loc.Str
	}
	for _, t := range edges {
		name := t.Get(taggedNamePath)
		if name.Type == gjson.String && strings.TrimSpace(name.Str) != "" {
			post.TaggedNames = append(post.TaggedNames, name.Str)
		}
	}
	if text := edge.Get(captionTextPath); text.Type == gjson.String {
		post.Caption = text.Str
	}
	return post, true
}
