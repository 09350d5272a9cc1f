package social_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// postJSON renders one timeline edge in the provider's wire shape. An empty
// location is omitted; a nil tagged slice renders an empty tagged-user array.
func postJSON(displayURL, location, captionText string, tagged ...string) string {
	var b strings.Builder
	b.WriteString(`{"node":{`)
	fmt.Fprintf(&b, `"display_url":%q,`, displayURL)
	if location != "" {
		fmt.Fprintf(&b, `"location":{"name":%q},`, location)
	} else {
		b.WriteString(`"location":null,`)
	}
	b.WriteString(`"edge_media_to_tagged_user":{"edges":[`)
	for i, name := range tagged {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"node":{"user":{"full_name":%q}}}`, name)
	}
	b.WriteString(`]},`)
	fmt.Fprintf(&b, `"edge_media_to_caption":{"edges":[{"node":{"text":%q}}]}`, captionText)
	b.WriteString(`}}`)
	return b.String()
}

// feedJSON wraps edges in the timeline document envelope.
func feedJSON(edges ...string) string {
	return `{"data":{"user":{"edge_owner_to_timeline_media":{"edges":[` + strings.Join(edges, ",") + `]}}}}`
}

// mapFetcher serves documents from memory and records which URLs were fetched.
type mapFetcher struct {
	mu     sync.Mutex
	docs   map[string]string
	errs   map[string]error
	block  map[string]bool
	called []string
}

func newMapFetcher() *mapFetcher {
	return &mapFetcher{
		docs:  make(map[string]string),
		errs:  make(map[string]error),
		block: make(map[string]bool),
	}
}

func (f *mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.called = append(f.called, url)
	doc, ok := f.docs[url]
	err := f.errs[url]
	block := f.block[url]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no document for %s", url)
	}
	return []byte(doc), nil
}
