// Package caption extracts candidate person names from free-form post captions.
package caption

import "strings"

const (
	// withMarker must appear in the lower-cased caption for a hashtag to be
	// read as the name of someone pictured.
	withMarker = "with "

	hashtag = "#"
)

// HashtagCandidate returns the first hashtag in text that could name a person
// photographed "with" the author. The caption is lower-cased and split on
// single spaces; tokens without a '#' or containing a '.' are dropped. Only the
// first '#' is removed from the chosen token; the text around it is kept.
func HashtagCandidate(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, withMarker) {
		return "", false
	}
	for _, tok := range strings.Split(lower, " ") {
		if !strings.Contains(tok, hashtag) || strings.Contains(tok, ".") {
			continue
		}
		name := strings.TrimSpace(strings.Replace(tok, hashtag, "", 1))
		if name == "" {
			return "", false
		}
		return name, true
	}
	return "", false
}
