// Package sanitize cleans user-written text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxReviewLength caps a stored review, counted in runes.
const MaxReviewLength = 2000

// Reviewer strips all markup from order reviews. Safe for concurrent use.
type Reviewer struct {
	policy *bluemonday.Policy
}

func NewReviewer() *Reviewer {
	return &Reviewer{policy: bluemonday.StrictPolicy()}
}

// Review returns plain text: tags removed, entities decoded, whitespace
// trimmed, truncated to MaxReviewLength. An empty result means the review had
// no text content.
func (r *Reviewer) Review(raw string) string {
	clean := html.UnescapeString(r.policy.Sanitize(raw))
	clean = strings.TrimSpace(clean)

	if runes := []rune(clean); len(runes) > MaxReviewLength {
		clean = strings.TrimSpace(string(runes[:MaxReviewLength]))
	}
	return clean
}
