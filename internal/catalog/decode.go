package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/nsrpc/nsrpc/internal/domain"
)

// rawTitle mirrors one catalog entry; pointers detect missing fields
type rawTitle struct {
	Title *string `json:"title"`
	Img   *string `json:"img"`
}

// Decode parses a catalog payload and validates its shape: a JSON array of
// {"title": string, "img": string} objects with unique, non-empty titles.
// Any violation is reported as domain.ErrInvalidPayload.
func Decode(data []byte) ([]domain.Title, error) {
	var raw []rawTitle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: catalog is not an array", domain.ErrInvalidPayload)
	}

	titles := make([]domain.Title, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		if r.Title == nil || *r.Title == "" {
			return nil, fmt.Errorf("%w: entry %d has no title", domain.ErrInvalidPayload, i)
		}
		if r.Img == nil {
			return nil, fmt.Errorf("%w: entry %d (%q) has no img", domain.ErrInvalidPayload, i, *r.Title)
		}
		if seen[*r.Title] {
			return nil, fmt.Errorf("%w: duplicate title %q", domain.ErrInvalidPayload, *r.Title)
		}
		seen[*r.Title] = true
		titles = append(titles, domain.Title{Name: *r.Title, Artwork: *r.Img})
	}
	return titles, nil
}
