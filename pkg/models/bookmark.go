package models

import (
	"time"
)

// PageSizes is the enumerated set of page lengths the viewer offers.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is used when no explicit size has been chosen.
const DefaultPageSize = 20

// ValidPageSize reports whether size is one of the offered page lengths.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Bookmark is the persisted resume point for one viewer on one word list.
//
// WordIndex is an offset into the current view order (the filtered, possibly
// shuffled sequence of line positions), not into raw line positions.
// UpdatedAt arbitrates between multiple physical records for the same
// resource path: the greatest timestamp wins.
//
// Optional fields are always written explicitly (an empty SearchQuery, a
// null or empty ShuffleIndices) rather than omitted, so a stored record can
// never be read back with ambiguous partial-update semantics. A nil
// ShuffleIndices and an empty one both read back as "no shuffle"; the empty
// list is written after an explicit shuffle clear, the null only before any
// shuffle was ever set.
type Bookmark struct {
	ID             BookmarkID `json:"id,omitempty" cbor:"id,omitempty"`
	Owner          UserID     `json:"owner" cbor:"owner"`
	ResourcePath   string     `json:"resource_path" cbor:"resource_path"`
	WordIndex      int        `json:"word_index" cbor:"word_index"`
	UpdatedAt      time.Time  `json:"updated_at" cbor:"updated_at"`
	SearchQuery    string     `json:"search_query" cbor:"search_query"`
	ShuffleIndices []int      `json:"shuffle_indices" cbor:"shuffle_indices"`
}

// Shuffled reports whether the bookmark carries an active shuffle
// permutation.
func (b *Bookmark) Shuffled() bool {
	return len(b.ShuffleIndices) > 0
}

// DefaultBookmark returns the bookmark used when a viewer has never visited
// a resource: first word, no filter, no shuffle.
func DefaultBookmark(owner UserID, resourcePath string) *Bookmark {
	return &Bookmark{
		Owner:        owner,
		ResourcePath: resourcePath,
	}
}

// Document is the raw text blob of one word list, replaced wholesale on
// every load. FreshnessToken is an opaque value from the storage backend
// (a last-modified timestamp in both shipped backends) compared verbatim by
// the text cache.
type Document struct {
	ResourcePath   string `json:"resource_path" cbor:"resource_path"`
	Content        string `json:"content" cbor:"content"`
	FreshnessToken string `json:"freshness_token" cbor:"freshness_token"`
}
