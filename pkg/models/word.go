package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldSeparator joins the fields of one word record on a line:
//
//	word | link | addedAt | order
//
// Trailing fields may be omitted; missing fields fall back to zero values.
const FieldSeparator = "|"

// Word is one parsed record of a word list.
type Word struct {
	Text    string
	Link    string
	AddedAt time.Time
	Order   int
}

// ParseWord splits one raw line into a word record. It never fails: a line
// with fewer fields is a word-only record, unparseable dates or orders fall
// back to zero. Search always runs against the raw line, not the parsed
// fields, so lossy parsing here cannot change search results.
func ParseWord(line string) Word {
	parts := strings.Split(line, FieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	w := Word{Text: parts[0]}
	if len(parts) > 1 {
		w.Link = parts[1]
	}
	if len(parts) > 2 {
		if t, err := time.Parse(time.RFC3339, parts[2]); err == nil {
			w.AddedAt = t
		}
	}
	if len(parts) > 3 {
		if n, err := strconv.Atoi(parts[3]); err == nil {
			w.Order = n
		}
	}
	return w
}

// Format renders the record back into its line form. Zero-valued trailing
// fields are still written so the line round-trips through ParseWord.
func (w Word) Format() string {
	added := ""
	if !w.AddedAt.IsZero() {
		added = w.AddedAt.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s %s %s %s %s %s %d",
		w.Text, FieldSeparator, w.Link, FieldSeparator, added, FieldSeparator, w.Order)
}
