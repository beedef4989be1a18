package viewstate

import (
	"github.com/wordbookapp/wordbook/pkg/identity"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/paginate"
)

// Snapshot is a stable copy of the controller's current view, safe to
// render without holding any lock.
type Snapshot struct {
	Phase        Phase
	ResourcePath string
	Identity     identity.Identity

	SearchQuery string
	Shuffled    bool

	PageSize   int
	PageIndex  int
	TotalPages int
	// WordIndex is the view-order offset of the first line on the current
	// page; what a bookmark save would record right now.
	WordIndex int
	// VisibleCount is the number of lines visible under the active filter.
	VisibleCount int

	// Lines is the current page of raw lines, in view order.
	Lines []string

	// Err is set for the terminal failure phases.
	Err error
}

// Snapshot derives the current view. The page slice is computed on demand
// from the view order; nothing here mutates controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:        c.phase,
		ResourcePath: c.path,
		Identity:     c.id,
		SearchQuery:  c.search,
		Shuffled:     c.shuffle != nil,
		PageSize:     c.pageSize,
		Err:          c.failure,
	}
	if c.phase != PhaseReady {
		return s
	}

	order := c.viewOrderLocked()
	page, p := paginate.Slice(order, c.pageSize, c.pageIndex)
	s.PageIndex = p.SafeIndex
	s.TotalPages = p.TotalPages
	s.VisibleCount = len(order)
	s.WordIndex = p.Start
	s.Lines = make([]string, len(page))
	for i, pos := range page {
		s.Lines[i] = c.rawLines[pos]
	}
	return s
}

// Words parses the snapshot's page lines into word records.
func (s Snapshot) Words() []models.Word {
	words := make([]models.Word, len(s.Lines))
	for i, line := range s.Lines {
		words[i] = models.ParseWord(line)
	}
	return words
}
