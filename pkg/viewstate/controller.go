// Package viewstate is the reconciliation engine at the center of wordbook.
//
// A Controller owns the view of one word list at a time: the raw lines, the
// active search filter and shuffle permutation, and the current page. It
// reconciles three inputs into that view: the text blob (through the
// cache-aside loader), the persisted bookmark for the current viewer, and
// live user actions. Every mutation re-derives the visible order with
// [project.Project] instead of patching state incrementally, which keeps the
// ordering rules auditable.
//
// One load cycle runs per (resource path, identity) combination:
//
//	Loading -> TextReady -> BookmarkReady -> Ready
//
// The bookmark's search and shuffle fields are applied to state before the
// one-time word-index-to-page reconciliation, because the bookmark itself
// decides what is visible. Reconciliation runs exactly once per cycle; later
// page-size or view changes never re-derive the page from the bookmark.
//
// Results of superseded loads are discarded on arrival: each cycle captures
// a generation number at request start and checks it before applying
// anything, so a slow stale fetch can never overwrite fresher state.
// Bookmark saves are fire-and-forget; failures are logged and the next
// successful save reconciles the store.
package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wordbookapp/wordbook/pkg/blob"
	"github.com/wordbookapp/wordbook/pkg/identity"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/paginate"
	"github.com/wordbookapp/wordbook/pkg/project"
	"github.com/wordbookapp/wordbook/pkg/store"
	"github.com/wordbookapp/wordbook/pkg/textcache"
)

// Phase is the observable load state of the controller. Intermediate phases
// are meant to be rendered as loading states, never as a flash of stale or
// default content.
type Phase int

const (
	// PhaseIdle means no resource has been opened yet.
	PhaseIdle Phase = iota
	// PhaseLoading means the text blob is being fetched.
	PhaseLoading
	// PhaseTextReady means raw lines are available, bookmark still loading.
	PhaseTextReady
	// PhaseBookmarkReady means the bookmark's filter and shuffle have been
	// applied, page reconciliation pending.
	PhaseBookmarkReady
	// PhaseReady means the view is fully reconciled and interactive.
	PhaseReady
	// PhaseNotFound means the resource does not exist for this viewer.
	PhaseNotFound
	// PhaseAccessDenied means the backend refused to serve the resource to
	// this viewer; signing in as the owner may resolve it.
	PhaseAccessDenied
	// PhaseFailed means the load failed terminally for this attempt.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseTextReady:
		return "text-ready"
	case PhaseBookmarkReady:
		return "bookmark-ready"
	case PhaseReady:
		return "ready"
	case PhaseNotFound:
		return "not-found"
	case PhaseAccessDenied:
		return "access-denied"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config carries the controller's injected collaborators.
type Config struct {
	Texts    *textcache.Loader
	Stores   store.Selector
	Identity identity.Provider

	// Rand feeds Shuffle. Nil selects a crypto-seeded source.
	Rand *project.Rand
	// Clock stamps bookmark saves. Nil selects time.Now.
	Clock func() time.Time

	Logger zerolog.Logger
}

// Controller reconciles one word-list view. Methods are safe for concurrent
// use; all state sits behind one mutex and asynchronous results re-acquire
// it before applying.
type Controller struct {
	cfg   Config
	clock func() time.Time
	rand  *project.Rand
	log   zerolog.Logger

	mu sync.Mutex

	// gen identifies the current load cycle; async results carrying an
	// older value are discarded on arrival.
	gen uint64

	id         identity.Identity
	idObserved bool
	// suppressPageSave swallows exactly the next page-state save after an
	// identity transition (and the very first one after mount), so the
	// swap itself can never clobber a bookmark belonging to a different
	// identity context with a spurious page-0 write.
	suppressPageSave bool

	bookmarks store.BookmarkStore

	path    string
	phase   Phase
	failure error

	rawLines  []string
	search    string
	shuffle   []int
	pageSize  int
	pageIndex int

	bookmarksLoaded bool
	pageReconciled  bool

	loads sync.WaitGroup
	saves sync.WaitGroup
}

// New constructs a controller. The identity is unobserved until the first
// SetIdentity (usually delivered through Run); saves stay suppressed until
// one tick after that.
func New(cfg Config) (*Controller, error) {
	if cfg.Texts == nil {
		return nil, errors.New("viewstate: Texts is required")
	}
	if cfg.Stores == nil {
		return nil, errors.New("viewstate: Stores is required")
	}
	if cfg.Identity == nil {
		return nil, errors.New("viewstate: Identity is required")
	}

	c := &Controller{
		cfg:              cfg,
		clock:            cfg.Clock,
		rand:             cfg.Rand,
		log:              cfg.Logger,
		suppressPageSave: true,
		bookmarks:        cfg.Stores(models.UserID{}),
		phase:            PhaseIdle,
		pageSize:         models.DefaultPageSize,
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.rand == nil {
		c.rand = project.NewRand()
	}
	return c, nil
}

// Run consumes identity notifications until ctx is done. It blocks; callers
// usually start it in its own goroutine.
func (c *Controller) Run(ctx context.Context) {
	for id := range c.cfg.Identity.Watch(ctx) {
		c.SetIdentity(ctx, id)
	}
}

// SetIdentity applies an identity notification. A changed identity swaps
// the bookmark backend, suppresses the next page-state save, and reloads
// the open resource under the new viewer.
func (c *Controller) SetIdentity(ctx context.Context, id identity.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idObserved && id == c.id {
		return
	}
	if !c.idObserved && id == c.id {
		// First observation confirming the assumed identity: nothing to
		// reload, the mount-time suppression is already armed.
		c.idObserved = true
		return
	}

	c.log.Debug().
		Stringer("from", c.id).
		Stringer("to", id).
		Msg("identity changed")

	c.idObserved = true
	c.id = id
	c.suppressPageSave = true
	c.bookmarks = c.cfg.Stores(id.UserID)
	if c.path != "" {
		c.beginLoadLocked(ctx)
	}
}

// Open loads the word list at resourcePath for the current identity.
func (c *Controller) Open(ctx context.Context, resourcePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = resourcePath
	c.beginLoadLocked(ctx)
}

// beginLoadLocked starts a fresh load cycle, invalidating any in-flight one.
func (c *Controller) beginLoadLocked(ctx context.Context) {
	c.gen++
	gen := c.gen
	c.phase = PhaseLoading
	c.failure = nil
	c.rawLines = nil
	c.search = ""
	c.shuffle = nil
	c.pageIndex = 0
	c.bookmarksLoaded = false
	c.pageReconciled = false

	path := c.path
	id := c.id
	bookmarks := c.bookmarks

	c.loads.Add(1)
	go func() {
		defer c.loads.Done()
		c.loadCycle(ctx, gen, path, id, bookmarks)
	}()
}

func (c *Controller) loadCycle(ctx context.Context, gen uint64, path string, id identity.Identity, bookmarks store.BookmarkStore) {
	res, err := c.cfg.Texts.Load(ctx, path)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug().Str("path", path).Msg("discarding stale text load")
		return
	}
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) && ownsResource(id, path) {
			// The viewer's own list does not exist yet: start empty
			// rather than erroring, the first edit will create it.
			res = textcache.Result{}
		} else {
			switch {
			case errors.Is(err, blob.ErrNotFound):
				c.phase = PhaseNotFound
			case errors.Is(err, blob.ErrAccessDenied):
				c.phase = PhaseAccessDenied
			default:
				c.phase = PhaseFailed
			}
			c.failure = err
			c.mu.Unlock()
			c.log.Warn().Err(err).Str("path", path).Msg("text load failed")
			return
		}
	}
	c.rawLines = project.SplitLines(res.Text)
	c.phase = PhaseTextReady
	c.mu.Unlock()

	bm, err := bookmarks.Load(ctx, path)
	loadFailed := err != nil
	if err != nil {
		// Degraded but usable: fall back to defaults, keep the view up.
		c.log.Warn().Err(err).Str("path", path).Msg("bookmark load failed, using defaults")
		bm = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug().Str("path", path).Msg("discarding stale bookmark load")
		return
	}

	if bm == nil {
		bm = models.DefaultBookmark(id.UserID, path)
		if !loadFailed {
			// Persist the default anchor once so a returning viewer loads a
			// stable record instead of re-discovering absence. Only confirmed
			// absence writes: after a failed load the stored record may still
			// exist, and a fresh default would beat it under last-write-wins.
			c.persistLocked(bm.WordIndex, "", nil)
		}
	}

	// The bookmark's filter and shuffle decide what is visible, so they
	// are applied before the word index is turned into a page.
	c.search = bm.SearchQuery
	if bm.Shuffled() {
		c.shuffle = bm.ShuffleIndices
	} else {
		c.shuffle = nil
	}
	c.bookmarksLoaded = true
	c.phase = PhaseBookmarkReady

	order := c.viewOrderLocked()
	if len(order) == 0 {
		c.pageIndex = 0
	} else {
		wordIndex := clamp(bm.WordIndex, 0, len(order)-1)
		p := paginate.Paginate(len(order), c.pageSize, wordIndex/c.pageSize)
		c.pageIndex = p.SafeIndex
	}
	c.pageReconciled = true
	c.phase = PhaseReady
}

func (c *Controller) viewOrderLocked() []int {
	return project.Project(c.rawLines, c.search, c.shuffle)
}

// SetSearch applies a new search query. Any active shuffle is cleared: a
// permutation recorded under a different visible set is stale once the
// filter changes.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.search = query
	c.shuffle = nil
	c.pageIndex = 0
	if c.saveAllowedLocked() {
		c.persistLocked(0, query, nil)
	}
}

// Shuffle permutes the currently visible lines. The permutation is always
// re-derived from the natural filtered order, never layered on a previous
// one.
func (c *Controller) Shuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := project.Project(c.rawLines, c.search, nil)
	c.shuffle = project.Shuffle(base, c.rand)
	c.pageIndex = 0
	if c.saveAllowedLocked() {
		c.persistLocked(0, c.search, c.shuffle)
	}
}

// ClearShuffle restores natural order. The persisted record stores an
// explicit empty list, distinguishing "actively cleared" from "never
// shuffled"; both read back as no shuffle.
func (c *Controller) ClearShuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shuffle = nil
	c.pageIndex = 0
	if c.saveAllowedLocked() {
		c.persistLocked(0, c.search, []int{})
	}
}

// SetPageSize switches to one of the offered page lengths and returns to
// the first page. Unknown sizes are ignored.
func (c *Controller) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !models.ValidPageSize(size) {
		c.log.Warn().Int("size", size).Msg("ignoring page size outside the offered set")
		return
	}
	c.pageSize = size
	c.pageIndex = 0
	c.persistPageStateLocked()
}

// NextPage advances one page, wrapping to the first past the end.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepPageLocked(1)
}

// PrevPage steps back one page, wrapping to the last before the start.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepPageLocked(-1)
}

func (c *Controller) stepPageLocked(delta int) {
	order := c.viewOrderLocked()
	p := paginate.Paginate(len(order), c.pageSize, c.pageIndex)
	if p.TotalPages <= 1 {
		c.pageIndex = 0
	} else {
		c.pageIndex = (p.SafeIndex + delta + p.TotalPages) % p.TotalPages
	}
	c.persistPageStateLocked()
}

// JumpTo moves directly to a page index, clamped into range.
func (c *Controller) JumpTo(pageIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := c.viewOrderLocked()
	p := paginate.Paginate(len(order), c.pageSize, pageIndex)
	c.pageIndex = p.SafeIndex
	c.persistPageStateLocked()
}

func (c *Controller) saveAllowedLocked() bool {
	return c.bookmarksLoaded && c.pageReconciled
}

// persistPageStateLocked is the save path shared by page navigation and
// page-size changes. It is the only one subject to identity-transition
// suppression; explicit search/shuffle actions carry clear user intent and
// save through persistLocked directly.
func (c *Controller) persistPageStateLocked() {
	if !c.saveAllowedLocked() {
		return
	}
	if c.suppressPageSave {
		c.suppressPageSave = false
		c.log.Debug().Msg("suppressing page-state save on identity transition")
		return
	}

	c.persistLocked(c.pageIndex*c.pageSize, c.search, c.shuffle)
}

// persistLocked fires an asynchronous full-record bookmark save. The write
// timestamp is taken now, at save-call time, so the store's last-write-wins
// policy reflects action order even when saves arrive out of order.
func (c *Controller) persistLocked(wordIndex int, query string, shuffle []int) {
	b := &models.Bookmark{
		Owner:          c.id.UserID,
		ResourcePath:   c.path,
		WordIndex:      wordIndex,
		UpdatedAt:      c.clock().UTC(),
		SearchQuery:    query,
		ShuffleIndices: shuffle,
	}
	bookmarks := c.bookmarks
	log := c.log

	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		if err := bookmarks.Save(context.Background(), b); err != nil {
			log.Warn().Err(err).Str("path", b.ResourcePath).Msg("bookmark save failed")
		}
	}()
}

// Wait blocks until in-flight loads and saves settle. Tests and the CLI use
// it; interactive embeddings never need to.
func (c *Controller) Wait() {
	c.loads.Wait()
	c.saves.Wait()
}

func ownsResource(id identity.Identity, path string) bool {
	if id.Guest() {
		// Guests only ever address their own local lists.
		return true
	}
	return models.PathOwner(path) == id.UserID
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
