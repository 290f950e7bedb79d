// Package dashboard orchestrates the catalog view: paged fetches with
// last-request-wins cancellation, page clamping, and the filtered, sorted
// visible list.
package dashboard

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rcliao/movie-dashboard/internal/favorites"
	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/provider"
	"github.com/rcliao/movie-dashboard/internal/uistate"
)

// Status is the fetch state of the controller.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// defaultErrorMessage is shown when a failure carries no message of its own.
const defaultErrorMessage = "failed to fetch movies"

// Snapshot is a consistent copy of everything the dashboard displays.
type Snapshot struct {
	Status     Status         `json:"status"      yaml:"status"`
	RequestID  string         `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	UI         model.UIState  `json:"ui"          yaml:"ui"`
	TotalPages int            `json:"total_pages" yaml:"total_pages"`
	Records    []model.Record `json:"-"           yaml:"-"`
	Visible    []model.Record `json:"-"           yaml:"-"`
	Favorites  int            `json:"favorites"   yaml:"favorites"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Err        error          `json:"-"           yaml:"-"`
}

// Loading reports whether a fetch is outstanding.
func (s Snapshot) Loading() bool { return s.Status == StatusLoading }

// Window returns the pager window for the snapshot's page.
func (s Snapshot) Window() PageWindow { return Window(s.UI.Page, s.TotalPages) }

// Listener is notified with a fresh snapshot after every state change.
type Listener func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l.With().Str("component", "dashboard").Logger()
	}
}

// fetch is one issued page request. Only the fetch referenced by
// Controller.inflight may commit its result.
type fetch struct {
	id      string
	page    int
	ctx     context.Context
	cancel  context.CancelFunc
	persist context.Context
}

// Controller is the single owner of the catalog state. All mutations happen
// under mu; fetches run on their own goroutines and commit back through it.
type Controller struct {
	mu       sync.Mutex
	provider provider.PageProvider
	ui       *uistate.Store
	favs     *favorites.Store
	log      zerolog.Logger
	entropy  *rand.Rand

	status     Status
	records    []model.Record
	totalPages int
	errMsg     string
	lastErr    error
	inflight   *fetch

	visible      []model.Record
	visibleDirty bool

	listeners map[int]Listener
	nextSub   int
	wg        sync.WaitGroup
}

// New creates an idle controller. Call Start to issue the first fetch.
func New(p provider.PageProvider, ui *uistate.Store, favs *favorites.Store, opts ...Option) *Controller {
	c := &Controller{
		provider:     p,
		ui:           ui,
		favs:         favs,
		log:          zerolog.Nop(),
		entropy:      rand.New(rand.NewSource(time.Now().UnixNano())),
		status:       StatusIdle,
		totalPages:   1,
		visibleDirty: true,
		listeners:    make(map[int]Listener),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start fetches the persisted current page.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.startFetchLocked(ctx, c.ui.State().Page)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Reload re-issues the fetch for the current page, superseding any pending one.
func (c *Controller) Reload(ctx context.Context) {
	c.Start(ctx)
}

// SetPage moves to page and fetches it. Pages below 1 become 1; pages past
// the last known page are clamped once the server reports its bound. Setting
// the current page again is a no-op unless nothing has been fetched yet.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	page = max(page, 1)

	c.mu.Lock()
	if page == c.ui.State().Page && c.status != StatusIdle {
		c.mu.Unlock()
		return nil
	}
	err := c.ui.SetPage(context.WithoutCancel(ctx), page)
	c.startFetchLocked(ctx, page)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return err
}

// NextPage advances one page when not already on the last page.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	cur, total := c.ui.State().Page, c.totalPages
	c.mu.Unlock()
	if cur >= total {
		return nil
	}
	return c.SetPage(ctx, cur+1)
}

// PrevPage goes back one page when not already on the first page.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	cur := c.ui.State().Page
	c.mu.Unlock()
	if cur <= 1 {
		return nil
	}
	return c.SetPage(ctx, cur-1)
}

// SetQuery updates the search query.
func (c *Controller) SetQuery(ctx context.Context, query string) error {
	return c.updateUI(func() error { return c.ui.SetQuery(ctx, query) })
}

// SetSort updates the sort key.
func (c *Controller) SetSort(ctx context.Context, key model.SortKey) error {
	return c.updateUI(func() error { return c.ui.SetSort(ctx, key) })
}

// SetTab switches the active tab.
func (c *Controller) SetTab(ctx context.Context, tab model.Tab) error {
	return c.updateUI(func() error { return c.ui.SetTab(ctx, tab) })
}

// ResetFilters clears the query and restores the default sort.
func (c *Controller) ResetFilters(ctx context.Context) error {
	return c.updateUI(func() error { return c.ui.ResetFilters(ctx) })
}

func (c *Controller) updateUI(apply func() error) error {
	c.mu.Lock()
	err := apply()
	c.visibleDirty = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return err
}

// Visible returns the filtered, sorted records of the loaded page.
func (c *Controller) Visible() []model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Record(nil), c.visibleLocked()...)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Favorites returns the favorites store the controller was built with.
func (c *Controller) Favorites() *favorites.Store { return c.favs }

// Subscribe registers fn for state change notifications and returns a
// function that unregisters it. Listeners run on the goroutine that caused
// the change.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Wait blocks until no fetch goroutine is running. A fetch issued while
// waiting (for example after a clamp) is waited for too.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels any pending fetch and waits for its goroutine to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.inflight != nil {
		c.inflight.cancel()
		c.inflight = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// startFetchLocked supersedes any pending fetch and issues a new one.
func (c *Controller) startFetchLocked(ctx context.Context, page int) {
	if prev := c.inflight; prev != nil {
		prev.cancel()
		c.log.Debug().Str("request_id", prev.id).Int("page", prev.page).Msg("fetch superseded")
	}

	fctx, cancel := context.WithCancel(ctx)
	f := &fetch{
		id:      ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String(),
		page:    page,
		ctx:     fctx,
		cancel:  cancel,
		persist: context.WithoutCancel(ctx),
	}
	c.inflight = f
	c.status = StatusLoading
	c.errMsg = ""
	c.lastErr = nil

	c.log.Debug().Str("request_id", f.id).Int("page", page).Msg("fetch started")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		pg, err := c.provider.FetchPage(f.ctx, f.page)
		c.commit(f, pg, err)
	}()
}

// commit applies a fetch result if, and only if, f is still the
// authoritative request and was not cancelled.
func (c *Controller) commit(f *fetch, page *model.Page, err error) {
	c.mu.Lock()
	if c.inflight != f || f.ctx.Err() != nil {
		c.mu.Unlock()
		c.log.Debug().Str("request_id", f.id).Int("page", f.page).Msg("dropping superseded fetch result")
		return
	}
	c.inflight = nil
	defer f.cancel()

	switch {
	case err != nil:
		c.status = StatusError
		c.lastErr = err
		c.errMsg = err.Error()
		if c.errMsg == "" {
			c.errMsg = defaultErrorMessage
		}
		c.log.Warn().Err(err).Str("request_id", f.id).Int("page", f.page).Msg("fetch failed")

	case page == nil:
		c.status = StatusError
		c.lastErr = errors.New(defaultErrorMessage)
		c.errMsg = defaultErrorMessage

	default:
		c.records = page.Records
		c.totalPages = max(page.TotalPages, 1)
		c.status = StatusLoaded
		c.visibleDirty = true
		c.log.Info().Str("request_id", f.id).Int("page", f.page).
			Int("total_pages", c.totalPages).Int("records", len(page.Records)).Msg("page loaded")

		cur := c.ui.State().Page
		if clamped := clamp(cur, 1, c.totalPages); clamped != cur {
			c.log.Info().Int("requested", cur).Int("clamped", clamped).Msg("page past server bound, clamping")
			if perr := c.ui.SetPage(f.persist, clamped); perr != nil {
				c.log.Error().Err(perr).Msg("persist clamped page")
			}
			c.startFetchLocked(f.persist, clamped)
		}
	}

	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) visibleLocked() []model.Record {
	if c.visibleDirty {
		st := c.ui.State()
		c.visible = Visible(c.records, st.Query, st.Sort)
		c.visibleDirty = false
	}
	return c.visible
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:     c.status,
		UI:         c.ui.State(),
		TotalPages: c.totalPages,
		Records:    append([]model.Record(nil), c.records...),
		Visible:    append([]model.Record(nil), c.visibleLocked()...),
		Error:      c.errMsg,
		Err:        c.lastErr,
	}
	if c.inflight != nil {
		s.RequestID = c.inflight.id
	}
	if c.favs != nil {
		s.Favorites = c.favs.Len()
	}
	return s
}

func (c *Controller) notify(snap Snapshot) {
	c.mu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
