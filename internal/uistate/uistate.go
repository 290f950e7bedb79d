// Package uistate owns the persisted dashboard view state: active tab,
// current page, search query and sort key.
package uistate

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/store"
)

// Listener is notified with the full state after every change.
type Listener func(state model.UIState)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "uistate").Logger()
	}
}

// Store holds the UI state. Any field change re-persists the whole state.
type Store struct {
	mu        sync.Mutex
	kv        store.KV
	state     model.UIState
	listeners map[int]Listener
	nextSub   int
	log       zerolog.Logger
}

// Load reads the persisted state, validating and defaulting each field
// independently. It never fails.
func Load(ctx context.Context, kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		listeners: make(map[int]Listener),
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	raw, _ := store.DecodeJSON[map[string]any](ctx, kv, store.KeyUIState)
	s.state = Parse(raw)
	return s
}

// Parse builds a valid UIState from a loosely-typed snapshot. Missing or
// invalid fields take their defaults.
func Parse(raw map[string]any) model.UIState {
	st := model.DefaultUIState()
	if tab, ok := raw["tab"].(string); ok && model.Tab(tab) == model.TabFavorites {
		st.Tab = model.TabFavorites
	}
	if page, ok := raw["page"].(float64); ok && page > 0 && page == math.Trunc(page) && page <= math.MaxInt32 {
		st.Page = int(page)
	}
	if q, ok := raw["query"].(string); ok {
		st.Query = q
	}
	if sort, ok := raw["sort"].(string); ok && model.ValidSortKeys[model.SortKey(sort)] {
		st.Sort = model.SortKey(sort)
	}
	return st
}

// State returns the current state.
func (s *Store) State() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetTab switches the active tab. Unknown tabs are rejected.
func (s *Store) SetTab(ctx context.Context, tab model.Tab) error {
	if !model.ValidTabs[tab] {
		return fmt.Errorf("invalid tab %q (valid: movies, favorites)", tab)
	}
	return s.update(ctx, func(st *model.UIState) { st.Tab = tab })
}

// SetPage sets the current page. Pages below 1 are rejected.
func (s *Store) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("invalid page %d: page must be >= 1", page)
	}
	return s.update(ctx, func(st *model.UIState) { st.Page = page })
}

// SetQuery sets the search query verbatim; trimming happens at match time.
func (s *Store) SetQuery(ctx context.Context, query string) error {
	return s.update(ctx, func(st *model.UIState) { st.Query = query })
}

// SetSort sets the sort key. Unknown keys are rejected.
func (s *Store) SetSort(ctx context.Context, key model.SortKey) error {
	if !model.ValidSortKeys[key] {
		return fmt.Errorf("invalid sort %q (valid: title_asc, title_desc, pop_asc, pop_desc)", key)
	}
	return s.update(ctx, func(st *model.UIState) { st.Sort = key })
}

// ResetFilters clears the query and restores the default sort.
func (s *Store) ResetFilters(ctx context.Context) error {
	return s.update(ctx, func(st *model.UIState) {
		st.Query = ""
		st.Sort = model.SortPopDesc
	})
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) update(ctx context.Context, mutate func(*model.UIState)) error {
	s.mu.Lock()
	mutate(&s.state)
	st := s.state
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	err := store.EncodeJSON(ctx, s.kv, store.KeyUIState, st)
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("persist ui state")
		err = fmt.Errorf("persist ui state: %w", err)
	}
	for _, fn := range fns {
		fn(st)
	}
	return err
}
