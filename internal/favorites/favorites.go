// Package favorites owns the persisted favorites set: full records, unique by
// resolved identity, most recently added first.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/resolve"
	"github.com/rcliao/movie-dashboard/internal/store"
)

// Listener is notified with the new set after every mutation.
type Listener func(favorites []model.Record)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "favorites").Logger()
	}
}

// Store is the favorites set. Every mutation is written through to the KV
// immediately.
type Store struct {
	mu        sync.Mutex
	kv        store.KV
	items     []model.Record
	listeners map[int]Listener
	nextSub   int
	log       zerolog.Logger
}

// Load reads the persisted set. Absent or corrupt values yield an empty set;
// entries that are not objects are dropped.
func Load(ctx context.Context, kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		listeners: make(map[int]Listener),
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	raw, ok := store.DecodeJSON[[]any](ctx, kv, store.KeyFavorites)
	if !ok {
		s.log.Debug().Msg("no usable persisted favorites, starting empty")
		return s
	}
	for _, entry := range raw {
		if rec, ok := entry.(map[string]any); ok {
			s.items = append(s.items, rec)
		}
	}
	return s
}

// idOf accepts either a raw identity string or a record to resolve.
func idOf(recordOrID any) string {
	switch v := recordOrID.(type) {
	case string:
		return v
	case model.Record:
		return resolve.ID(v)
	}
	return ""
}

// List returns a copy of the set, most recently added first.
func (s *Store) List() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Record(nil), s.items...)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsFavorite reports whether some stored entry resolves to the same identity
// as recordOrID (a model.Record or an identity string).
func (s *Store) IsFavorite(recordOrID any) bool {
	id := idOf(recordOrID)
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Get returns the stored record with the given identity.
func (s *Store) Get(id string) (model.Record, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return nil, false
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.items {
		if resolve.ID(r) == id {
			return i
		}
	}
	return -1
}

// Toggle prepends rec when no entry shares its identity, otherwise removes
// every entry with that identity. Records without an identity are ignored.
// It reports whether rec is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, rec model.Record) (bool, error) {
	id := resolve.ID(rec)
	if id == "" {
		return false, nil
	}

	s.mu.Lock()
	added := s.indexOf(id) < 0
	if added {
		s.items = append([]model.Record{rec}, s.items...)
	} else {
		s.items = without(s.items, id)
	}
	err := s.persistLocked(ctx)
	snapshot := append([]model.Record(nil), s.items...)
	s.mu.Unlock()

	s.notify(snapshot)
	return added, err
}

// Remove deletes every entry matching recordOrID's identity. Empty
// identities are ignored. It reports whether anything was removed.
func (s *Store) Remove(ctx context.Context, recordOrID any) (bool, error) {
	id := idOf(recordOrID)
	if id == "" {
		return false, nil
	}

	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.items = without(s.items, id)
	err := s.persistLocked(ctx)
	snapshot := append([]model.Record(nil), s.items...)
	s.mu.Unlock()

	s.notify(snapshot)
	return true, err
}

// Clear empties the set unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(nil)
	return err
}

// Import prepends the records whose identity is not yet present, keeping
// their relative order. Records without an identity and duplicates within
// recs are skipped. It returns the number of records added.
func (s *Store) Import(ctx context.Context, recs []model.Record) (int, error) {
	s.mu.Lock()
	seen := make(map[string]bool, len(s.items))
	for _, r := range s.items {
		seen[resolve.ID(r)] = true
	}
	var added []model.Record
	for _, r := range recs {
		id := resolve.ID(r)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		added = append(added, r)
	}
	if len(added) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.items = append(added, s.items...)
	err := s.persistLocked(ctx)
	snapshot := append([]model.Record(nil), s.items...)
	s.mu.Unlock()

	s.notify(snapshot)
	return len(added), err
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

func (s *Store) notify(snapshot []model.Record) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []model.Record{}
	}
	if err := store.EncodeJSON(ctx, s.kv, store.KeyFavorites, items); err != nil {
		s.log.Error().Err(err).Int("count", len(items)).Msg("persist favorites")
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

func without(items []model.Record, id string) []model.Record {
	out := make([]model.Record, 0, len(items))
	for _, r := range items {
		if resolve.ID(r) != id {
			out = append(out, r)
		}
	}
	return out
}
