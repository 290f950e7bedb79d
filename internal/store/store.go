// Package store provides the persisted key-value storage used by the
// dashboard and its SQLite implementation.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Persisted keys. Each holds one JSON-encoded value.
const (
	KeyRegisteredUser = "movieDashboard_registeredUser"
	KeySessionUser    = "movieDashboard_sessionUser"
	KeyFavorites      = "movieDashboard_favorites"
	KeyUIState        = "movieDashboard_uiState"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is the narrow storage interface the stores persist through.
// Writes are whole-value overwrites.
type KV interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store.
	Close() error
}

// DecodeJSON reads key and unmarshals it into a fresh T. It reports false
// when the value is absent, unreadable, null or malformed, returning the zero
// T. It never returns an error.
func DecodeJSON[T any](ctx context.Context, kv KV, key string) (T, bool) {
	var zero T
	raw, err := kv.Get(ctx, key)
	if err != nil || len(raw) == 0 || string(raw) == "null" {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}

// EncodeJSON marshals v and writes it under key.
func EncodeJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, b)
}
