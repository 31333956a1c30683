// Package kv persists JSON documents under string keys.
//
// It mirrors the browser key-value storage the scorecard was first written
// against: whole collections are read and written as one value, with no
// transactions and last-write-wins semantics.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Keys of the persisted collections. They are shared with exported browser
// data and must not change.
const (
	VenuesKey          = "golfCoursesList"
	UserNameKey        = "parkGolfUserName"
	RecordsKey         = "golfGameRecords"
	GameStateKeyPrefix = "gameState_"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat key-value store of serialized values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// GameStateKey returns the key holding the in-progress round of a venue.
func GameStateKey(venueID string) string {
	return GameStateKeyPrefix + venueID
}

// GetJSON decodes the value stored under key into v, which must be a
// non-nil pointer. A missing key and a value that fails to decode are both
// reported as found == false with a nil error, and v is left untouched;
// the caller falls back to its default.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	dst := reflect.ValueOf(v)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return false, fmt.Errorf("kv get %q: destination must be a non-nil pointer, got %T", key, v)
	}

	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv get %q: %w", key, err)
	}

	// json.Unmarshal keeps filling after a type mismatch; decode into a
	// fresh value so a partial result never reaches the caller.
	fresh := reflect.New(dst.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		zap.L().Warn("discarding malformed stored value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	dst.Elem().Set(fresh.Elem())
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
