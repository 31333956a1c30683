// Package backup moves data between the key-value store and a browser
// localStorage dump: a JSON object mapping storage keys to their string
// values.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

// Summary counts what an import wrote.
type Summary struct {
	Venues     int
	UserName   bool
	GameStates int
	Records    int
	// Skipped lists keys that were unknown or failed to decode.
	Skipped []string
}

// Import reads a dump from r and writes every recognised key to store.
// Values are decoded into the current data model before they are written,
// so stored scores and names come out normalised. Entries that fail to
// decode are skipped with a warning.
func Import(ctx context.Context, store kv.Store, r io.Reader, log *zap.Logger) (Summary, error) {
	var dump map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return Summary{}, fmt.Errorf("read dump: %w", err)
	}

	keys := make([]string, 0, len(dump))
	for k := range dump {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum Summary
	for _, key := range keys {
		raw := unwrap(dump[key])

		var (
			value     any
			decodeErr error
			count     func()
		)
		switch {
		case key == kv.VenuesKey:
			var venues []models.Venue
			decodeErr = json.Unmarshal(raw, &venues)
			value, count = venues, func() { sum.Venues = len(venues) }
		case key == kv.UserNameKey:
			if name := userName(raw); name != "" {
				value, count = name, func() { sum.UserName = true }
			}
		case key == kv.RecordsKey:
			var list []models.GameRecord
			decodeErr = json.Unmarshal(raw, &list)
			value, count = list, func() { sum.Records = len(list) }
		case strings.HasPrefix(key, kv.GameStateKeyPrefix):
			var state models.GameState
			decodeErr = json.Unmarshal(raw, &state)
			value, count = state, func() { sum.GameStates++ }
		default:
			sum.Skipped = append(sum.Skipped, key)
			continue
		}

		if decodeErr != nil {
			log.Warn("skipping malformed entry", zap.String("key", key), zap.Error(decodeErr))
			sum.Skipped = append(sum.Skipped, key)
			continue
		}

		var err error
		if value == nil {
			err = store.Delete(ctx, key)
		} else {
			err = kv.SetJSON(ctx, store, key, value)
		}
		if err != nil {
			return sum, fmt.Errorf("import %s: %w", key, err)
		}
		if count != nil {
			count()
		}
		log.Debug("imported key", zap.String("key", key))
	}
	return sum, nil
}

// Dump writes every stored key as a localStorage dump to w. Values are
// emitted as strings, the way the browser keeps them.
func Dump(ctx context.Context, store kv.Store, w io.Writer) (int, error) {
	keys, err := store.Keys(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		raw, err := store.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", key, err)
		}
		if key == kv.UserNameKey {
			out[key] = userName(raw)
			continue
		}
		out[key] = string(raw)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("write dump: %w", err)
	}
	return len(out), nil
}

// unwrap returns the text of a JSON string value, or raw itself when the
// value is already structured JSON.
func unwrap(raw json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s)
	}
	return raw
}

// userName accepts both the bare text the browser stores and a JSON
// string.
func userName(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(bytes.TrimSpace(raw))
}
