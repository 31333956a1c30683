package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/parkgolf/models"
)

// BunStore keeps values in the kv_entries table.
type BunStore struct {
	db *bun.DB
}

// NewBunStore returns a Store backed by db. The table must exist; see db.CreateTables.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry := &models.KVEntry{}
	err := s.db.NewSelect().Model(entry).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *BunStore) Set(ctx context.Context, key string, value []byte) error {
	entry := &models.KVEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	_, err := s.db.NewInsert().Model(entry).
		On("CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().Model((*models.KVEntry)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return err
}

func (s *BunStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.NewSelect().
		TableExpr("kv_entries").
		ColumnExpr("key").
		Where("strpos(key, ?) = 1", prefix).
		OrderExpr("key ASC").
		Scan(ctx, &keys)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return keys, nil
}
