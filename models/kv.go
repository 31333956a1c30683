package models

import (
	"time"

	"github.com/uptrace/bun"
)

// KVEntry is one JSON document stored under a string key.
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	Key       string    `bun:"key,pk" json:"key"`
	Value     string    `bun:"value,type:text,notnull" json:"value"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
