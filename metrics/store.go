package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/padraicbc/parkgolf/kv"
)

type observedStore struct {
	next kv.Store
	m    *Metrics
}

// ObserveStore wraps s so every call is counted and timed.
// A miss on Get is counted as "not_found", not as an error.
func ObserveStore(s kv.Store, m *Metrics) kv.Store {
	if m == nil {
		return s
	}
	return &observedStore{next: s, m: m}
}

func (o *observedStore) Get(ctx context.Context, key string) ([]byte, error) {
	defer o.observe("get", time.Now())
	v, err := o.next.Get(ctx, key)
	o.count("get", err)
	return v, err
}

func (o *observedStore) Set(ctx context.Context, key string, value []byte) error {
	defer o.observe("set", time.Now())
	err := o.next.Set(ctx, key, value)
	o.count("set", err)
	return err
}

func (o *observedStore) Delete(ctx context.Context, key string) error {
	defer o.observe("delete", time.Now())
	err := o.next.Delete(ctx, key)
	o.count("delete", err)
	return err
}

func (o *observedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	defer o.observe("keys", time.Now())
	keys, err := o.next.Keys(ctx, prefix)
	o.count("keys", err)
	return keys, err
}

func (o *observedStore) observe(op string, start time.Time) {
	o.m.storeOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (o *observedStore) count(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, kv.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	o.m.storeOps.WithLabelValues(op, result).Inc()
}
