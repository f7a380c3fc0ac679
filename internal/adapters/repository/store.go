// Package repository persists matches and settings behind a key-value store.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// KV is a raw byte store. Every Put is atomic for readers.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MatchStore keeps whole match collections as JSON documents.
// Writes are last-writer-wins.
type MatchStore struct {
	kv  KV
	log logger.Logger
}

// NewMatchStore wraps kv.
func NewMatchStore(kv KV, opts ...StoreOption) *MatchStore {
	s := &MatchStore{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("store")
	}
	return s
}

// Load returns the collection under key, or an empty one if the key is
// absent.
func (s *MatchStore) Load(ctx context.Context, key string) ([]model.Match, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("load", msSince(start)) }()

	var matches []model.Match
	ok, err := GetJSON(ctx, s.kv, key, &matches)
	if err != nil {
		metrics.RecordStoreError("load")
		s.log.Error(ctx, "load matches", logger.String("key", key), logger.Error(err))
		return nil, err
	}
	if !ok || matches == nil {
		return []model.Match{}, nil
	}
	for i := range matches {
		if matches[i].Events == nil {
			matches[i].Events = []model.Event{}
		}
		if matches[i].Players == nil {
			matches[i].Players = []model.Player{}
		}
	}
	return matches, nil
}

// Save replaces the collection under key.
func (s *MatchStore) Save(ctx context.Context, key string, matches []model.Match) error {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("save", msSince(start)) }()

	if matches == nil {
		matches = []model.Match{}
	}
	if err := PutJSON(ctx, s.kv, key, matches); err != nil {
		metrics.RecordStoreError("save")
		s.log.Error(ctx, "save matches", logger.String("key", key), logger.Error(err))
		return err
	}
	s.log.Debug(ctx, "saved matches", logger.String("key", key), logger.Int("count", len(matches)))
	return nil
}

// GetJSON decodes the value under key into out. It reports whether the key
// existed.
func GetJSON(ctx context.Context, kv KV, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Put(ctx, key, raw)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
