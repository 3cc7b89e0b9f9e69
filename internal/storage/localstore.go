package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LocalStore is the thin JSON-serializing wrapper the progress stores
// read and write through. It has no logic of its own beyond
// serialization and the malformed-data policy: a value that no longer
// decodes (corrupt cache, older app version) is treated as absent, not
// as a crash.
type LocalStore struct {
	kv KeyValue
}

// NewLocalStore wraps a KeyValue implementation.
func NewLocalStore(kv KeyValue) *LocalStore {
	return &LocalStore{kv: kv}
}

// Read decodes the value under key into out. ok is false when the key
// is absent or its value is malformed.
func (s *LocalStore) Read(ctx context.Context, key string, out any) (bool, error) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(value, out); err != nil {
		slog.Warn("discarding malformed cached value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Write encodes v as JSON under key.
func (s *LocalStore) Write(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value under key.
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	if err := s.kv.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// ReadPrefix decodes every well-formed value under the prefix into the
// returned map, skipping malformed entries.
func ReadPrefix[T any](ctx context.Context, s *LocalStore, prefix string) (map[string]T, error) {
	raw, err := s.kv.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}

	values := make(map[string]T, len(raw))
	for key, value := range raw {
		var decoded T
		if err := json.Unmarshal(value, &decoded); err != nil {
			slog.Warn("discarding malformed cached value", "key", key, "error", err)
			continue
		}
		values[key] = decoded
	}
	return values, nil
}
