// Package storage provides the persistent key/value primitives the
// progress stores are built on.
package storage

import "context"

//go:generate mockgen -source=kv.go -destination=../mocks/storage/mock_kv.go -package=mock_storage KeyValue

// KeyValue is the abstract persistence contract: string keys, opaque
// byte values, plus a prefix scan so a "give me everything
// games-related" read is possible without a manifest.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}
