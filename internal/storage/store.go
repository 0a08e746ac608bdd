// Package storage defines the durable record store the progression engine
// persists to. Each piece of state lives in one named record.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Fixed record keys.
const (
	SessionKey = "session"
	QueueKey   = "sync_queue"
)

// Store reads and writes whole records by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
