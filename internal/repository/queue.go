package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/storage"
)

// QueueRepository stores pending sync actions as one JSON array under the
// fixed queue key.
type QueueRepository struct {
	store storage.Store
}

// NewQueueRepository creates a new QueueRepository over the store.
func NewQueueRepository(store storage.Store) *QueueRepository {
	return &QueueRepository{store: store}
}

// Load returns the pending actions in insertion order. A missing record is an
// empty queue. Entries that fail validation are dropped and counted in
// skipped; a record that is not a JSON array yields ErrCorruptRecord.
func (r *QueueRepository) Load(ctx context.Context) (actions []entities.SyncAction, skipped int, err error) {
	data, err := r.store.Get(ctx, storage.QueueKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("get queue: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: queue: %v", ErrCorruptRecord, err)
	}

	actions = make([]entities.SyncAction, 0, len(raw))
	for _, item := range raw {
		var action entities.SyncAction
		if err := json.Unmarshal(item, &action); err != nil {
			skipped++
			continue
		}
		actions = append(actions, action)
	}

	return actions, skipped, nil
}

// Save overwrites the queue record.
func (r *QueueRepository) Save(ctx context.Context, actions []entities.SyncAction) error {
	if actions == nil {
		actions = []entities.SyncAction{}
	}

	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}

	if err := r.store.Put(ctx, storage.QueueKey, data); err != nil {
		return fmt.Errorf("save queue: %w", err)
	}

	return nil
}

// Clear removes the queue record.
func (r *QueueRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.QueueKey); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}
