// Package storage serializes the task collection to and from the local
// key-value store.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/nonce-firewall/taskflow/internal/kv"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// CollectionKey is the fixed key the serialized collection lives under.
const CollectionKey = "tasks"

// Adapter persists the full task collection as one JSON blob. Saves are
// full-overwrite, last-write-wins; there is no incremental update.
type Adapter struct {
	kv *kv.Store
}

// NewAdapter wraps an open key-value store.
func NewAdapter(store *kv.Store) *Adapter {
	return &Adapter{kv: store}
}

// Load reads and parses the stored collection. A missing key or corrupt
// payload yields an empty collection, never an error: the store has no
// schema versioning, so unreadable data is treated as absent.
func (a *Adapter) Load() []*task.Task {
	data, ok, err := a.kv.Get(CollectionKey)
	if err != nil || !ok {
		return nil
	}

	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}

// Save serializes and writes the full collection, replacing prior content.
// Write failures are returned so the caller can surface a warning.
func (a *Adapter) Save(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}
	if err := a.kv.Set(CollectionKey, data); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	return nil
}
