package core

import "context"

// Store is the key/value persistence substrate behind the note collection.
// A value is written as a whole; implementations must never expose a partially
// written value to a later Get.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Watchable is implemented by stores that can report changes made to a key
// by another process.
type Watchable interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// EventType represents the type of change observed on a key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
