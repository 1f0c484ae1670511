package core

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time. It is injected so tests control timestamps.
type Clock func() time.Time

// IDGenerator returns a new unique note identifier.
type IDGenerator func() (string, error)

// NewID returns a random (version 4) UUID drawn from crypto/rand.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Millis converts t to epoch milliseconds, the unit of Note.LastModified.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
