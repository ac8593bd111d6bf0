package world

import (
	"errors"
	"time"
)

// ErrNotFound is returned by PersistentStore.Get for absent keys
var ErrNotFound = errors.New("key not found")

// PersistentStore is a JSON key/value store
type PersistentStore interface {
	// Get decodes the value stored at key into v
	Get(key string, v any) error
	Set(key string, v any) error
	Delete(key string) error
}

// AudioSink plays sound effects, fire and forget
type AudioSink interface {
	PlaySound(id string, volume float64)
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}
