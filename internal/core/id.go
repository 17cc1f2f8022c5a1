package core

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for records submitted without one.
type IDGenerator func() string

// Clock returns the current instant.
type Clock func() time.Time

// NewUUID returns a random (version 4) UUID in canonical form.
func NewUUID() string {
	return uuid.NewString()
}

// UTCNow is the default Clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}
