// Package cache provides the in-process caches used for record lookups
// and for suppressing redelivered events in the mirror worker.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the subset of LRUCache that callers depend on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches with expiring entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically purges expired entries from registered caches.
type Janitor struct {
	caches   []Cleaner
	interval time.Duration
}

func NewJanitor(interval time.Duration, caches ...Cleaner) *Janitor {
	return &Janitor{caches: caches, interval: interval}
}

// Run blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := 0
			for _, c := range j.caches {
				removed += c.CleanExpired()
			}
			if removed > 0 {
				slog.DebugContext(ctx, "Purged expired cache entries", "count", removed)
			}
		}
	}
}
