package lock

import (
	"context"
	"sync"
	"time"
)

// InMemoryLocker holds locks in process memory. It only guards a single instance.
type InMemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewInMemoryLocker creates an in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

// TryLock obtains key for ttl unless an unexpired holder exists
func (l *InMemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiresAt, ok := l.held[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}
