package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is an in-process keyed mutex used when Redis is disabled
type MemoryLocker struct {
	mu    sync.Mutex
	items map[string]*memoryLock
	wait  time.Duration
}

type memoryLock struct {
	// buffered with capacity one; holding the token means holding the lock
	ch      chan struct{}
	waiters int
}

// NewMemoryLocker creates a new in-memory locker; a positive wait bounds each Lock call
func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		items: make(map[string]*memoryLock),
		wait:  wait,
	}
}

// Lock blocks until key is free, ctx is done or the wait time elapses
func (ml *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	if ml.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ml.wait)
		defer cancel()
	}

	ml.mu.Lock()
	item, exists := ml.items[key]
	if !exists {
		item = &memoryLock{ch: make(chan struct{}, 1)}
		ml.items[key] = item
	}
	item.waiters++
	ml.mu.Unlock()

	select {
	case item.ch <- struct{}{}:
	case <-ctx.Done():
		ml.forget(key, item)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-item.ch
			ml.forget(key, item)
		})
	}, nil
}

// forget drops the entry once nobody is waiting on or holding it
func (ml *MemoryLocker) forget(key string, item *memoryLock) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	item.waiters--
	if item.waiters == 0 {
		delete(ml.items, key)
	}
}

// Len returns the number of keys currently held or awaited
func (ml *MemoryLocker) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.items)
}
