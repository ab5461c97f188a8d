// Package keylock serializes stock mutations per (code, location) key.
// Go holds at most one in-flight mutation per key; a second caller waits up
// to the configured bound and then receives a Busy error instead of hanging.
package keylock

import (
	"context"
	"sort"
	"sync"
	"time"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
)

const DefaultWait = 3 * time.Second

type Manager struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

func NewManager(wait time.Duration) *Manager {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Manager{
		locks: make(map[string]chan struct{}),
		wait:  wait,
	}
}

// Key builds the composite lock key for an item record.
func Key(code, location string) string {
	return code + "@" + location
}

func (m *Manager) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

// Acquire takes every key exclusively, in lexicographic order so that two
// moves with swapped source/destination cannot deadlock. The returned
// release function is safe to call exactly once on every exit path.
func (m *Manager) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := dedupe(keys)
	sort.Strings(ordered)

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	var held []chan struct{}
	releaseHeld := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range ordered {
		ch := m.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-timer.C:
			releaseHeld()
			return nil, &custom_error.BusyError{Key: key}
		case <-ctx.Done():
			releaseHeld()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(releaseHeld) }, nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
