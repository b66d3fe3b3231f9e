// Package counter provides the notification id counter. Ids increase by one on every push
// notification, the Reserved id is never handed out.
package counter

import (
	"context"
	"sync"
)

// Reserved id is used by the mobile app for its own launch notification
const Reserved int64 = 999

// Counter hands out notification ids
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

// Advance returns the id following n, skipping Reserved
func Advance(n int64) int64 {
	n++
	if n == Reserved {
		n++
	}
	return n
}

// Memory is an in-process counter
type Memory struct {
	mu    sync.Mutex
	value int64
}

// NewMemory makes in-memory counter starting at the given value
func NewMemory(start int64) *Memory {
	return &Memory{value: start}
}

// Next advances the counter and returns the new id
func (m *Memory) Next(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = Advance(m.value)
	return m.value, nil
}

// Value returns the current id without advancing
func (m *Memory) Value() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}
