package engine

import (
	"sync"

	"comptroller/core"
)

// Guard scoped reentrancy guard. Acquire before the first external
// call of a value-moving function; the returned release runs on every
// exit path.
type Guard struct {
	mu      sync.Mutex
	entered map[string]bool
}

// NewGuard new guard
func NewGuard() *Guard {
	return &Guard{entered: make(map[string]bool)}
}

// Enter acquires the guard for key or fails with ErrReentry
func (g *Guard) Enter(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.entered[key] {
		return nil, core.ErrReentry
	}

	g.entered[key] = true
	return func() {
		g.mu.Lock()
		delete(g.entered, key)
		g.mu.Unlock()
	}, nil
}
