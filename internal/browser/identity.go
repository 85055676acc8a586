package browser

import (
	"math/rand"
	"sync"
)

// IdentityPool rotates client identity strings so that consecutive fetches
// do not present the same fingerprint. Page-level identity never leaks
// between tabs: each tab gets its own pick.
type IdentityPool struct {
	mu   sync.Mutex
	pool []string
}

// NewIdentityPool creates a pool from the configured identity strings.
// An empty pool is valid; Pick then returns "" and the browser default
// identity is used.
func NewIdentityPool(identities []string) *IdentityPool {
	pool := make([]string, len(identities))
	copy(pool, identities)
	return &IdentityPool{pool: pool}
}

// Pick returns a random identity string from the pool.
func (p *IdentityPool) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pool) == 0 {
		return ""
	}
	return p.pool[rand.Intn(len(p.pool))]
}

// Size returns the number of identities in the pool.
func (p *IdentityPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pool)
}
