package handlers

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"consensus-market/internal/market"
	"consensus-market/internal/model"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrMarketNotFound is returned for unknown or expired market IDs.
var ErrMarketNotFound = errors.New("market not found")

// entry owns one market and the buildings it was created with. mu serializes
// every operation on the market.
type entry struct {
	mu        sync.Mutex
	market    *market.Market
	buildings []*model.Building
	lastUsed  atomic.Int64 // unix nanos
}

func (e *entry) touch(now time.Time) { e.lastUsed.Store(now.UnixNano()) }

// Registry keeps markets in memory between requests. Markets idle for longer
// than the TTL are dropped by a background sweep.
type Registry struct {
	mu    sync.RWMutex
	store map[string]*entry
	ttl   time.Duration
	now   func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewRegistry starts the cleanup goroutine; call Close to stop it.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	r := &Registry{
		store: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	interval := 5 * time.Minute
	if ttl < interval {
		interval = ttl
	}
	go r.cleanup(interval)
	return r
}

// Create stores a market and returns its new ID.
func (r *Registry) Create(m *market.Market, buildings []*model.Building) string {
	id := uuid.NewString()
	e := &entry{market: m, buildings: buildings}
	e.touch(r.now())

	r.mu.Lock()
	r.store[id] = e
	r.mu.Unlock()
	return id
}

// With runs fn while holding the market's lock.
func (r *Registry) With(id string, fn func(m *market.Market, buildings []*model.Building) error) error {
	r.mu.RLock()
	e, ok := r.store[id]
	r.mu.RUnlock()
	if !ok {
		return ErrMarketNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch(r.now())
	return fn(e.market, e.buildings)
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrMarketNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}

func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.stop) })
}

// expire removes entries idle since before now-ttl and returns how many.
func (r *Registry) expire() int {
	cutoff := r.now().Add(-r.ttl).UnixNano()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.store {
		if e.lastUsed.Load() < cutoff {
			delete(r.store, id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.expire(); n > 0 {
				logx.Infof("expired %d idle markets", n)
			}
		}
	}
}
