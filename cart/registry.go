package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// loadTimeout bounds the rehydration read, which is detached from the
// caller's cancellation so one aborted request cannot fail it for others.
const loadTimeout = 5 * time.Second

type registryEntry struct {
	store    *Store
	err      error
	ready    chan struct{}
	lastSeen time.Time
}

// Registry keeps one live Store per shopper session so that every mutation
// for a session goes through the same serialised store.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	storage Storage
	maxQty  int
	idleTTL time.Duration
	logger  *zap.Logger
	stop    chan struct{}
	once    sync.Once
}

// NewRegistry creates a registry and starts the idle sweeper when idleTTL > 0.
func NewRegistry(storage Storage, maxQty int, idleTTL time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		entries: make(map[string]*registryEntry),
		storage: storage,
		maxQty:  maxQty,
		idleTTL: idleTTL,
		logger:  logger,
		stop:    make(chan struct{}),
	}

	if idleTTL > 0 {
		go func() {
			ticker := time.NewTicker(idleTTL)
			defer ticker.Stop()
			for {
				select {
				case now := <-ticker.C:
					r.sweep(now)
				case <-r.stop:
					return
				}
			}
		}()
	}
	return r
}

// StorageKey is the key a session's cart is persisted under.
func StorageKey(sessionID string) string {
	return "cart:session:" + sessionID
}

// Get returns the live store for sessionID, rehydrating it on first access.
// A failed rehydration is not cached; the next Get retries the read.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, error) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if ok {
		e.lastSeen = time.Now()
		r.mu.Unlock()
		<-e.ready
		return e.store, e.err
	}
	e = &registryEntry{ready: make(chan struct{}), lastSeen: time.Now()}
	r.entries[sessionID] = e
	r.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()
	e.store, e.err = Open(loadCtx, r.storage, StorageKey(sessionID), r.maxQty, r.logger)
	if e.err != nil {
		r.mu.Lock()
		if r.entries[sessionID] == e {
			delete(r.entries, sessionID)
		}
		r.mu.Unlock()
	}
	close(e.ready)
	return e.store, e.err
}

// Len reports the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		select {
		case <-e.ready:
		default:
			continue
		}
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.entries, id)
		}
	}
}

// Close stops the idle sweeper.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stop) })
}
