package specedit

import (
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// RegistryStats snapshots the Request Registry's counters.
type RegistryStats struct {
	Binds     int64
	Lookups   int64
	Forgets   int64
	Evictions int64
	Size      int
}

// Registry is the Request Registry from spec.md §4.A: a bounded,
// thread-safe cache from RequestID to its bound Aligner. It is explicitly
// not a source of truth for request lifecycle — the host engine owns
// that — so a lookup miss is always a normal, non-fatal outcome.
//
// Grounded on the teacher's KVCacheManager slot table
// (core/inference/echobeats_engine.go), generalized from a fixed slot
// array to an LRU-evicting cache since the number of concurrent requests
// is open-ended here rather than bounded by GPU memory slots.
type Registry struct {
	mu    sync.Mutex
	cache *lru.Cache

	binds     int64
	lookups   int64
	forgets   int64
	evictions int64
}

// NewRegistry builds a registry with the given capacity. Capacity must be
// positive; DefaultConfig().RegistryCapacity is a sane default.
func NewRegistry(capacity int) *Registry {
	r := &Registry{}
	cache, err := lru.NewWithEvict(capacity, func(key, value interface{}) {
		r.evictions++
		log.Printf("[%s] specedit: registry evicted request %v (capacity exceeded)", classRegistryOverflow, key)
	})
	if err != nil {
		// Only returns an error for capacity <= 0, which is a caller bug,
		// not a runtime condition; fall back to a single-entry cache so the
		// registry stays usable rather than panicking on startup.
		cache, _ = lru.New(1)
	}
	r.cache = cache
	return r
}

// Bind installs aligner under id, replacing any existing binding. Per
// spec.md §4.A, rebinding id with a different draft is last-writer-wins
// but must warn in logs; rebinding with the same draft (e.g. a retried
// bind) is silent.
func (r *Registry) Bind(id RequestID, aligner *Aligner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binds++
	if prev, ok := r.cache.Peek(id); ok {
		if old := prev.(*Aligner); !equalTokens(old.draft, aligner.draft) {
			log.Printf("specedit: rebinding request %v with a different draft (last-writer-wins)", id)
		}
	}
	r.cache.Add(id, aligner)
}

// Lookup returns the aligner bound to id, if any. A miss is expected
// behavior for unknown or already-forgotten requests, never an error.
func (r *Registry) Lookup(id RequestID) (*Aligner, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Aligner), true
}

// Forget removes id's binding, if present. Forgetting an absent or
// already-forgotten id is a no-op, not an error: spec.md §4.A requires
// Forget to be idempotent.
func (r *Registry) Forget(id RequestID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgets++
	r.cache.Remove(id)
}

// Stats returns a snapshot of registry activity.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RegistryStats{
		Binds:     r.binds,
		Lookups:   r.lookups,
		Forgets:   r.forgets,
		Evictions: r.evictions,
		Size:      r.cache.Len(),
	}
}
