// Package generic provides a RAM-first key/value cache with asynchronous
// write-through to a backing store.
package generic

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/iconscope/internal/logging"
)

// Cache is a RAM-first cache. Reads never touch storage; writes update memory
// immediately and are persisted in the background.
type Cache[K comparable, V any] interface {
	// Load bulk-loads all data from storage into memory.
	Load(ctx context.Context) error
	Get(key K) (V, bool)
	Set(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
	List() []V
	Len() int
	// Flush waits for all pending background writes to complete.
	Flush() error
}

// DatabaseOperations is the backing store of a cache.
type DatabaseOperations[K comparable, V any] interface {
	// LoadAll loads every entry. It may return a partial map together with a
	// non-nil error when some entries could not be read.
	LoadAll(ctx context.Context) (map[K]V, error)
	Persist(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
}

// GenericCache implements Cache[K, V] on top of sync.Map.
type GenericCache[K comparable, V any] struct {
	cache sync.Map
	dbOps DatabaseOperations[K, V]

	pendingWrites sync.WaitGroup
	mu            sync.Mutex
	writeErrs     []error
}

var _ Cache[string, int] = (*GenericCache[string, int])(nil)

// NewGenericCache creates a cache backed by dbOps.
func NewGenericCache[K comparable, V any](dbOps DatabaseOperations[K, V]) *GenericCache[K, V] {
	return &GenericCache[K, V]{dbOps: dbOps}
}

// Load populates memory from storage. Entries returned alongside an error are
// still loaded so one bad record does not hide the rest.
func (c *GenericCache[K, V]) Load(ctx context.Context) error {
	data, err := c.dbOps.LoadAll(ctx)
	for k, v := range data {
		c.cache.Store(k, v)
	}
	return err
}

// Get retrieves a value from memory only.
func (c *GenericCache[K, V]) Get(key K) (V, bool) {
	val, ok := c.cache.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return val.(V), true
}

// Set updates memory and persists in the background.
func (c *GenericCache[K, V]) Set(ctx context.Context, key K, value V) error {
	c.cache.Store(key, value)
	c.async(ctx, "persist", key, func(ctx context.Context) error {
		return c.dbOps.Persist(ctx, key, value)
	})
	return nil
}

// Delete removes from memory and deletes from storage in the background.
func (c *GenericCache[K, V]) Delete(ctx context.Context, key K) error {
	c.cache.Delete(key)
	c.async(ctx, "delete", key, func(ctx context.Context) error {
		return c.dbOps.Delete(ctx, key)
	})
	return nil
}

func (c *GenericCache[K, V]) async(ctx context.Context, op string, key K, fn func(context.Context) error) {
	// the write outlives the caller's cancellation but keeps its logger
	ctx = context.WithoutCancel(ctx)
	c.pendingWrites.Add(1)
	go func() {
		defer c.pendingWrites.Done()
		if err := fn(ctx); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("op", op).Interface("key", key).Msg("async cache write failed")
			c.mu.Lock()
			c.writeErrs = append(c.writeErrs, err)
			c.mu.Unlock()
		}
	}()
}

// List returns all values in memory. Order is not guaranteed.
func (c *GenericCache[K, V]) List() []V {
	var values []V
	c.cache.Range(func(_, value any) bool {
		values = append(values, value.(V))
		return true
	})
	return values
}

// Len returns the number of entries in memory.
func (c *GenericCache[K, V]) Len() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Flush blocks until pending writes complete and returns the joined errors
// of the writes that failed since the previous Flush.
func (c *GenericCache[K, V]) Flush() error {
	c.pendingWrites.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	err := errors.Join(c.writeErrs...)
	c.writeErrs = nil
	return err
}
