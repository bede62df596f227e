package generic

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	mock := NewMockDatabaseOperations[string, int]()
	mock.LoadAllFunc = func(ctx context.Context) (map[string]int, error) {
		return map[string]int{"one": 1, "two": 2}, nil
	}
	cache := NewGenericCache(mock)

	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if n := mock.LoadAllCallCount(); n != 1 {
		t.Errorf("expected LoadAll once, got %d", n)
	}
	if val, ok := cache.Get("two"); !ok || val != 2 {
		t.Errorf("expected two=2, got %v, %v", val, ok)
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Len())
	}
}

// A partial load keeps what could be read and still reports the error.
func TestLoadPartial(t *testing.T) {
	brokenErr := errors.New("record 3 is corrupt")
	mock := NewMockDatabaseOperations[string, int]()
	mock.LoadAllFunc = func(ctx context.Context) (map[string]int, error) {
		return map[string]int{"ok": 1}, brokenErr
	}
	cache := NewGenericCache(mock)

	err := cache.Load(context.Background())
	if !errors.Is(err, brokenErr) {
		t.Fatalf("expected %v, got %v", brokenErr, err)
	}
	if _, ok := cache.Get("ok"); !ok {
		t.Error("expected readable entry to be loaded")
	}
}

func TestSetDoesNotBlockOnSlowPersist(t *testing.T) {
	mock := NewMockDatabaseOperations[string, int]()
	release := make(chan struct{})
	mock.PersistFunc = func(ctx context.Context, key string, value int) error {
		<-release
		return nil
	}
	cache := NewGenericCache(mock)

	done := make(chan struct{})
	go func() {
		_ = cache.Set(context.Background(), "k", 42)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Set() blocked on persist")
	}

	if val, ok := cache.Get("k"); !ok || val != 42 {
		t.Errorf("expected k=42 before persist completes, got %v, %v", val, ok)
	}

	close(release)
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if keys := mock.PersistedKeys(); len(keys) != 1 || keys[0] != "k" {
		t.Errorf("expected Persist(k), got %v", keys)
	}
}

// Cancelling the caller's context must not abort the background write.
func TestSetSurvivesCancelledContext(t *testing.T) {
	mock := NewMockDatabaseOperations[string, int]()
	var sawErr error
	mock.PersistFunc = func(ctx context.Context, key string, value int) error {
		sawErr = ctx.Err()
		return nil
	}
	cache := NewGenericCache(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = cache.Set(ctx, "k", 1)
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if sawErr != nil {
		t.Errorf("persist saw cancelled context: %v", sawErr)
	}
}

func TestDelete(t *testing.T) {
	mock := NewMockDatabaseOperations[string, int]()
	mock.LoadAllFunc = func(ctx context.Context) (map[string]int, error) {
		return map[string]int{"k": 1}, nil
	}
	cache := NewGenericCache(mock)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	_ = cache.Delete(context.Background(), "k")
	if _, ok := cache.Get("k"); ok {
		t.Error("expected k to be gone immediately")
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if keys := mock.DeletedKeys(); len(keys) != 1 || keys[0] != "k" {
		t.Errorf("expected Delete(k), got %v", keys)
	}
}

func TestFlushReportsWriteErrorsOnce(t *testing.T) {
	diskErr := errors.New("disk full")
	mock := NewMockDatabaseOperations[string, int]()
	mock.PersistFunc = func(ctx context.Context, key string, value int) error { return diskErr }
	cache := NewGenericCache(mock)

	_ = cache.Set(context.Background(), "a", 1)
	_ = cache.Set(context.Background(), "b", 2)

	if err := cache.Flush(); !errors.Is(err, diskErr) {
		t.Fatalf("expected %v, got %v", diskErr, err)
	}
	if err := cache.Flush(); err != nil {
		t.Errorf("expected errors to be drained, got %v", err)
	}
	// memory keeps the value even though storage failed
	if _, ok := cache.Get("a"); !ok {
		t.Error("expected a to stay in memory")
	}
}

func TestList(t *testing.T) {
	mock := NewMockDatabaseOperations[string, int]()
	cache := NewGenericCache(mock)
	for i, k := range []string{"c", "a", "b"} {
		_ = cache.Set(context.Background(), k, i)
	}
	_ = cache.Flush()

	got := cache.List()
	sort.Ints(got)
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("unexpected list %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	mock := NewMockDatabaseOperations[int, int]()
	cache := NewGenericCache(mock)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Set(context.Background(), i, i*i)
		}()
		go func() {
			defer wg.Done()
			cache.Get(i)
			cache.List()
		}()
	}
	wg.Wait()
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	if cache.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", cache.Len())
	}
	if len(mock.PersistedKeys()) != 50 {
		t.Errorf("expected 50 persists, got %d", len(mock.PersistedKeys()))
	}
}
