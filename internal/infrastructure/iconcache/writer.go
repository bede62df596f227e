package iconcache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

// writeBufferSize defines the capacity of the persistence queue.
const writeBufferSize = 256

type opKind int

const (
	opSave opKind = iota
	opDelete
	opDeleteTier
	opDeleteExpired
)

type writeOp struct {
	kind   opKind
	entry  entity.CacheEntry
	tier   entity.CacheTier
	before time.Time
}

// Writer applies cache mutations to a repository on a single background
// goroutine, in the order they were made.
type Writer struct {
	repo   port.IconCacheRepository
	log    zerolog.Logger
	ops    chan writeOp
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewWriter starts the background writer. The logger is taken from ctx.
func NewWriter(ctx context.Context, repo port.IconCacheRepository) *Writer {
	w := &Writer{
		repo: repo,
		log:  logging.FromContext(ctx).With().Str("component", "icon-cache-writer").Logger(),
		ops:  make(chan writeOp, writeBufferSize),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// Save queues an entry. When the queue is full the write is skipped; the
// entry stays in memory and is simply not restored on the next start.
func (w *Writer) Save(entry entity.CacheEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.ops <- writeOp{kind: opSave, entry: entry}:
	default:
		w.log.Debug().Str("key", entry.Key.String()).Msg("persistence queue full, skipping write")
	}
}

// Delete queues removal of one entry. Deletions are never skipped.
func (w *Writer) Delete(key entity.CacheKey) {
	w.enqueue(writeOp{kind: opDelete, entry: entity.CacheEntry{Key: key}})
}

// DeleteTier queues removal of a tier. Deletions are never skipped.
func (w *Writer) DeleteTier(t entity.CacheTier) {
	w.enqueue(writeOp{kind: opDeleteTier, tier: t})
}

// DeleteExpired queues removal of entries of tier inserted before before.
func (w *Writer) DeleteExpired(t entity.CacheTier, before time.Time) {
	w.enqueue(writeOp{kind: opDeleteExpired, tier: t, before: before})
}

func (w *Writer) enqueue(op writeOp) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	w.ops <- op
}

func (w *Writer) run() {
	defer close(w.done)
	ctx := context.Background()
	for op := range w.ops {
		var err error
		switch op.kind {
		case opSave:
			err = w.repo.Save(ctx, op.entry)
		case opDelete:
			err = w.repo.Delete(ctx, op.entry.Key)
		case opDeleteTier:
			err = w.repo.DeleteTier(ctx, op.tier)
		case opDeleteExpired:
			_, err = w.repo.DeleteExpired(ctx, op.tier, op.before)
		}
		if err != nil {
			w.log.Warn().Err(err).Int("op", int(op.kind)).Msg("icon cache persistence failed")
		}
	}
}

// Close stops accepting work and waits until queued operations are applied.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.ops)
	w.mu.Unlock()
	<-w.done
}
