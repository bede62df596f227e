// Package customicon keeps user-assigned program icons in a directory of
// JSON documents, indexed in memory.
package customicon

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/cache/generic"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

var (
	// ErrEmptyIcon is returned when registering an icon without data.
	ErrEmptyIcon = errors.New("custom icon has no data")
	// ErrIncomplete marks a stored document missing its name or data.
	ErrIncomplete = errors.New("custom icon document is incomplete")
)

// Store implements port.CustomIconStore. Icons are keyed by their sanitized
// program name, which is also the document's file name.
type Store struct {
	cache *generic.GenericCache[string, entity.CustomIcon]
	clock port.Clock
}

var _ port.CustomIconStore = (*Store)(nil)

// Open loads the icons stored in dir. The returned store is always usable;
// a non-nil error lists the documents that could not be loaded.
func Open(ctx context.Context, fs afero.Fs, dir string, clock port.Clock) (*Store, error) {
	if clock == nil {
		clock = port.SystemClock
	}
	s := &Store{
		cache: generic.NewGenericCache[string, entity.CustomIcon](&dirOperations{fs: fs, dir: dir}),
		clock: clock,
	}
	err := s.cache.Load(ctx)
	logging.FromContext(ctx).Debug().
		Str("dir", dir).
		Int("count", s.cache.Len()).
		Err(err).
		Msg("custom icons loaded")
	return s, err
}

// Get looks the icon up in memory only.
func (s *Store) Get(name string) (entity.CustomIcon, bool) {
	key := entity.SanitizeIconName(name)
	if key == "" {
		return entity.CustomIcon{}, false
	}
	return s.cache.Get(key)
}

// Set registers or replaces the icon of icon.ProgramName.
func (s *Store) Set(ctx context.Context, icon entity.CustomIcon) error {
	icon.ProgramName = strings.TrimSpace(icon.ProgramName)
	if icon.ProgramName == "" {
		return entity.ErrInvalidRequest
	}
	if len(icon.Data) == 0 {
		return ErrEmptyIcon
	}
	if icon.CreatedAt.IsZero() {
		icon.CreatedAt = s.clock.Now().UTC()
	}
	icon.Data = append([]byte(nil), icon.Data...)
	if err := s.cache.Set(ctx, entity.SanitizeIconName(icon.ProgramName), icon); err != nil {
		return fmt.Errorf("failed to store custom icon: %w", err)
	}
	return nil
}

// Remove deletes the icon of name. It returns entity.ErrNotFound when none
// is registered.
func (s *Store) Remove(ctx context.Context, name string) error {
	key := entity.SanitizeIconName(name)
	if _, ok := s.cache.Get(key); !ok || key == "" {
		return entity.ErrNotFound
	}
	return s.cache.Delete(ctx, key)
}

// List returns every icon ordered by program name.
func (s *Store) List() []entity.CustomIcon {
	icons := s.cache.List()
	slices.SortFunc(icons, func(a, b entity.CustomIcon) int {
		return strings.Compare(strings.ToLower(a.ProgramName), strings.ToLower(b.ProgramName))
	})
	return icons
}

// Close waits for pending writes and reports the ones that failed.
func (s *Store) Close() error {
	return s.cache.Flush()
}
