// Package pathresolve turns stored icon locations into existing files.
package pathresolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconpath"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	defaultMaxDepth   = 3
	defaultMaxVisited = 20000
)

// Options configures a Resolver.
type Options struct {
	// SearchRoots are walked for bare or relative names.
	SearchRoots []string
	// MaxDepth bounds the walk below each root.
	MaxDepth int
	// MaxVisited bounds the number of entries examined per Resolve call.
	MaxVisited int
	// LookupEnv expands placeholders. Defaults to os.LookupEnv.
	LookupEnv iconpath.LookupEnv
}

// DefaultSearchRoots returns the roots searched for bare names on Windows.
func DefaultSearchRoots(lookup iconpath.LookupEnv) []string {
	roots := []string{"%ProgramFiles%", "%ProgramFiles(x86)%", "%SystemRoot%/System32", "%SystemRoot%"}
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		n := iconpath.Normalize(r, lookup)
		if iconpath.IsAbs(n) {
			out = append(out, n)
		}
	}
	return out
}

// Resolver implements port.PathResolver on top of an afero filesystem.
type Resolver struct {
	fs   afero.Fs
	opts Options
}

// New creates a Resolver. Zero option values are replaced by defaults.
func New(fsys afero.Fs, opts Options) *Resolver {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.MaxVisited <= 0 {
		opts.MaxVisited = defaultMaxVisited
	}
	if opts.SearchRoots == nil {
		opts.SearchRoots = DefaultSearchRoots(opts.LookupEnv)
	}
	return &Resolver{fs: fsys, opts: opts}
}

// Normalize exposes the normalization used by Resolve, without I/O.
func (r *Resolver) Normalize(raw string) string {
	return iconpath.Normalize(raw, r.opts.LookupEnv)
}

// Resolve normalizes raw and verifies that it names a regular file.
// Relative and bare names are searched for below the configured roots.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	log := logging.FromContext(ctx)

	p := r.Normalize(raw)
	if p == "" || p == "." {
		return "", entity.ErrNotFound
	}

	if iconpath.IsAbs(p) {
		ok, err := r.isRegular(p)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !ok {
			return "", entity.ErrNotFound
		}
		return p, nil
	}

	log.Debug().Str("path", p).Msg("searching roots for relative icon path")
	for _, root := range r.opts.SearchRoots {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := path.Join(root, p)
		if ok, _ := r.isRegular(candidate); ok {
			return candidate, nil
		}
	}

	if strings.Contains(p, "/") {
		return "", entity.ErrNotFound
	}
	return r.search(ctx, p)
}

func (r *Resolver) search(ctx context.Context, name string) (string, error) {
	visited := 0
	errFound := errors.New("found")
	var found string

	for _, root := range r.opts.SearchRoots {
		err := afero.Walk(r.fs, root, func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				// unreadable subtrees are skipped, not fatal
				if info != nil && info.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			visited++
			if visited > r.opts.MaxVisited {
				return fs.SkipAll
			}
			if info.IsDir() {
				if depth(root, p) >= r.opts.MaxDepth {
					return fs.SkipDir
				}
				return nil
			}
			if info.Mode().IsRegular() && strings.EqualFold(info.Name(), name) {
				found = toSlash(p)
				return errFound
			}
			return nil
		})
		switch {
		case errors.Is(err, errFound):
			return found, nil
		case err != nil && ctx.Err() != nil:
			return "", ctx.Err()
		}
		if visited > r.opts.MaxVisited {
			break
		}
	}
	return "", entity.ErrNotFound
}

func (r *Resolver) isRegular(p string) (bool, error) {
	info, err := r.fs.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func depth(root, p string) int {
	rel := strings.TrimPrefix(toSlash(p), strings.TrimSuffix(toSlash(root), "/"))
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

var _ port.PathResolver = (*Resolver)(nil)
