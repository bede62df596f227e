// Package filesystem implements port.FileSystem over afero.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/application/port"
)

// Adapter implements port.FileSystem on an afero filesystem.
type Adapter struct {
	fs afero.Fs
}

// New creates an adapter over fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs) *Adapter {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Adapter{fs: fsys}
}

func (a *Adapter) Exists(_ context.Context, path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *Adapter) IsDirectory(_ context.Context, path string) (bool, error) {
	return afero.IsDir(a.fs, path)
}

// GetSize returns the size of a file, or the total size of the files under a
// directory. A missing path has size zero.
func (a *Adapter) GetSize(ctx context.Context, path string) (int64, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var size int64
	err = afero.Walk(a.fs, path, func(_ string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fi.IsDir() {
			size += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (a *Adapter) RemoveAll(_ context.Context, path string) error {
	return a.fs.RemoveAll(path)
}

var _ port.FileSystem = (*Adapter)(nil)
