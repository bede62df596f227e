package customicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/cache/generic"
	"github.com/bnema/iconscope/internal/domain/entity"
)

const (
	fileExt  = ".json"
	dirPerm  = 0o750
	filePerm = 0o600
)

// dirOperations stores one JSON document per program in a directory.
type dirOperations struct {
	fs  afero.Fs
	dir string
}

var _ generic.DatabaseOperations[string, entity.CustomIcon] = (*dirOperations)(nil)

func (d *dirOperations) fileFor(key string) string {
	return path.Join(d.dir, key+fileExt)
}

// LoadAll reads every document in the directory. Unreadable documents are
// skipped and reported together.
func (d *dirOperations) LoadAll(ctx context.Context) (map[string]entity.CustomIcon, error) {
	out := make(map[string]entity.CustomIcon)
	infos, err := afero.ReadDir(d.fs, d.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to list custom icon directory: %w", err)
	}

	var errs []error
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if info.IsDir() || !strings.EqualFold(path.Ext(info.Name()), fileExt) {
			continue
		}
		icon, err := d.read(path.Join(d.dir, info.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[entity.SanitizeIconName(icon.ProgramName)] = icon
	}
	return out, errors.Join(errs...)
}

func (d *dirOperations) read(file string) (entity.CustomIcon, error) {
	var icon entity.CustomIcon
	raw, err := afero.ReadFile(d.fs, file)
	if err != nil {
		return icon, fmt.Errorf("failed to read custom icon %s: %w", file, err)
	}
	if err := json.Unmarshal(raw, &icon); err != nil {
		return icon, fmt.Errorf("failed to decode custom icon %s: %w", file, err)
	}
	if strings.TrimSpace(icon.ProgramName) == "" || len(icon.Data) == 0 {
		return icon, fmt.Errorf("custom icon %s: %w", file, ErrIncomplete)
	}
	return icon, nil
}

// Persist writes the document to a temporary file and renames it into place.
func (d *dirOperations) Persist(_ context.Context, key string, icon entity.CustomIcon) error {
	if err := d.fs.MkdirAll(d.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create custom icon directory: %w", err)
	}
	raw, err := json.MarshalIndent(icon, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode custom icon: %w", err)
	}
	target := d.fileFor(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(d.fs, tmp, raw, filePerm); err != nil {
		return fmt.Errorf("failed to write custom icon: %w", err)
	}
	if err := d.fs.Rename(tmp, target); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("failed to commit custom icon: %w", err)
	}
	return nil
}

func (d *dirOperations) Delete(_ context.Context, key string) error {
	err := d.fs.Remove(d.fileFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete custom icon: %w", err)
	}
	return nil
}
