package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

// sqliteSidecars are removed together with the cache database.
var sqliteSidecars = []string{"-wal", "-shm"}

// PurgeDataUseCase handles discovering and purging iconscope data.
type PurgeDataUseCase struct {
	fs  port.FileSystem
	xdg port.XDGPaths
}

// NewPurgeDataUseCase creates a new PurgeDataUseCase.
func NewPurgeDataUseCase(fs port.FileSystem, xdg port.XDGPaths) *PurgeDataUseCase {
	return &PurgeDataUseCase{fs: fs, xdg: xdg}
}

// GetPurgeTargets returns all available purge targets with their current state.
func (uc *PurgeDataUseCase) GetPurgeTargets(ctx context.Context) ([]entity.PurgeTarget, error) {
	configDir, err := uc.xdg.ConfigDir()
	if err != nil {
		return nil, err
	}
	customDir, err := uc.xdg.CustomIconDir()
	if err != nil {
		return nil, err
	}
	dbFile, err := uc.xdg.DatabaseFile()
	if err != nil {
		return nil, err
	}
	logDir, err := uc.xdg.LogDir()
	if err != nil {
		return nil, err
	}

	baseTargets := []entity.PurgeTarget{
		{Type: entity.PurgeTargetConfig, Path: configDir, Description: "config"},
		{Type: entity.PurgeTargetCustomIcons, Path: customDir, Description: "custom icons"},
		{Type: entity.PurgeTargetCacheDatabase, Path: dbFile, Description: "icon cache database"},
		{Type: entity.PurgeTargetLogs, Path: logDir, Description: "logs"},
	}

	targets := make([]entity.PurgeTarget, 0, len(baseTargets))
	for _, t := range baseTargets {
		if t.Path == "" {
			targets = append(targets, t)
			continue
		}
		exists, err := uc.fs.Exists(ctx, t.Path)
		if err != nil {
			return nil, err
		}
		t.Exists = exists
		if !exists {
			targets = append(targets, t)
			continue
		}
		size, err := uc.fs.GetSize(ctx, t.Path)
		if err != nil {
			return nil, err
		}
		t.Size = size
		targets = append(targets, t)
	}

	return targets, nil
}

// PurgeInput specifies which target types to purge.
type PurgeInput struct {
	TargetTypes []entity.PurgeTargetType
}

// PurgeOutput contains the results of the purge operation.
type PurgeOutput struct {
	Results      []entity.PurgeResult
	TotalSize    int64
	SuccessCount int
	FailureCount int
}

// Execute purges the selected target types.
// Continues on errors, collecting all results.
func (uc *PurgeDataUseCase) Execute(ctx context.Context, input PurgeInput) (*PurgeOutput, error) {
	log := logging.FromContext(ctx)

	targets, err := uc.GetPurgeTargets(ctx)
	if err != nil {
		return nil, err
	}

	selected := make(map[entity.PurgeTargetType]struct{}, len(input.TargetTypes))
	for _, tt := range input.TargetTypes {
		selected[tt] = struct{}{}
	}

	out := &PurgeOutput{}
	for _, t := range targets {
		if _, ok := selected[t.Type]; !ok {
			continue
		}
		if !t.Exists {
			continue
		}

		res := entity.PurgeResult{Target: t}
		out.TotalSize += t.Size

		err = uc.remove(ctx, t)
		if err != nil {
			res.Error = err
			out.FailureCount++
			log.Warn().Err(err).Str("path", t.Path).Stringer("type", t.Type).Msg("purge target failed")
		} else {
			res.Success = true
			out.SuccessCount++
			log.Info().Str("path", t.Path).Stringer("type", t.Type).Msg("purge target removed")
		}

		out.Results = append(out.Results, res)
	}

	if out.FailureCount > 0 {
		return out, fmt.Errorf("failed to remove %d items", out.FailureCount)
	}
	return out, nil
}

func (uc *PurgeDataUseCase) remove(ctx context.Context, t entity.PurgeTarget) error {
	if err := uc.fs.RemoveAll(ctx, t.Path); err != nil {
		return err
	}
	if t.Type != entity.PurgeTargetCacheDatabase {
		return nil
	}
	for _, suffix := range sqliteSidecars {
		if err := uc.fs.RemoveAll(ctx, t.Path+suffix); err != nil {
			return fmt.Errorf("failed to remove %s: %w", t.Path+suffix, err)
		}
	}
	return nil
}

// PurgeAll purges all existing targets (for --force mode).
func (uc *PurgeDataUseCase) PurgeAll(ctx context.Context) (*PurgeOutput, error) {
	targets, err := uc.GetPurgeTargets(ctx)
	if err != nil {
		return nil, err
	}

	types := make([]entity.PurgeTargetType, 0, len(targets))
	for _, t := range targets {
		types = append(types, t.Type)
	}

	return uc.Execute(ctx, PurgeInput{TargetTypes: types})
}
