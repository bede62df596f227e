package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	upsertIconCacheSQL = `INSERT INTO icon_cache (cache_key, tier, data, format, size, provenance, source, inserted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (cache_key) DO UPDATE SET
    tier = excluded.tier,
    data = excluded.data,
    format = excluded.format,
    size = excluded.size,
    provenance = excluded.provenance,
    source = excluded.source,
    inserted_at = excluded.inserted_at`
	selectIconCacheSQL        = `SELECT cache_key, tier, data, format, size, provenance, source, inserted_at FROM icon_cache`
	deleteIconCacheKeySQL     = `DELETE FROM icon_cache WHERE cache_key = ?`
	deleteIconCacheTierSQL    = `DELETE FROM icon_cache WHERE tier = ?`
	deleteIconCacheExpiredSQL = `DELETE FROM icon_cache WHERE tier = ? AND inserted_at < ?`
)

type iconCacheRepo struct {
	db *sql.DB
}

// NewIconCacheRepository creates a SQLite-backed icon cache repository.
func NewIconCacheRepository(db *sql.DB) port.IconCacheRepository {
	return &iconCacheRepo{db: db}
}

func (r *iconCacheRepo) LoadAll(ctx context.Context) ([]entity.CacheEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectIconCacheSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query icon cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []entity.CacheEntry
	for rows.Next() {
		var (
			key, tier, format, provenance, source string
			data                                  []byte
			size                                  int
			insertedAt                            int64
		)
		if err := rows.Scan(&key, &tier, &data, &format, &size, &provenance, &source, &insertedAt); err != nil {
			return nil, fmt.Errorf("failed to scan icon cache row: %w", err)
		}
		entries = append(entries, entity.CacheEntry{
			Key: entity.CacheKey(key),
			Icon: entity.ResolvedIcon{
				Data:       data,
				Format:     entity.IconFormat(format),
				Size:       size,
				Provenance: entity.Provenance(provenance),
				Source:     source,
			},
			InsertedAt: time.Unix(0, insertedAt),
			Tier:       entity.CacheTier(tier),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read icon cache: %w", err)
	}
	return entries, nil
}

func (r *iconCacheRepo) Save(ctx context.Context, e entity.CacheEntry) error {
	_, err := r.db.ExecContext(ctx, upsertIconCacheSQL,
		string(e.Key), string(e.Tier), e.Icon.Data, string(e.Icon.Format), e.Icon.Size,
		string(e.Icon.Provenance), e.Icon.Source, e.InsertedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save icon cache entry: %w", err)
	}
	return nil
}

func (r *iconCacheRepo) Delete(ctx context.Context, key entity.CacheKey) error {
	if _, err := r.db.ExecContext(ctx, deleteIconCacheKeySQL, string(key)); err != nil {
		return fmt.Errorf("failed to delete icon cache entry: %w", err)
	}
	return nil
}

func (r *iconCacheRepo) DeleteTier(ctx context.Context, tier entity.CacheTier) error {
	log := logging.FromContext(ctx)
	res, err := r.db.ExecContext(ctx, deleteIconCacheTierSQL, string(tier))
	if err != nil {
		return fmt.Errorf("failed to clear icon cache tier %s: %w", tier, err)
	}
	n, _ := res.RowsAffected()
	log.Debug().Str("tier", string(tier)).Int64("rows", n).Msg("icon cache tier cleared")
	return nil
}

func (r *iconCacheRepo) DeleteExpired(ctx context.Context, tier entity.CacheTier, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteIconCacheExpiredSQL, string(tier), before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired icon cache entries: %w", err)
	}
	return res.RowsAffected()
}
