package styles_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

func TestIconRenderer_RenderResolved(t *testing.T) {
	r := styles.NewIconRenderer(testTheme())
	out := r.RenderResolved("7-Zip", entity.ResolvedIcon{
		Data:       make([]byte, 2048),
		Format:     entity.IconFormatPNG,
		Size:       32,
		Provenance: entity.ProvenanceLocalExtraction,
		Source:     "C:/Program Files/7-Zip/7zFM.exe",
	}, "/tmp/7zip.png")

	assert.Contains(t, out, "7-Zip")
	assert.Contains(t, out, "LocalExtraction")
	assert.Contains(t, out, "image/png")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "/tmp/7zip.png")
}

func TestIconRenderer_RenderInventory(t *testing.T) {
	r := styles.NewIconRenderer(testTheme())
	out := r.RenderInventory(&usecase.InventoryOutput{
		Items: []usecase.InventoryItem{
			{Request: entity.IconRequest{Name: "AnyDesk"}, Icon: entity.ResolvedIcon{Provenance: entity.ProvenanceGeneric, Format: entity.IconFormatSVG}},
			{Request: entity.IconRequest{Name: ""}, Err: entity.ErrInvalidRequest},
		},
		Invalid:      1,
		ByProvenance: map[entity.Provenance]int{entity.ProvenanceGeneric: 1},
	})

	assert.Contains(t, out, "AnyDesk")
	assert.Contains(t, out, "Generic 1")
	assert.Contains(t, out, "invalid 1")
}

func TestIconRenderer_RenderCustomIcons(t *testing.T) {
	r := styles.NewIconRenderer(testTheme())
	assert.Contains(t, r.RenderCustomIcons(nil), "No custom icons")

	out := r.RenderCustomIcons([]entity.CustomIcon{{
		ProgramName: "Contoso Tool",
		Format:      entity.IconFormatPNG,
		Size:        48,
		CreatedAt:   time.Now().Add(-2 * time.Hour),
	}})
	assert.Contains(t, out, "Contoso Tool")
	assert.Contains(t, out, "2h ago")
}

func TestIconRenderer_RenderCacheStats(t *testing.T) {
	r := styles.NewIconRenderer(testTheme())
	out := r.RenderCacheStats(
		entity.CacheStats{Tier: entity.CacheTierLocal, TotalEntries: 3, ValidEntries: 2, ExpiredEntries: 1},
		entity.CacheStats{Tier: entity.CacheTierFallback},
	)
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "Expired")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", styles.FormatSize(512))
	assert.Equal(t, "1.5 KB", styles.FormatSize(1536))
	assert.Equal(t, "1.0 MB", styles.FormatSize(1<<20))
}

func TestConfigRenderer_RenderPaths(t *testing.T) {
	out := styles.NewConfigRenderer(testTheme()).RenderPaths("/c/config.toml", "/d/custom_icons", "/s/icon-cache.sqlite", "/s/logs")
	for _, want := range []string{"config.toml", "custom_icons", "icon-cache.sqlite", "/s/logs"} {
		assert.Contains(t, out, want)
	}
}

func TestConfigRenderer_RenderKeys(t *testing.T) {
	r := styles.NewConfigRenderer(testTheme())

	out := r.RenderKeys([]entity.ConfigKeyInfo{
		{Key: "logging.level", Type: "string", Default: "info", Values: []string{"info", "debug"}, Description: "Log verbosity level"},
		{Key: "icons.custom_dir", Type: "string", Description: "Custom icon directory"},
	})
	assert.Contains(t, out, "logging.level")
	assert.Contains(t, out, "info|debug")
	assert.Contains(t, out, "icons.custom_dir")

	assert.Contains(t, r.RenderKeys(nil), "no matching keys")
}

func TestIconRenderer_RenderCleared(t *testing.T) {
	out := styles.NewIconRenderer(testTheme()).RenderCleared(entity.CacheTierFallback)
	assert.Contains(t, out, "Cleared cache")
	assert.Contains(t, out, "fallback")
}
