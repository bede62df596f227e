package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

// DefaultInventoryConcurrency bounds parallel resolutions when none is set.
const DefaultInventoryConcurrency = 8

// InventoryItem is the outcome for one program of an inventory.
type InventoryItem struct {
	Request entity.IconRequest  `json:"request"`
	Icon    entity.ResolvedIcon `json:"icon"`
	Err     error               `json:"-"`
}

// InventoryOutput holds results in input order.
type InventoryOutput struct {
	Items   []InventoryItem
	Invalid int
	// ByProvenance counts successful results per strategy.
	ByProvenance map[entity.Provenance]int
}

// ResolveInventoryUseCase resolves icons for a whole program inventory.
type ResolveInventoryUseCase struct {
	resolver    *ResolveIconUseCase
	concurrency int
}

// NewResolveInventoryUseCase creates a ResolveInventoryUseCase running at
// most concurrency resolutions at once.
func NewResolveInventoryUseCase(resolver *ResolveIconUseCase, concurrency int) *ResolveInventoryUseCase {
	if concurrency <= 0 {
		concurrency = DefaultInventoryConcurrency
	}
	return &ResolveInventoryUseCase{resolver: resolver, concurrency: concurrency}
}

// DecodeInventory reads a JSON array of program records.
func DecodeInventory(r io.Reader) ([]entity.IconRequest, error) {
	var reqs []entity.IconRequest
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	return reqs, nil
}

// Execute resolves every request. Invalid records are reported per item and
// never abort the run; only ctx cancellation does.
func (uc *ResolveInventoryUseCase) Execute(ctx context.Context, reqs []entity.IconRequest) (*InventoryOutput, error) {
	log := logging.FromContext(ctx)
	items := make([]InventoryItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			icon, err := uc.resolver.ResolveIcon(gctx, req)
			items[i] = InventoryItem{Request: req, Icon: icon, Err: err}
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inventory resolution interrupted: %w", err)
	}

	out := &InventoryOutput{Items: items, ByProvenance: make(map[entity.Provenance]int)}
	for _, item := range items {
		if item.Err != nil {
			out.Invalid++
			continue
		}
		out.ByProvenance[item.Icon.Provenance]++
	}
	log.Info().Int("programs", len(reqs)).Int("invalid", out.Invalid).Msg("inventory resolved")
	return out, nil
}
