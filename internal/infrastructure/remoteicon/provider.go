package remoteicon

import (
	"context"
	"time"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconmatch"
)

// Options configures a Provider.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// IconSize is reported for vector payloads.
	IconSize int
}

// Provider implements port.RemoteIconProvider. It holds no payloads: the
// fallback cache tier is the only place a downloaded icon is kept.
type Provider struct {
	catalog *iconmatch.Catalog
	fetcher *Fetcher
	opts    Options
}

// NewProvider creates a Provider over catalog. A nil catalog uses the
// built-in one.
func NewProvider(catalog *iconmatch.Catalog, opts Options) *Provider {
	if catalog == nil {
		catalog = iconmatch.DefaultCatalog()
	}
	if opts.IconSize <= 0 {
		opts.IconSize = 32
	}
	return &Provider{
		catalog: catalog,
		fetcher: NewFetcher(opts.Timeout),
		opts:    opts,
	}
}

// Lookup maps a program to a catalog identity.
func (p *Provider) Lookup(name, publisher string) (iconmatch.Identity, bool) {
	return p.catalog.Lookup(name, publisher)
}

// Fetch downloads the icon of identity. Every call hits the network.
func (p *Provider) Fetch(ctx context.Context, identity iconmatch.Identity) (entity.IconImage, error) {
	return p.fetcher.Fetch(ctx, identity.URL(p.opts.BaseURL), p.opts.IconSize)
}

var _ port.RemoteIconProvider = (*Provider)(nil)
