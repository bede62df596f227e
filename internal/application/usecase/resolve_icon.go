package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

const tracerName = "github.com/bnema/iconscope/internal/application/usecase"

// DefaultPreferredSize is the icon edge length used when none is configured.
const DefaultPreferredSize = 32

// IconSources groups the collaborators the resolution chain draws from.
// Remote and Custom are optional; a nil value disables the step.
type IconSources struct {
	Resolver  port.PathResolver
	Extractor port.IconExtractor
	Scanner   port.VendorScanner
	Remote    port.RemoteIconProvider
	Generic   port.GenericIconProvider
	Custom    port.CustomIconStore
}

// ResolveOptions tunes the resolution chain.
type ResolveOptions struct {
	PreferredSize int
	// Arch selects the vendor scan root order. Defaults to runtime.GOARCH.
	Arch          string
	RemoteEnabled bool
	CustomEnabled bool
}

// ResolveIconUseCase resolves program icons through an ordered strategy chain
// backed by the two-tier cache. It is the single entry point for callers.
type ResolveIconUseCase struct {
	cache   port.IconCacheStore
	sources IconSources
	opts    ResolveOptions
	steps   []step
	flight  singleflight.Group
	tracer  trace.Tracer
}

// NewResolveIconUseCase creates the orchestrator. Resolver, Extractor and
// Generic are required.
func NewResolveIconUseCase(cache port.IconCacheStore, sources IconSources, opts ResolveOptions) *ResolveIconUseCase {
	if opts.PreferredSize <= 0 {
		opts.PreferredSize = DefaultPreferredSize
	}
	if opts.Arch == "" {
		opts.Arch = runtime.GOARCH
	}
	uc := &ResolveIconUseCase{
		cache:   cache,
		sources: sources,
		opts:    opts,
		tracer:  otel.Tracer(tracerName),
	}
	uc.steps = []step{
		{number: 3, name: "local-extraction", provenance: entity.ProvenanceLocalExtraction, run: uc.localExtraction},
		{number: 4, name: "vendor-tree-scan", provenance: entity.ProvenanceVendorTreeScan, run: uc.vendorTreeScan},
		{number: 5, name: "remote-fallback", provenance: entity.ProvenanceRemoteFallback, run: uc.remoteFallback},
		{number: 6, name: "generic", provenance: entity.ProvenanceGeneric, run: uc.generic},
	}
	return uc
}

type outcomeKind int

const (
	outcomeSkip outcomeKind = iota
	outcomeSuccess
	outcomeFail
)

// stepOutcome is what one strategy reports: an image, a skip, or a failure
// carrying the path it attempted.
type stepOutcome struct {
	kind  outcomeKind
	image entity.IconImage
	err   error
	path  string
}

func success(img entity.IconImage) stepOutcome { return stepOutcome{kind: outcomeSuccess, image: img} }
func skip() stepOutcome                         { return stepOutcome{kind: outcomeSkip} }
func fail(err error, path string) stepOutcome {
	return stepOutcome{kind: outcomeFail, err: err, path: path}
}

type step struct {
	number     int
	name       string
	provenance entity.Provenance
	run        func(ctx context.Context, req entity.IconRequest) stepOutcome
}

// ResolveIcon returns the icon for req. The only errors are
// entity.ErrInvalidRequest and the caller's own context error; every
// strategy failure falls through to the next one and is only logged.
func (uc *ResolveIconUseCase) ResolveIcon(ctx context.Context, req entity.IconRequest) (entity.ResolvedIcon, error) {
	if err := req.Validate(); err != nil {
		return entity.ResolvedIcon{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	key := entity.NewCacheKey(req, uc.sources.Resolver.Normalize(req.StoredPath))

	ctx, span := uc.tracer.Start(ctx, "ResolveIcon", trace.WithAttributes(
		attribute.String("icon.program", req.Name),
		attribute.String("icon.key", key.String()),
	))
	defer span.End()

	ctx = logging.WithProgram(ctx, req.Name)
	log := logging.FromContext(ctx)

	if icon, ok := uc.customIcon(req.Name); ok {
		// a live identical entry is kept as is
		if cached, hit := uc.cache.Get(key); !hit || cached.Provenance != entity.ProvenanceCustom || !bytes.Equal(cached.Data, icon.Data) {
			uc.cache.Put(key, icon, entity.CacheTierLocal)
		}
		span.SetAttributes(attribute.String("icon.provenance", string(icon.Provenance)))
		log.Debug().Str("provenance", string(icon.Provenance)).Int("step", 1).Msg("custom icon")
		return icon, nil
	}

	if icon, ok := uc.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("icon.cache_hit", true), attribute.String("icon.provenance", string(icon.Provenance)))
		log.Trace().Str("provenance", string(icon.Provenance)).Msg("icon cache hit")
		return icon, nil
	}

	// the shared resolution must outlive any single waiter
	detached := context.WithoutCancel(ctx)
	ch := uc.flight.DoChan(string(key), func() (any, error) {
		if icon, ok := uc.cache.Get(key); ok {
			return icon, nil
		}
		icon := uc.runChain(detached, req)
		uc.cache.Put(key, icon, icon.Provenance.Tier())
		return icon, nil
	})

	select {
	case <-ctx.Done():
		span.SetStatus(codes.Error, "caller cancelled")
		return entity.ResolvedIcon{}, ctx.Err()
	case res := <-ch:
		icon := res.Val.(entity.ResolvedIcon)
		span.SetAttributes(attribute.Bool("icon.shared", res.Shared), attribute.String("icon.provenance", string(icon.Provenance)))
		return icon.Clone(), nil
	}
}

func (uc *ResolveIconUseCase) customIcon(name string) (entity.ResolvedIcon, bool) {
	if !uc.opts.CustomEnabled || uc.sources.Custom == nil {
		return entity.ResolvedIcon{}, false
	}
	custom, ok := uc.sources.Custom.Get(name)
	if !ok {
		return entity.ResolvedIcon{}, false
	}
	return entity.NewResolvedIcon(custom.Image(), entity.ProvenanceCustom), true
}

// runChain walks steps 3 to 6 and stops at the first success. The generic
// step cannot fail, so a result is always produced.
func (uc *ResolveIconUseCase) runChain(ctx context.Context, req entity.IconRequest) entity.ResolvedIcon {
	log := logging.FromContext(ctx)
	for _, s := range uc.steps {
		stepCtx, span := uc.tracer.Start(ctx, s.name, trace.WithAttributes(attribute.Int("icon.step", s.number)))
		out := s.run(stepCtx, req)
		switch out.kind {
		case outcomeSuccess:
			span.End()
			log.Debug().
				Int("step", s.number).
				Str("provenance", string(s.provenance)).
				Str("path", out.image.Source).
				Msg("icon resolved")
			return entity.NewResolvedIcon(out.image, s.provenance)
		case outcomeFail:
			span.RecordError(out.err)
			span.SetStatus(codes.Error, failureKind(out.err))
			log.Debug().
				Int("step", s.number).
				Str("provenance", string(s.provenance)).
				Str("kind", failureKind(out.err)).
				Str("path", out.path).
				Err(out.err).
				Msg("icon strategy failed")
		default:
			log.Trace().Int("step", s.number).Str("provenance", string(s.provenance)).Msg("icon strategy skipped")
		}
		span.End()
	}
	// unreachable while the generic step is last
	return entity.NewResolvedIcon(uc.sources.Generic.IconFor(req.ProgramType), entity.ProvenanceGeneric)
}

func (uc *ResolveIconUseCase) extract(ctx context.Context, path string) stepOutcome {
	img, err := uc.sources.Extractor.Extract(ctx, path, uc.opts.PreferredSize)
	if err != nil {
		return fail(err, path)
	}
	return success(img)
}

func (uc *ResolveIconUseCase) localExtraction(ctx context.Context, req entity.IconRequest) stepOutcome {
	if strings.TrimSpace(req.StoredPath) == "" {
		return skip()
	}
	path, err := uc.sources.Resolver.Resolve(ctx, req.StoredPath)
	if err != nil {
		return fail(err, uc.sources.Resolver.Normalize(req.StoredPath))
	}
	return uc.extract(ctx, path)
}

func (uc *ResolveIconUseCase) vendorTreeScan(ctx context.Context, req entity.IconRequest) stepOutcome {
	if !req.VendorManaged || uc.sources.Scanner == nil {
		return skip()
	}
	exe, err := uc.sources.Scanner.FindExecutable(ctx, req.Name, req.Publisher, uc.opts.Arch)
	if err != nil {
		return fail(err, "")
	}
	return uc.extract(ctx, exe)
}

func (uc *ResolveIconUseCase) remoteFallback(ctx context.Context, req entity.IconRequest) stepOutcome {
	if !uc.opts.RemoteEnabled || uc.sources.Remote == nil {
		return skip()
	}
	identity, ok := uc.sources.Remote.Lookup(req.Name, req.Publisher)
	if !ok {
		return skip()
	}
	img, err := uc.sources.Remote.Fetch(ctx, identity)
	if err != nil {
		return fail(err, identity.Slug)
	}
	return success(img)
}

func (uc *ResolveIconUseCase) generic(_ context.Context, req entity.IconRequest) stepOutcome {
	return success(uc.sources.Generic.IconFor(req.ProgramType))
}

// failureKind names the error class for logs.
func failureKind(err error) string {
	var extractErr *entity.ExtractionError
	var fetchErr *entity.FetchError
	switch {
	case errors.As(err, &extractErr):
		return string(extractErr.Kind)
	case errors.As(err, &fetchErr):
		return string(fetchErr.Kind)
	case errors.Is(err, entity.ErrNotFound):
		return "NotFound"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ClearCache empties the given tier, or both.
func (uc *ResolveIconUseCase) ClearCache(ctx context.Context, tier entity.CacheTier) {
	uc.cache.Clear(tier)
	logging.FromContext(ctx).Info().Str("tier", string(tier)).Msg("icon cache cleared")
}

// CacheStats reports entry counts against the TTLs in force now.
func (uc *ResolveIconUseCase) CacheStats(tier entity.CacheTier) entity.CacheStats {
	return uc.cache.Stats(tier)
}

// RegisterCustomIcon decodes data and assigns it to the program name.
// Rasters and icon containers are normalized to PNG at the preferred size.
func (uc *ResolveIconUseCase) RegisterCustomIcon(ctx context.Context, name string, data []byte) (entity.CustomIcon, error) {
	return uc.registerCustom(ctx, name, "", func() (entity.IconImage, error) {
		return uc.sources.Extractor.ExtractBytes(ctx, data, uc.opts.PreferredSize, "custom:"+strings.TrimSpace(name))
	})
}

// RegisterCustomIconFromFile extracts the icon of path, which may also be an
// executable, and assigns it to the program name.
func (uc *ResolveIconUseCase) RegisterCustomIconFromFile(ctx context.Context, name, path string) (entity.CustomIcon, error) {
	return uc.registerCustom(ctx, name, path, func() (entity.IconImage, error) {
		resolved, err := uc.sources.Resolver.Resolve(ctx, path)
		if err != nil {
			return entity.IconImage{}, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		return uc.sources.Extractor.Extract(ctx, resolved, uc.opts.PreferredSize)
	})
}

func (uc *ResolveIconUseCase) registerCustom(
	ctx context.Context,
	name, path string,
	load func() (entity.IconImage, error),
) (entity.CustomIcon, error) {
	if uc.sources.Custom == nil {
		return entity.CustomIcon{}, ErrCustomIconsDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.CustomIcon{}, entity.ErrInvalidRequest
	}
	img, err := load()
	if err != nil {
		return entity.CustomIcon{}, fmt.Errorf("failed to decode custom icon: %w", err)
	}
	icon := entity.CustomIcon{
		ProgramName: name,
		IconPath:    path,
		Data:        img.Data,
		Format:      img.Format,
		Size:        img.Size,
	}
	if err := uc.sources.Custom.Set(ctx, icon); err != nil {
		return entity.CustomIcon{}, fmt.Errorf("failed to register custom icon: %w", err)
	}
	stored, _ := uc.sources.Custom.Get(name)
	logging.FromContext(logging.WithProgram(ctx, name)).Info().Str("format", string(img.Format)).Int("size", img.Size).Msg("custom icon registered")
	return stored, nil
}

// LookupCustomIcon returns the icon registered for name.
func (uc *ResolveIconUseCase) LookupCustomIcon(_ context.Context, name string) (entity.ResolvedIcon, bool) {
	if uc.sources.Custom == nil {
		return entity.ResolvedIcon{}, false
	}
	custom, ok := uc.sources.Custom.Get(name)
	if !ok {
		return entity.ResolvedIcon{}, false
	}
	return entity.NewResolvedIcon(custom.Image(), entity.ProvenanceCustom), true
}

// RemoveCustomIcon unregisters the icon of name and drops cached results
// that came from custom icons so the chain runs again.
func (uc *ResolveIconUseCase) RemoveCustomIcon(ctx context.Context, name string) error {
	if uc.sources.Custom == nil {
		return ErrCustomIconsDisabled
	}
	if err := uc.sources.Custom.Remove(ctx, name); err != nil {
		return fmt.Errorf("failed to remove custom icon: %w", err)
	}
	n := uc.cache.Invalidate(func(_ entity.CacheKey, icon entity.ResolvedIcon) bool {
		return icon.Provenance == entity.ProvenanceCustom
	})
	logging.FromContext(logging.WithProgram(ctx, name)).Info().Int("invalidated", n).Msg("custom icon removed")
	return nil
}

// ListCustomIcons returns every registered icon ordered by program name.
func (uc *ResolveIconUseCase) ListCustomIcons(_ context.Context) []entity.CustomIcon {
	if uc.sources.Custom == nil {
		return nil
	}
	return uc.sources.Custom.List()
}

// ErrCustomIconsDisabled is returned by custom icon operations when no
// store is configured.
var ErrCustomIconsDisabled = errors.New("custom icons are disabled")
