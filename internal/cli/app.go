// Package cli wires the iconscope command-line application.
package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/build"
	"github.com/bnema/iconscope/internal/infrastructure/config"
	"github.com/bnema/iconscope/internal/infrastructure/customicon"
	"github.com/bnema/iconscope/internal/infrastructure/filesystem"
	"github.com/bnema/iconscope/internal/infrastructure/genericicon"
	"github.com/bnema/iconscope/internal/infrastructure/iconcache"
	"github.com/bnema/iconscope/internal/infrastructure/iconextract"
	"github.com/bnema/iconscope/internal/infrastructure/pathresolve"
	"github.com/bnema/iconscope/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/iconscope/internal/infrastructure/remoteicon"
	"github.com/bnema/iconscope/internal/infrastructure/telemetry"
	"github.com/bnema/iconscope/internal/infrastructure/vendorscan"
	xdgadapter "github.com/bnema/iconscope/internal/infrastructure/xdg"
	"github.com/bnema/iconscope/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Options tunes NewApp.
type Options struct {
	// LogLevel overrides the configured level when set.
	LogLevel string
	// Fs is the filesystem icons are read from. Defaults to the OS filesystem.
	Fs afero.Fs
}

// App holds CLI dependencies. The icon resolution stack, including the
// optional cache database, is only built by commands that call Icons.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	PurgeUC *usecase.PurgeDataUseCase

	fs   afero.Fs
	ctx  context.Context
	stop context.CancelFunc

	iconsOnce sync.Once
	icons     *Icons
	iconsErr  error

	mu      sync.Mutex
	closers []func(context.Context) error
}

// Icons is the icon resolution stack.
type Icons struct {
	Resolve   *usecase.ResolveIconUseCase
	Inventory *usecase.ResolveInventoryUseCase
	Cache     *iconcache.Store
}

// NewApp loads the configuration and sets up logging and tracing. The app
// context derives from parent.
func NewApp(parent context.Context, info build.Info, opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logCfg := logging.Config{Level: logging.ParseLevel(level), Format: cfg.Logging.Format, TimeFormat: "15:04:05"}

	app := &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(),
		BuildInfo: info,
		fs:        opts.Fs,
	}

	logger := logging.New(logCfg)
	if cfg.Logging.File {
		fileLogger, cleanup, fileErr := logging.NewWithFile(logCfg, mgr.Dirs().LogDir(), cfg.Logging.MaxAgeDays)
		if fileErr != nil {
			fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", fileErr)
		} else {
			logger = fileLogger
			app.addCloser(func(context.Context) error { cleanup(); return nil })
		}
	}

	ctx, stop := context.WithCancel(logging.WithContext(parent, logger))
	app.ctx, app.stop = ctx, stop

	shutdown, err := telemetry.Setup(ctx, "iconscope", info.Version)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	} else {
		app.addCloser(shutdown)
	}

	app.PurgeUC = usecase.NewPurgeDataUseCase(filesystem.New(opts.Fs), xdgadapter.New(mgr.Dirs(), cfg))
	return app, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Icons builds the resolution stack on first use.
func (a *App) Icons() (*Icons, error) {
	a.iconsOnce.Do(func() {
		a.icons, a.iconsErr = a.buildIcons()
	})
	return a.icons, a.iconsErr
}

func (a *App) buildIcons() (*Icons, error) {
	ctx := a.ctx
	cfg := a.Config
	log := logging.FromContext(ctx)

	storeOpts := iconcache.Options{
		LocalTTL:    cfg.Icons.LocalTTL(),
		FallbackTTL: cfg.Icons.FallbackTTL(),
		Capacity:    cfg.Cache.Capacity,
	}

	var lazyDB *sqlite.LazyDB
	if cfg.Cache.Persist {
		lazyDB = sqlite.NewLazyDB(cfg.Cache.DatabasePath)
		db, err := lazyDB.DB(ctx)
		if err != nil {
			return nil, fmt.Errorf("open icon cache database: %w", err)
		}
		writer := iconcache.NewWriter(ctx, sqlite.NewIconCacheRepository(db))
		storeOpts.Writer = writer
		// the writer drains before the database closes
		a.addCloser(func(context.Context) error { return lazyDB.Close() })
		a.addCloser(func(context.Context) error { writer.Close(); return nil })
	}

	store := iconcache.NewStore(storeOpts)
	if lazyDB != nil {
		db, _ := lazyDB.DB(ctx)
		if _, err := store.Load(ctx, sqlite.NewIconCacheRepository(db)); err != nil {
			log.Warn().Err(err).Msg("icon cache not restored")
		}
	}
	store.StartJanitor(ctx, cfg.Cache.SweepInterval())

	sources := usecase.IconSources{
		Resolver: pathresolve.New(a.fs, pathresolve.Options{
			SearchRoots: cfg.Scan.SearchRoots,
			MaxDepth:    cfg.Scan.ResolveMaxDepth,
		}),
		Extractor: iconextract.New(a.fs),
		Scanner: vendorscan.New(a.fs, vendorscan.Options{
			Roots:             cfg.Scan.VendorRoots,
			MaxDepth:          cfg.Scan.VendorMaxDepth,
			MaxEntriesPerDir:  cfg.Scan.MaxEntriesPerDir,
			MaxMatchedFolders: cfg.Scan.MaxMatchedFolders,
		}),
	}

	generic, err := genericicon.NewProvider(cfg.Icons.PreferredSize)
	if err != nil {
		return nil, fmt.Errorf("load generic icons: %w", err)
	}
	sources.Generic = generic

	if cfg.Icons.RemoteEnabled {
		sources.Remote = remoteicon.NewProvider(nil, remoteicon.Options{
			BaseURL:  cfg.Icons.RemoteBaseURL,
			Timeout:  cfg.Icons.RemoteTimeout(),
			IconSize: cfg.Icons.PreferredSize,
		})
	}

	if cfg.Icons.CustomEnabled {
		custom, err := customicon.Open(ctx, a.fs, cfg.Icons.CustomDir, nil)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Icons.CustomDir).Msg("some custom icons could not be loaded")
		}
		sources.Custom = custom
		a.addCloser(func(context.Context) error { return custom.Close() })
	}

	a.Manager.OnConfigChange(config.ApplyTTLs(ctx, store))
	if err := a.Manager.Watch(ctx); err != nil {
		log.Warn().Err(err).Msg("config watch disabled")
	}

	resolve := usecase.NewResolveIconUseCase(store, sources, usecase.ResolveOptions{
		PreferredSize: cfg.Icons.PreferredSize,
		Arch:          cfg.Scan.Arch,
		RemoteEnabled: cfg.Icons.RemoteEnabled,
		CustomEnabled: cfg.Icons.CustomEnabled,
	})

	return &Icons{
		Resolve:   resolve,
		Inventory: usecase.NewResolveInventoryUseCase(resolve, cfg.Inventory.Concurrency),
		Cache:     store,
	}, nil
}

func (a *App) addCloser(fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	if a.stop != nil {
		a.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
