package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/friendsincode/projecton/internal/catalog"
	"github.com/friendsincode/projecton/internal/config"
	"github.com/friendsincode/projecton/internal/coordinator"
	"github.com/friendsincode/projecton/internal/db"
	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/logging"
	"github.com/friendsincode/projecton/internal/media"
	"github.com/friendsincode/projecton/internal/paginate"
	"github.com/friendsincode/projecton/internal/plan"
	"github.com/friendsincode/projecton/internal/remote"
	"github.com/friendsincode/projecton/internal/render"
	"github.com/friendsincode/projecton/internal/scripture"
	"github.com/friendsincode/projecton/internal/settings"
	"github.com/friendsincode/projecton/internal/telemetry"
	"github.com/friendsincode/projecton/internal/version"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "projecton [service.pro]",
	Short: "ProjectOn - Live worship presentation engine",
	Long:  "ProjectOn drives lyric, scripture, and media slides to an audience display, with phone and stage remotes over the local network.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve [service.pro]",
	Short: "Start the presentation engine",
	Long:  "Start the presentation engine and the remote control surface, optionally opening a service file",
	Args:  cobra.ArbitraryArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger.Info().Str("version", version.Version).Msg("ProjectOn starting")

	// A usable data directory is non-negotiable: without it there is no
	// catalog, no bibles, no media.
	if info, err := os.Stat(cfg.DataDir); err != nil || !info.IsDir() {
		logger.Error().Str("dir", cfg.DataDir).Msg("data directory missing; cannot continue")
		os.Exit(-1)
	}

	tracerProvider, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "projecton",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)
	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()

	store, err := settings.NewStore(cfg.DataDir, bus)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	storage, err := media.NewStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}
	if fs, ok := storage.(*media.FilesystemStorage); ok {
		if err := fs.EnsureLayout(); err != nil {
			return fmt.Errorf("prepare media directories: %w", err)
		}
	}
	if err := storage.CheckAccess(ctx); err != nil {
		return fmt.Errorf("media storage: %w", err)
	}

	cat := catalog.New(database, logger)
	indexThumbnails(cat)

	bible := openDefaultBible(store)

	paginator := paginate.New(nil, logger)
	renderer := render.NewHeadless(paginate.Target{Width: 1280, Height: 720, FooterHeight: 60}, logger)
	coord := coordinator.New(paginator, renderer, store, bus, logger)
	go coord.Run(ctx)

	if path := proFileArg(args); path != "" {
		openService(coord, cat, bible, store, path)
	}

	server, err := remote.New(cfg, coord, store, bus, cancel, logger)
	if err != nil {
		return fmt.Errorf("init remote surface: %w", err)
	}

	checker := remote.NewChecker(bus, logger)
	go checker.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info().Msg("shutting down gracefully...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		<-errCh
	}

	logger.Info().Msg("ProjectOn stopped")
	return nil
}

// indexThumbnails reconciles the thumbnail tables with the media
// directories. Failures are logged, not fatal; the operator just loses
// previews until the next start.
func indexThumbnails(cat *catalog.Service) {
	if err := cat.IndexThumbnails(cfg.BackgroundsDir(), catalog.TableBackgrounds); err != nil {
		logger.Error().Err(err).Msg("index background thumbnails")
	}
	if err := cat.IndexThumbnails(cfg.ImagesDir(), catalog.TableImages); err != nil {
		logger.Error().Err(err).Msg("index image thumbnails")
	}
}

// openDefaultBible loads the corpus named in settings, falling back to
// the first corpus found in the bibles directory.
func openDefaultBible(store *settings.Store) *scripture.Corpus {
	if name := store.Snapshot().DefaultBible; name != "" {
		corpus, err := scripture.LoadCorpus(filepath.Join(cfg.BiblesDir(), name))
		if err != nil {
			logger.Error().Err(err).Str("bible", name).Msg("load default bible")
			return nil
		}
		return corpus
	}

	byPath, names, err := scripture.ListCorpora(cfg.BiblesDir())
	if err != nil || len(names) == 0 {
		return nil
	}
	for path, name := range byPath {
		if name != names[0] {
			continue
		}
		corpus, err := scripture.LoadCorpus(path)
		if err != nil {
			logger.Error().Err(err).Str("bible", name).Msg("load bible")
			return nil
		}
		logger.Info().Str("bible", name).Msg("no default bible set; using first available")
		return corpus
	}
	return nil
}

// openService loads a .pro file into the coordinator, resolving each
// entry against the catalog and the media directories.
func openService(coord *coordinator.Coordinator, cat *catalog.Service, bible *scripture.Corpus, store *settings.Store, path string) {
	result, err := plan.Load(path, plan.Resolver{
		Catalog:   cat,
		Bible:     bible,
		ImagesDir: cfg.ImagesDir(),
		VideosDir: cfg.VideosDir(),
		Logger:    logger,
	})
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("open service file")
		return
	}
	for _, warning := range result.Warnings {
		logger.Warn().Str("path", path).Msg(warning)
	}

	coord.SetService(result.Items, path)
	if err := store.AddRecentService(path); err != nil {
		logger.Error().Err(err).Msg("record recent service")
	}
	logger.Info().Str("path", path).Int("items", len(result.Items)).Msg("service file opened")
}

// proFileArg returns the first argument carrying the service-file
// suffix.
func proFileArg(args []string) string {
	for _, arg := range args {
		if strings.HasSuffix(strings.ToLower(arg), ".pro") {
			return arg
		}
	}
	return ""
}

// initDatabase opens the catalog database (used by import and export
// commands).
func initDatabase() (*gorm.DB, error) {
	return db.Connect(cfg)
}
