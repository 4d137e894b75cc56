// Command site serves the blog: every request path names a template that is
// rendered with the template helper context.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/config"
	hhttp "inkwell/internal/handler/http"
	"inkwell/internal/handler/http/page"
	pg "inkwell/internal/infra/adapter/persistence/postgres"
	"inkwell/internal/infra/db"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/observability/tracing"
	pkgconfig "inkwell/internal/pkg/config"
	"inkwell/internal/render"
	"inkwell/internal/templatectx"

	archiveUC "inkwell/internal/usecase/archive"
	articleUC "inkwell/internal/usecase/article"
	categoryUC "inkwell/internal/usecase/category"
	labelUC "inkwell/internal/usecase/label"
	queryUC "inkwell/internal/usecase/query"
)

// dbStatsInterval is how often the pool gauges are refreshed.
const dbStatsInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		slog.Error("site stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)
	applyFallbacks(logger, cfg)

	if cfg.Tracing.Enabled {
		tp := tracing.Setup(cfg.Tracing.SampleRatio)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown failed", slog.Any("error", err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database.DSN, db.ConnectionConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		PingTimeout:     cfg.Database.PingTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler, err := setupHandler(logger, cfg, database)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("version", version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})
	g.Go(func() error {
		reportDBStats(gctx, database)
		return nil
	})

	return g.Wait()
}

func setupHandler(logger *slog.Logger, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	loc := cfg.Site.Location()
	now := func() time.Time { return time.Now().In(loc) }

	articles := pg.NewArticleRepo(database)
	models := pg.Models()

	opts := []render.Option{
		render.WithBaseDir(cfg.Templates.Dir),
		render.WithExtension(cfg.Templates.Extension),
		render.WithGlobalData(map[string]any{"version": version()}),
	}
	if !cfg.Templates.Cache {
		opts = append(opts, render.WithoutCache())
	}
	engine, err := render.New(opts...)
	if err != nil {
		return nil, err
	}

	processor := &templatectx.Processor{
		Archives:      &archiveUC.Service{Repo: articles, Now: now},
		Articles:      &articleUC.Service{Repo: articles, Now: now},
		Categories:    &categoryUC.Service{Repo: pg.NewCategoryRepo(database)},
		Labels:        &labelUC.Service{Repo: pg.NewLabelRepo(database)},
		Queries:       &queryUC.Service{Repo: pg.NewModelRepo(database), Models: models},
		Models:        models,
		Renderer:      engine,
		MaxLabelDepth: cfg.Site.LabelMaxDepth,
		Logger:        logger,
	}

	var static http.Handler
	if info, err := os.Stat(cfg.Templates.StaticDir); err == nil && info.IsDir() {
		static = http.FileServerFS(os.DirFS(cfg.Templates.StaticDir))
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Logger:  logger,
		DB:      database,
		Version: version(),
		Pages: &page.Handler{
			Renderer: engine,
			Contexts: processor,
			NotFound: cfg.Templates.NotFound,
		},
		Static:         static,
		MetricsPath:    cfg.Server.MetricsPath,
		RequestTimeout: cfg.Server.RequestTimeout,
	}), nil
}

func applyFallbacks(logger *slog.Logger, cfg *config.Config) {
	cm := pkgconfig.NewConfigMetrics("inkwell")
	fallbacks := cfg.ApplyFallbacks()
	for _, f := range fallbacks {
		cm.RecordValidationError(f.Field)
		cm.RecordFallback(f.Field)
		logger.Warn("configuration fallback applied", slog.String("field", f.Field), slog.Any("error", f.Err))
	}
	cm.SetFallbackActive(len(fallbacks) > 0)
	cm.RecordLoadTimestamp()
}

func reportDBStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()
	for {
		metrics.UpdateDBStats(database.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
