package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wordflow/wordflow-api/internal/config"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/domain/schedule"
	"github.com/wordflow/wordflow-api/internal/generation"
	"github.com/wordflow/wordflow-api/internal/platform/gemini"
	"github.com/wordflow/wordflow-api/internal/platform/lexicon"
	"github.com/wordflow/wordflow-api/internal/platform/postgres"
	"github.com/wordflow/wordflow-api/internal/service/auth"
	"github.com/wordflow/wordflow-api/internal/service/delivery"
	"github.com/wordflow/wordflow-api/internal/service/quota"
	"github.com/wordflow/wordflow-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	userStore store.UserStore

	quotaGuard *quota.Guard
	selector   *delivery.Selector
}

// newApplication builds all services from configuration. Construction is
// eager: any missing dependency fails startup instead of a request.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewUserStore(db, logger)
	itemStore := postgres.NewLearningItemStore(db, logger)
	deliveryStore := postgres.NewDeliveryStore(db, logger)
	termStore := postgres.NewTermStore(db, logger)
	subjectStore := postgres.NewSubjectStore(db, logger)
	quotaStore := postgres.NewQuotaStore(db, logger)

	modelPipeline, err := gemini.NewGenerator(context.Background(), logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create model pipeline: %w", err)
	}

	sourcePipeline, err := lexicon.NewClient(
		cfg.Generation.SourceURL,
		&http.Client{Timeout: 15 * time.Second},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source pipeline: %w", err)
	}

	orchestrator := generation.NewOrchestrator(
		sourcePipeline,
		modelPipeline,
		termStore,
		generation.OrchestratorConfig{
			MinConfidence:  cfg.Generation.MinConfidence,
			SourceFirstCap: cfg.Generation.SourceFirstCap,
			ModelFirstCap:  cfg.Generation.ModelFirstCap,
		},
		logger,
	)

	quotaGuard := quota.NewGuard(quotaStore, userStore, tierConfigFromQuota(cfg.Quota), logger)

	selector := delivery.NewSelector(
		itemStore,
		deliveryStore,
		termStore,
		subjectStore,
		delivery.NewStoreTransactor(db, itemStore, deliveryStore),
		quotaGuard,
		orchestrator,
		schedule.NewDefaultService(),
		delivery.SelectorConfig{
			GenerationTimeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
			DefaultStrategy:   generation.StrategySourceFirst,
		},
		logger,
	)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		jwtService:       jwtService,
		userStore:        userStore,
		passwordHasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		passwordVerifier: auth.NewBcryptVerifier(),
		quotaGuard:       quotaGuard,
		selector:         selector,
	}, nil
}

// tierConfigFromQuota overlays configured per-tier limits on the built-in
// tier configuration. Zero values keep the defaults.
func tierConfigFromQuota(cfg config.QuotaConfig) domain.TierConfig {
	tiers := domain.DefaultTierConfig()
	if cfg.FreeMaxPerPeriod > 0 {
		limits := tiers[domain.TierFree]
		limits.MaxRequestsPerPeriod = cfg.FreeMaxPerPeriod
		tiers[domain.TierFree] = limits
	}
	if cfg.PlusMaxPerPeriod > 0 {
		limits := tiers[domain.TierPlus]
		limits.MaxRequestsPerPeriod = cfg.PlusMaxPerPeriod
		tiers[domain.TierPlus] = limits
	}
	if cfg.ProMaxPerPeriod > 0 {
		limits := tiers[domain.TierPro]
		limits.MaxRequestsPerPeriod = cfg.ProMaxPerPeriod
		tiers[domain.TierPro] = limits
	}
	return tiers
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.setupRouter(),
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutting down server")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
