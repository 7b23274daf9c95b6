package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sensai/assist-backend/internal/api"
	assistapi "github.com/sensai/assist-backend/internal/api/assist"
	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"github.com/sensai/assist-backend/internal/integration/anthropic"
	"github.com/sensai/assist-backend/internal/integration/gemini"
	"github.com/sensai/assist-backend/internal/integration/openai"
	"github.com/sensai/assist-backend/internal/pkg/usage"
	"github.com/sensai/assist-backend/internal/pkg/validator"
	"github.com/sensai/assist-backend/internal/repository"
	assistuc "github.com/sensai/assist-backend/internal/usecase/assist"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// The usage store is optional: without DATABASE_URL the pipeline runs
	// stateless and outcomes are not persisted.
	var db *pgxpool.Pool
	var usageRecorder assistuc.UsageRecorder
	if cfg.DatabaseURL != "" {
		db, err = setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		usageRecorder = repository.NewUsagePostgres(db)
		logger.Info("Usage repository initialized")
	}

	// Initialize providers (with mock support)
	var primary assistuc.Generator
	var fallback assistuc.Generator
	var evaluator assistuc.Evaluator

	if cfg.EnableMocks {
		logger.Info("Using mock providers for external services")
		primary = anthropic.NewMockGenerator(logger)
		fallback = gemini.NewMockGenerator(logger)
		evaluator = openai.NewMockEvaluator(logger)
	} else {
		logger.Info("Using real providers for external services")
		primary = anthropic.NewGenerator(cfg.AnthropicCfg, logger)
		fallback = gemini.NewGenerator(cfg.GeminiCfg, logger)
		// Without an evaluator key the quality gate degrades to single
		// unevaluated attempts instead of failing requests.
		if cfg.OpenAICfg.APIKey != "" {
			evaluator = openai.NewEvaluator(cfg.OpenAICfg, cfg.PipelineCfg.ScoreThreshold, logger)
		} else {
			logger.Warn("OPENAI_API_KEY not set, evaluation disabled")
		}
	}

	// Initialize validators and the daily limiter
	requestValidator := validator.New(cfg.PipelineCfg.MaxAttempts)
	limiter := usage.NewLimiter(cfg.UsageCfg.DailyLimit)
	logger.Info("Validators initialized", zap.Int("daily_limit", cfg.UsageCfg.DailyLimit))

	// Initialize use cases
	assistUC := assistuc.NewUsecase(primary, fallback, evaluator, usageRecorder, cfg.PipelineCfg, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	defaults := entity.PipelineOptions{
		UseEvaluation: cfg.PipelineCfg.UseEvaluation,
		MaxAttempts:   cfg.PipelineCfg.MaxAttempts,
	}
	assistHandler := assistapi.NewHandler(assistUC, requestValidator, limiter, defaults)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(assistHandler, cfg.AllowedOrigins, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
