package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/internal/ai"
	"github.com/hugh/lawconnect/internal/api"
	"github.com/hugh/lawconnect/internal/api/middleware"
	"github.com/hugh/lawconnect/internal/audit"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/cases"
	"github.com/hugh/lawconnect/internal/database"
	"github.com/hugh/lawconnect/pkg/config"
	"github.com/hugh/lawconnect/pkg/crypto"
	"github.com/hugh/lawconnect/pkg/queue"
	"github.com/hugh/lawconnect/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting LawConnect server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"ai_provider", cfg.AI.Provider,
	)

	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it reset notices are not queued and rate
	// limiting falls back to process memory.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	var asynqClient *asynq.Client
	var limiter middleware.Limiter
	var memLimiter *middleware.MemoryLimiter
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, window)
	} else {
		memLimiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, window)
		limiter = memLimiter
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry(),
		auth.WithRefreshExpiry(cfg.JWT.RefreshExpiry()))
	authService := auth.NewService(db, jwtService)
	ledger := auth.NewLedger(db, cfg.Reset.TTL(), cfg.Reset.ClientURL)

	completer, err := newCompleter(cfg)
	if err != nil {
		logger.Error("failed to create AI client", "error", err)
		os.Exit(1)
	}
	proxy := ai.NewProxy(completer, cfg.AI.Timeout(), logger)

	recorderOpts := []audit.Option{audit.WithLimits(cfg.Audit.DefaultLimit, cfg.Audit.MaxLimit)}
	if cfg.Encryption.Key != "" {
		sealer, err := crypto.NewSealer(cfg.Encryption.Key)
		if err != nil {
			logger.Error("failed to load ENCRYPTION_KEY", "error", err)
			os.Exit(1)
		}
		recorderOpts = append(recorderOpts, audit.WithSealer(sealer))
	} else {
		logger.Warn("ENCRYPTION_KEY not set, AI audit records are stored in plaintext")
	}
	recorder := audit.NewRecorder(db, recorderOpts...)

	routerCfg := api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Tokens:         jwtService,
		AuthService:    authService,
		Ledger:         ledger,
		Proxy:          proxy,
		Recorder:       recorder,
		Cases:          cases.NewService(db),
		Limiter:        limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Production:     cfg.Server.IsProduction(),
	}
	if asynqClient != nil {
		routerCfg.Queue = asynqClient
	}
	router := api.NewRouter(routerCfg)

	// WriteTimeout leaves room for the AI upstream deadline.
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if memLimiter != nil {
		memLimiter.Stop()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}

func newCompleter(cfg *config.Config) (ai.Completer, error) {
	if cfg.AI.Provider == "gemini" {
		gemini, err := ai.NewGeminiCompleter(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}
	return ai.NewHTTPCompleter(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Timeout()), nil
}
