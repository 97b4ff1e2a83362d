package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"gigpaisa/internal/agents"
	"gigpaisa/internal/api"
	"gigpaisa/internal/api/handlers"
	"gigpaisa/internal/repository"
	"gigpaisa/internal/service"
	"gigpaisa/pkg/auth"
	"gigpaisa/pkg/config"
	"gigpaisa/pkg/logger"
	"gigpaisa/pkg/metrics"
	"gigpaisa/pkg/postgres"
)

// analysisTimeout bounds a full nine-agent run for one user.
const analysisTimeout = 15 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting gigpaisa service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector("gigpaisa", registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	agentRepo := repository.NewAgentResultRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, cfg.Parser.GenerationTimeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	ocrService, err := service.NewOCRService(&cfg.OCR, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OCR service", zap.Error(err))
	}
	defer ocrService.Close()

	speechService := service.NewSpeechService(cfg.Whisper.URL, cfg.Whisper.Timeout, appLogger)

	parserService := service.NewParserService(ocrService, speechService, llmService, &cfg.Parser, collector, appLogger)
	transactionService := service.NewTransactionService(txRepo, appLogger)

	// Agents
	specs := agents.Specs()
	executor, err := agents.NewExecutor(llmService, txRepo, agentRepo, specs, collector, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize agent executor", zap.Error(err))
	}
	orchestrator, err := agents.NewOrchestrator(executor, specs, analysisTimeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize orchestrator", zap.Error(err))
	}
	defer orchestrator.Close()

	// Upload directory for incoming files
	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		appLogger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	parseHandler := handlers.NewParseHandler(parserService, cfg.Server.UploadDir, appLogger)
	transactionHandler := handlers.NewTransactionHandler(transactionService, appLogger)
	analysisHandler := handlers.NewAnalysisHandler(orchestrator, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, authHandler, parseHandler, transactionHandler, analysisHandler, jwtManager, registry, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
