package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-ai-trader/internal/trader/config"
	traderhttp "golang-ai-trader/internal/trader/delivery/http"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/internal/trader/service"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/postgres"
	"golang-ai-trader/pkg/redis"
	"golang-ai-trader/pkg/telegram"

	"google.golang.org/genai"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trading bot",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Trading Bot", zap.String("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	tradeRecordRepo := repository.NewTradeRecordRepository(db.DB)
	aiDecisionRepo := repository.NewAIDecisionRepository(db.DB)
	alpacaRepo := repository.NewAlpacaRepository(cfg, appLogger)
	fundamentalsRepo := repository.NewYahooFundamentalsRepository(cfg, appLogger)
	yahooFinanceRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", zap.Error(err))
	}

	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
	}
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
	}

	// Initialize services
	indicatorSvc := service.NewIndicatorService(yahooFinanceRepo, appLogger)
	contextSvc := service.NewMarketContextService(fundamentalsRepo, appLogger)
	decisionSvc := service.NewDecisionService(cfg, appLogger, aiRepo, aiDecisionRepo)
	sizerSvc := service.NewPositionSizerService(cfg, appLogger)
	riskSvc := service.NewRiskManagerService(cfg, appLogger)
	portfolioSvc := service.NewPortfolioService(appLogger, alpacaRepo)
	executorSvc := service.NewTradeExecutorService(cfg, appLogger, sizerSvc, alpacaRepo, portfolioSvc, yahooFinanceRepo, tradeRecordRepo, redisClient, telegramNotifier)
	botSvc := service.NewBotService(cfg, appLogger, indicatorSvc, contextSvc, decisionSvc, executorSvc, riskSvc, portfolioSvc, alpacaRepo, telegramNotifier)
	reportSvc := service.NewReportService(cfg, appLogger, tradeRecordRepo, portfolioSvc, riskSvc, telegramNotifier)

	if err := reportSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start report scheduler", zap.Error(err))
	}
	defer reportSvc.Stop()

	// Start HTTP status API
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	statusHandler := traderhttp.NewStatusHandler(portfolioSvc, riskSvc, executorSvc, botSvc, tradeRecordRepo, appLogger)
	statusHandler.RegisterRoutes(e.Group("/api/v1"))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Run the trading loop
	go func() {
		if err := botSvc.Run(ctx); err != nil && err != context.Canceled {
			appLogger.Error("Trading loop stopped", logger.ErrorField(err))
		}
	}()

	appLogger.Info("Trading bot started")

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down trading bot...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Trading bot stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "trading-bot"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-trader.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing trading-bot CLI: %s\n", err)
		os.Exit(1)
	}
}
