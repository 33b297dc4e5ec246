package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sabbirahmed404/trend-ai/internal/ai"
	"github.com/sabbirahmed404/trend-ai/internal/api"
	"github.com/sabbirahmed404/trend-ai/internal/browser"
	"github.com/sabbirahmed404/trend-ai/internal/config"
	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
	"github.com/sabbirahmed404/trend-ai/internal/database"
	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	logger.Info("configuration loaded", "transport", cfg.RedditTransport)

	// 2. Initialize database
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	logger.Info("database initialized", "path", cfg.DatabasePath)

	// 3. Build the Reddit client on the configured transport
	var session reddit.Session
	switch cfg.RedditTransport {
	case "direct":
		session = reddit.NewDirectSession()
	default:
		session = browser.NewSession(logger.With("component", "browser"))
	}

	client := reddit.NewClient(logger.With("component", "reddit"), reddit.Credentials{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		Username:     cfg.RedditUsername,
		Password:     cfg.RedditPassword,
	}, session)

	// 4. Build the AI service when configured
	var aiService *ai.Service
	if cfg.AIAPIKey != "" {
		aiService = ai.NewService(logger.With("component", "ai"), ai.Config{
			APIKey:  cfg.AIAPIKey,
			BaseURL: cfg.AIBaseURL,
			Model:   cfg.AIModel,
		})
		logger.Info("AI service initialized", "model", cfg.AIModel)
	} else {
		logger.Warn("AI_API_KEY not set, AI routes disabled")
	}

	// 5. Initialize dashboard manager
	mgr := dashboard.NewManager(db, client, logger.With("component", "dashboard"))

	// 6. Warm the cache for tracked subreddits
	if err := mgr.RefreshAll(context.Background()); err != nil {
		logger.Error("failed to warm post cache", "error", err)
	}

	// 7. Start the refresher
	refresher := dashboard.NewRefresher(mgr, logger.With("component", "refresher"), cfg.RefreshInterval)
	ctx, cancel := context.WithCancel(context.Background())

	go refresher.Start(ctx)

	// 8. Setup API router and start serving
	router := api.SetupRouter(mgr, aiService, cfg)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("starting API server", "addr", addr)
		if err := router.Start(addr); err != nil {
			logger.Error("API server stopped", "error", err)
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("shutdown signal received, gracefully shutting down")

	// 10. Graceful shutdown: stop the refresher, drain the server, then
	// release the browser session. The cleanup must run on every exit path.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down API server", "error", err)
	}

	if err := mgr.Close(); err != nil {
		logger.Error("failed to clean up Reddit session", "error", err)
	}

	logger.Info("shutdown complete")
}
