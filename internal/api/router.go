package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sabbirahmed404/trend-ai/internal/ai"
	"github.com/sabbirahmed404/trend-ai/internal/api/handlers"
	apimiddleware "github.com/sabbirahmed404/trend-ai/internal/api/middleware"
	"github.com/sabbirahmed404/trend-ai/internal/config"
	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
)

// SetupRouter wires the JSON API and the dashboard page. aiService may be nil
// when no AI key is configured; the AI routes then answer 503.
func SetupRouter(mgr *dashboard.Manager, aiService *ai.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// API group, basic-auth-protected when a password is configured
	api := e.Group("/api")
	if cfg.DashboardPassword != "" {
		api.Use(apimiddleware.BasicAuthMiddleware(cfg.DashboardUsername, cfg.DashboardPassword))
	}

	// Create handlers
	postsHandler := handlers.NewPostsHandler(mgr)
	subredditsHandler := handlers.NewSubredditsHandler(mgr)
	aiHandler := handlers.NewAIHandler(mgr, aiService)
	exportHandler := handlers.NewExportHandler(mgr)
	dashboardHandler := handlers.NewDashboardHandler(mgr)

	// Register routes
	api.GET("/posts/:subreddit", postsHandler.GetPosts)
	api.GET("/me", postsHandler.GetMe)
	api.POST("/subreddits", subredditsHandler.Track)
	api.GET("/subreddits", subredditsHandler.List)
	api.DELETE("/subreddits/:name", subredditsHandler.Untrack)
	api.POST("/summarize", aiHandler.Summarize)
	api.POST("/chat", aiHandler.Chat)
	api.GET("/export", exportHandler.ExportText)

	e.GET("/dashboard/:subreddit", dashboardHandler.Render)

	return e
}
