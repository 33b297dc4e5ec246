package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort      int
	DatabasePath string

	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	RedditTransport    string // "browser" or "direct"

	RefreshInterval int // Seconds between refresh checks

	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	DashboardUsername string
	DashboardPassword string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:            getEnvAsInt("API_PORT", 8080),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/trendai.db"),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUsername:     getEnv("REDDIT_USERNAME", ""),
		RedditPassword:     getEnv("REDDIT_PASSWORD", ""),
		RedditTransport:    getEnv("REDDIT_TRANSPORT", "browser"),
		RefreshInterval:    getEnvAsInt("REFRESH_INTERVAL", 600),
		AIAPIKey:           getEnv("AI_API_KEY", ""),
		AIBaseURL:          getEnv("AI_BASE_URL", ""),
		AIModel:            getEnv("AI_MODEL", "gemini-2.0-flash"),
		DashboardUsername:  getEnv("DASHBOARD_USERNAME", "admin"),
		DashboardPassword:  getEnv("DASHBOARD_PASSWORD", ""),
	}

	// Validate required fields
	var missing []string
	for _, v := range []struct{ key, val string }{
		{"REDDIT_CLIENT_ID", cfg.RedditClientID},
		{"REDDIT_CLIENT_SECRET", cfg.RedditClientSecret},
		{"REDDIT_USERNAME", cfg.RedditUsername},
		{"REDDIT_PASSWORD", cfg.RedditPassword},
	} {
		if v.val == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.RedditTransport != "browser" && cfg.RedditTransport != "direct" {
		return nil, fmt.Errorf("REDDIT_TRANSPORT must be 'browser' or 'direct', got %q", cfg.RedditTransport)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
