package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
)

type Config struct {
	Name string
	Host string
	Port string

	// Per-request access logging
	LogRequests bool

	// Upload limits
	MaxBodyBytes int64

	// GitHub repository search
	GitHubAPIURL  string
	GitHubToken   string
	GitHubQuery   string
	GitHubPerPage int
	GitHubPage    int
	SearchTimeout time.Duration
	StatsWindow   time.Duration

	// Static files served under /public, disabled when empty
	StaticDir string
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"name":            "SERVER_NAME",
	"host":            "HOST",
	"port":            "PORT",
	"log_requests":    "LOG_REQUESTS",
	"max_body_bytes":  "MAX_BODY_BYTES",
	"github.api_url":  "GITHUB_API_URL",
	"github.token":    "GITHUB_TOKEN",
	"github.query":    "GITHUB_QUERY",
	"github.per_page": "GITHUB_PER_PAGE",
	"github.page":     "GITHUB_PAGE",
	"search_timeout":  "SEARCH_TIMEOUT",
	"stats_window":    "STATS_WINDOW",
	"static_dir":      "STATIC_DIR",
}

// Load reads configuration from the environment, layered over an optional
// YAML file named by ASSETREE_CONFIG and the built-in defaults.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("name", "assetree")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", "3000")
	v.SetDefault("log_requests", true)
	v.SetDefault("max_body_bytes", 1<<20) // 1MB
	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("github.query", "nodejs")
	v.SetDefault("github.per_page", 10)
	v.SetDefault("github.page", 1)
	v.SetDefault("search_timeout", 10*time.Second)
	v.SetDefault("stats_window", 1*time.Hour)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("ASSETREE_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Name:        v.GetString("name"),
		Host:        v.GetString("host"),
		Port:        v.GetString("port"),
		LogRequests: v.GetBool("log_requests"),

		MaxBodyBytes: v.GetInt64("max_body_bytes"),

		GitHubAPIURL:  v.GetString("github.api_url"),
		GitHubToken:   v.GetString("github.token"),
		GitHubQuery:   v.GetString("github.query"),
		GitHubPerPage: v.GetInt("github.per_page"),
		GitHubPage:    v.GetInt("github.page"),
		SearchTimeout: v.GetDuration("search_timeout"),
		StatsWindow:   v.GetDuration("stats_window"),

		StaticDir: v.GetString("static_dir"),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.GitHubPage <= 0 {
		cfg.GitHubPage = 1
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if n := utf8.RuneCountInString(c.Name); n < 1 || n > 30 {
		return fmt.Errorf("SERVER_NAME must be 1 to 30 characters, got %d", n)
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("PORT must be an integer between 0 and 65535, got %q", c.Port)
	}
	if c.GitHubPerPage < 1 || c.GitHubPerPage > 100 {
		return fmt.Errorf("GITHUB_PER_PAGE must be between 1 and 100, got %d", c.GitHubPerPage)
	}
	if c.GitHubAPIURL == "" {
		return fmt.Errorf("GITHUB_API_URL is required")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
