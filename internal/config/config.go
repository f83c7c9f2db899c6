package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Sessions
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Uploads
	UploadDir   string `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB int64  `mapstructure:"MAX_UPLOAD_MB"`

	// CAD agent bridge
	AgentURL            string `mapstructure:"AGENT_URL"`
	AgentToken          string `mapstructure:"AGENT_TOKEN"`
	AgentTimeoutSeconds int    `mapstructure:"AGENT_TIMEOUT_SECONDS"`

	// Server-side open fallback (argument-vector exec, disabled by default)
	EnableLocalOpen bool `mapstructure:"ENABLE_LOCAL_OPEN"`

	// Dashboard PDF reports
	ReportDir string `mapstructure:"REPORT_DIR"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 3000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "stock.db")
	viper.SetDefault("SESSION_SECRET", "dev-session-secret")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_MB", 50)
	viper.SetDefault("AGENT_URL", "http://127.0.0.1:3001")
	viper.SetDefault("AGENT_TOKEN", "")
	viper.SetDefault("AGENT_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ENABLE_LOCAL_OPEN", false)
	viper.SetDefault("REPORT_DIR", "reports")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
