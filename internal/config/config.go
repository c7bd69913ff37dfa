package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/heart-risk-server/internal/domain"
)

// Model lifecycle and archive backend names accepted in configuration.
// Mirrored here so Validate does not pull in the packages it configures.
const (
	modelModeTrain = "train"
	modelModeLoad  = "load"

	archiveSQLite   = "sqlite"
	archivePostgres = "postgres"
	archiveNone     = "none"
)

// Manager loads and validates application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/heart-risk-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("HEART_RISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit", 10.0)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Model defaults
	viper.SetDefault("model.mode", modelModeTrain)
	viper.SetDefault("model.dataset_path", "heart_disease_data.csv")
	viper.SetDefault("model.state_path", "data/model_state.json")
	viper.SetDefault("model.save_state", false)

	// Codec defaults
	viper.SetDefault("codec.profile", string(domain.STANDARD))
	viper.SetDefault("codec.thal_scheme", string(domain.UCI4))

	// Risk banding defaults
	viper.SetDefault("risk.policy", string(domain.FIVE_BAND))

	// History defaults
	viper.SetDefault("history.capacity", 10)

	// Archive defaults
	viper.SetDefault("archive.backend", archiveSQLite)
	viper.SetDefault("archive.sqlite_path", "data/assessments.db")
	viper.SetDefault("archive.database_url", "")
	viper.SetDefault("archive.migrations_path", "migrations")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetModelConfig returns scoring model configuration
func (m *Manager) GetModelConfig() *domain.ModelConfig {
	return &m.config.Model
}

// GetArchiveConfig returns report archive configuration
func (m *Manager) GetArchiveConfig() *domain.ArchiveConfig {
	return &m.config.Archive
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimit <= 0 {
		return fmt.Errorf("invalid rate limit: %f", config.Server.RateLimit)
	}

	// Validate model lifecycle configuration
	switch config.Model.Mode {
	case modelModeTrain:
		if config.Model.DatasetPath == "" {
			return fmt.Errorf("model dataset path is required in train mode")
		}
	case modelModeLoad:
		if config.Model.StatePath == "" {
			return fmt.Errorf("model state path is required in load mode")
		}
	default:
		return fmt.Errorf("invalid model mode: %s", config.Model.Mode)
	}

	// Validate codec configuration
	if !config.Codec.Profile.IsValid() {
		return fmt.Errorf("invalid codec profile: %s", config.Codec.Profile)
	}
	if !config.Codec.ThalScheme.IsValid() {
		return fmt.Errorf("invalid thalassemia scheme: %s", config.Codec.ThalScheme)
	}

	// Validate risk banding configuration
	if !config.Risk.Policy.IsValid() {
		return fmt.Errorf("invalid risk banding policy: %s", config.Risk.Policy)
	}

	// Validate history configuration
	if config.History.Capacity <= 0 {
		return fmt.Errorf("invalid history capacity: %d", config.History.Capacity)
	}

	// Validate archive configuration
	switch config.Archive.Backend {
	case archiveSQLite:
		if config.Archive.SQLitePath == "" {
			return fmt.Errorf("archive sqlite path is required")
		}
	case archivePostgres:
		if config.Archive.DatabaseURL == "" {
			return fmt.Errorf("archive database URL is required")
		}
	case archiveNone:
	default:
		return fmt.Errorf("invalid archive backend: %s", config.Archive.Backend)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(viper.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}
