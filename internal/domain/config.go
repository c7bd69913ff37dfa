package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Codec    CodecConfig    `mapstructure:"codec"`
	Risk     RiskConfig     `mapstructure:"risk"`
	History  HistoryConfig  `mapstructure:"history"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`       // requests per second per client
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// ModelConfig represents scoring model lifecycle configuration.
// Mode "train" fits the model once at startup from the reference dataset;
// mode "load" reads previously persisted trained state and refuses to score
// if it is missing or unreadable.
type ModelConfig struct {
	Mode        string `mapstructure:"mode"`         // "train" or "load"
	DatasetPath string `mapstructure:"dataset_path"` // reference CSV, train mode
	StatePath   string `mapstructure:"state_path"`   // persisted trained state, load mode
	SaveState   bool   `mapstructure:"save_state"`   // persist trained state after a train-mode fit
}

// CodecConfig represents feature encoding configuration. Profile and scheme
// resolve the dataset disagreements on field domains; see DomainProfile and
// ThalassemiaScheme.
type CodecConfig struct {
	Profile    DomainProfile     `mapstructure:"profile"`
	ThalScheme ThalassemiaScheme `mapstructure:"thal_scheme"`
}

// RiskConfig represents risk banding configuration
type RiskConfig struct {
	Policy BandingPolicy `mapstructure:"policy"`
}

// HistoryConfig represents per-session report history configuration
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// ArchiveConfig represents report archive configuration. Backend "sqlite"
// stores records in a local file; backend "postgres" uses the database URL
// and expects migrations to have been applied.
type ArchiveConfig struct {
	Backend        string `mapstructure:"backend"` // "sqlite", "postgres" or "none"
	SQLitePath     string `mapstructure:"sqlite_path"`
	DatabaseURL    string `mapstructure:"database_url"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
