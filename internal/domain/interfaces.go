package domain

import (
	"context"
)

// FeatureEncoder maps clinical inputs to the fixed-order feature vector the
// scoring model consumes.
type FeatureEncoder interface {
	// Encode validates every field against its declared domain and produces
	// the canonical feature vector. Returns a *DomainError for the first
	// out-of-domain field.
	Encode(input ClinicalInput) (FeatureVector, error)

	// ColumnOrder returns the canonical training column names in encoding
	// order. Used to assert the column-order invariant against the model.
	ColumnOrder() []string
}

// ScoringModel is the trained binary classifier behind the risk pipeline.
// Trained state is built at most once per process and is read-only afterwards.
type ScoringModel interface {
	// PredictProbability returns the positive-class probability in [0,1] for
	// the given feature vector. Deterministic for fixed trained state.
	// Returns ErrModelUnavailable when no trained state exists.
	PredictProbability(v FeatureVector) (float64, error)

	// FeatureNames returns the column names the model was fitted on, in
	// training order.
	FeatureNames() []string

	// Insights returns the fitted per-column coefficients ordered by
	// descending influence. Returns ErrModelUnavailable when no trained
	// state exists.
	Insights() ([]FeatureInsight, error)
}

// RiskClassifier maps a scored probability (percent scale) to an ordinal risk
// band and its recommendation.
type RiskClassifier interface {
	Classify(percent float64) (RiskBand, string, error)
}

// ReportRenderer turns a completed report record into an opaque renderable
// artifact. The core places no format requirement on the bytes.
type ReportRenderer interface {
	Render(record *ReportRecord) ([]byte, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetModelConfig() *ModelConfig
	GetArchiveConfig() *ArchiveConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}

// ReportArchive persists completed assessment records beyond the bounded
// in-memory session history.
type ReportArchive interface {
	Save(ctx context.Context, record *ReportRecord) error
	Get(ctx context.Context, id string) (*ReportRecord, error)
	List(ctx context.Context, limit, offset int) ([]*ReportRecord, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
