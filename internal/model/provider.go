package model

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
)

// Model lifecycle modes.
const (
	ModeTrain = "train"
	ModeLoad  = "load"
)

// Provider owns the process-wide scoring model lifecycle: the model is built
// at most once (trained from the reference dataset or restored from persisted
// state), shared read-only across all sessions afterwards, and the encoder's
// column order is asserted against the trained order before any scoring.
type Provider struct {
	cfg     domain.ModelConfig
	encoder domain.FeatureEncoder
	logger  *logrus.Logger

	once  sync.Once
	model *LogisticRegression
	err   error
}

// NewProvider creates a provider. Initialization is deferred to the first
// Model call (or an explicit Init).
func NewProvider(cfg domain.ModelConfig, encoder domain.FeatureEncoder, logger *logrus.Logger) *Provider {
	return &Provider{cfg: cfg, encoder: encoder, logger: logger}
}

// Init builds the model eagerly. Safe to call from concurrent sessions; only
// the first call does work.
func (p *Provider) Init() error {
	p.once.Do(p.build)
	return p.err
}

// Model returns the shared trained model, initializing it on first use.
func (p *Provider) Model() (domain.ScoringModel, error) {
	if err := p.Init(); err != nil {
		return nil, err
	}
	return p.model, nil
}

func (p *Provider) build() {
	switch p.cfg.Mode {
	case ModeTrain:
		p.model, p.err = p.train()
	case ModeLoad:
		p.model, p.err = p.load()
	default:
		p.err = fmt.Errorf("initializing model: unknown mode %q", p.cfg.Mode)
		return
	}
	if p.err != nil {
		return
	}
	p.err = p.assertColumnOrder()
}

func (p *Provider) train() (*LogisticRegression, error) {
	p.logger.WithField("dataset", p.cfg.DatasetPath).Info("Training scoring model from reference dataset")

	dataset, err := LoadDataset(p.cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("initializing model: %w: %v", domain.ErrModelUnavailable, err)
	}

	m, err := NewLogisticRegression(dataset.Columns)
	if err != nil {
		return nil, fmt.Errorf("initializing model: %w: %v", domain.ErrModelUnavailable, err)
	}
	if err := m.Fit(dataset.Design, dataset.Labels); err != nil {
		return nil, fmt.Errorf("initializing model: %w: %v", domain.ErrModelUnavailable, err)
	}

	p.logger.WithFields(logrus.Fields{
		"rows":     len(dataset.Design),
		"features": len(dataset.Columns),
	}).Info("Scoring model trained")

	if p.cfg.SaveState && p.cfg.StatePath != "" {
		if err := SaveState(p.cfg.StatePath, m); err != nil {
			p.logger.WithError(err).Warn("Failed to persist trained model state")
		} else {
			p.logger.WithField("path", p.cfg.StatePath).Info("Persisted trained model state")
		}
	}

	return m, nil
}

func (p *Provider) load() (*LogisticRegression, error) {
	p.logger.WithField("path", p.cfg.StatePath).Info("Loading persisted scoring model state")

	m, err := LoadState(p.cfg.StatePath)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Scoring model restored from persisted state")
	return m, nil
}

// assertColumnOrder enforces the startup invariant that the encoder's column
// order equals the order the model was trained on. A mismatch would silently
// corrupt every prediction, so it refuses the whole scoring surface.
func (p *Provider) assertColumnOrder() error {
	expected := p.encoder.ColumnOrder()
	actual := p.model.FeatureNames()

	if len(expected) != len(actual) {
		return fmt.Errorf("initializing model: %w: encoder has %d columns, model has %d",
			domain.ErrColumnOrderMismatch, len(expected), len(actual))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return fmt.Errorf("initializing model: %w: column %d is %q in encoder but %q in model",
				domain.ErrColumnOrderMismatch, i, expected[i], actual[i])
		}
	}
	return nil
}
