package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/heart-risk-server/internal/domain"
)

// stateVersion guards the persisted format. Bump on incompatible changes.
const stateVersion = "1"

// TrainedState is the durable form of a fitted model: the feature column
// order, the standardization parameters paired with the weights they were
// fitted against, and the fit timestamp.
type TrainedState struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Means        []float64 `json:"means"`
	Stds         []float64 `json:"stds"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	TrainedAt    time.Time `json:"trained_at"`
}

// State exports the model's trained state for persistence.
func (m *LogisticRegression) State() (*TrainedState, error) {
	if !m.trained {
		return nil, fmt.Errorf("exporting state: %w", domain.ErrModelUnavailable)
	}
	return &TrainedState{
		Version:      stateVersion,
		FeatureNames: m.FeatureNames(),
		Means:        append([]float64(nil), m.means...),
		Stds:         append([]float64(nil), m.stds...),
		Weights:      append([]float64(nil), m.weights...),
		Bias:         m.bias,
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// SaveState persists the trained state as JSON at the given path.
func SaveState(path string, m *LogisticRegression) error {
	state, err := m.State()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("saving model state: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("saving model state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving model state: %w", err)
	}
	return nil
}

// LoadState restores a trained model from persisted state. Any missing,
// unreadable or structurally invalid state maps to ErrModelUnavailable: the
// caller must refuse to score rather than run untrained or unscaled.
func LoadState(path string) (*LogisticRegression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading model state from %s: %w: %v", path, domain.ErrModelUnavailable, err)
	}

	var state TrainedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("loading model state from %s: %w: %v", path, domain.ErrModelUnavailable, err)
	}
	if err := state.validate(); err != nil {
		return nil, fmt.Errorf("loading model state from %s: %w: %v", path, domain.ErrModelUnavailable, err)
	}

	m, err := NewLogisticRegression(state.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("loading model state from %s: %w: %v", path, domain.ErrModelUnavailable, err)
	}
	m.means = append([]float64(nil), state.Means...)
	m.stds = append([]float64(nil), state.Stds...)
	m.weights = append([]float64(nil), state.Weights...)
	m.bias = state.Bias
	m.trained = true
	return m, nil
}

func (s *TrainedState) validate() error {
	if s.Version != stateVersion {
		return fmt.Errorf("unsupported state version %q", s.Version)
	}
	if len(s.FeatureNames) != domain.FeatureCount {
		return fmt.Errorf("state has %d feature names, expected %d", len(s.FeatureNames), domain.FeatureCount)
	}
	if len(s.Means) != domain.FeatureCount ||
		len(s.Stds) != domain.FeatureCount ||
		len(s.Weights) != domain.FeatureCount {
		return fmt.Errorf("state parameter lengths do not match feature count")
	}
	for i, std := range s.Stds {
		if std <= 0 {
			return fmt.Errorf("state has non-positive standard deviation at column %d", i)
		}
	}
	return nil
}
