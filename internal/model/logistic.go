// Package model implements the scoring model behind the risk pipeline: a
// logistic regression over standardized clinical features, fitted once per
// process from the reference dataset or loaded from persisted trained state.
package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/heart-risk-server/internal/domain"
)

// Training hyperparameters. Fixed so that fitting the same reference dataset
// always yields the same trained state.
const (
	learningRate = 0.1
	iterations   = 1000
)

// LogisticRegression is a binary classifier over standardized features.
// Standardization parameters are fitted together with the weights and
// reapplied identically at inference time. All fields are written exactly
// once by Fit or restore and are read-only afterwards, so a trained model is
// safe to share across concurrent sessions.
type LogisticRegression struct {
	featureNames []string
	means        []float64
	stds         []float64
	weights      []float64
	bias         float64
	trained      bool
}

// NewLogisticRegression creates an untrained model for the given feature
// columns, in training order.
func NewLogisticRegression(featureNames []string) (*LogisticRegression, error) {
	if len(featureNames) != domain.FeatureCount {
		return nil, fmt.Errorf("creating model: expected %d feature columns, got %d",
			domain.FeatureCount, len(featureNames))
	}
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return &LogisticRegression{featureNames: names}, nil
}

// Fit standardizes the design matrix and fits the regression weights by batch
// gradient descent. Must be called at most once; refitting a trained model is
// a lifecycle violation, not a supported operation.
func (m *LogisticRegression) Fit(design []domain.FeatureVector, labels []int) error {
	if m.trained {
		return fmt.Errorf("fitting model: model is already trained")
	}
	if len(design) == 0 {
		return fmt.Errorf("fitting model: empty design matrix")
	}
	if len(design) != len(labels) {
		return fmt.Errorf("fitting model: %d rows but %d labels", len(design), len(labels))
	}
	for i, label := range labels {
		if label != 0 && label != 1 {
			return fmt.Errorf("fitting model: label %d at row %d is not binary", label, i)
		}
	}

	m.fitStandardizer(design)

	scaled := make([]domain.FeatureVector, len(design))
	for i, row := range design {
		scaled[i] = m.standardize(row)
	}

	// Batch gradient descent on the logistic loss. Weights start at zero, so
	// the fit is deterministic for a fixed dataset.
	n := float64(len(scaled))
	weights := make([]float64, domain.FeatureCount)
	bias := 0.0
	for iter := 0; iter < iterations; iter++ {
		grad := make([]float64, domain.FeatureCount)
		gradBias := 0.0
		for i, row := range scaled {
			pred := sigmoid(dot(weights, row) + bias)
			residual := pred - float64(labels[i])
			for j := range grad {
				grad[j] += residual * row[j]
			}
			gradBias += residual
		}
		for j := range weights {
			weights[j] -= learningRate * grad[j] / n
		}
		bias -= learningRate * gradBias / n
	}

	m.weights = weights
	m.bias = bias
	m.trained = true
	return nil
}

// PredictProbability returns the positive-class probability for the given
// feature vector. Deterministic for fixed trained state.
func (m *LogisticRegression) PredictProbability(v domain.FeatureVector) (float64, error) {
	if !m.trained {
		return 0, fmt.Errorf("predicting: %w", domain.ErrModelUnavailable)
	}
	scaled := m.standardize(v)
	return sigmoid(dot(m.weights, scaled) + m.bias), nil
}

// FeatureNames returns the column names the model was created for, in
// training order.
func (m *LogisticRegression) FeatureNames() []string {
	names := make([]string, len(m.featureNames))
	copy(names, m.featureNames)
	return names
}

// Insights returns the fitted coefficients paired with their column names,
// ordered by descending absolute weight. Weights live in standardized feature
// space, so the ordering reflects each column's influence on the score.
func (m *LogisticRegression) Insights() ([]domain.FeatureInsight, error) {
	if !m.trained {
		return nil, fmt.Errorf("model insights: %w", domain.ErrModelUnavailable)
	}

	insights := make([]domain.FeatureInsight, len(m.weights))
	for j, w := range m.weights {
		insights[j] = domain.FeatureInsight{Feature: m.featureNames[j], Weight: w}
	}
	sort.SliceStable(insights, func(a, b int) bool {
		return math.Abs(insights[a].Weight) > math.Abs(insights[b].Weight)
	})
	return insights, nil
}

// Trained reports whether the model holds usable trained state.
func (m *LogisticRegression) Trained() bool {
	return m.trained
}

// fitStandardizer computes per-column mean and population standard deviation.
// Constant columns get a unit scale so standardization stays defined.
func (m *LogisticRegression) fitStandardizer(design []domain.FeatureVector) {
	n := float64(len(design))
	means := make([]float64, domain.FeatureCount)
	stds := make([]float64, domain.FeatureCount)

	for _, row := range design {
		for j, val := range row {
			means[j] += val
		}
	}
	for j := range means {
		means[j] /= n
	}

	for _, row := range design {
		for j, val := range row {
			d := val - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	m.means = means
	m.stds = stds
}

func (m *LogisticRegression) standardize(v domain.FeatureVector) domain.FeatureVector {
	var out domain.FeatureVector
	for j, val := range v {
		out[j] = (val - m.means[j]) / m.stds[j]
	}
	return out
}

func dot(weights []float64, v domain.FeatureVector) float64 {
	sum := 0.0
	for j, w := range weights {
		sum += w * v[j]
	}
	return sum
}

// sigmoid with clamping so extreme logits cannot overflow to NaN.
func sigmoid(z float64) float64 {
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
