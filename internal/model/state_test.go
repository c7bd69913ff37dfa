package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

func TestState_Untrained(t *testing.T) {
	m, err := NewLogisticRegression(testColumns)
	require.NoError(t, err)

	_, err = m.State()
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestSaveState_LoadState_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "model", "state.json")

	original := trainedModel(t)
	require.NoError(t, SaveState(statePath, original))

	restored, err := LoadState(statePath)
	require.NoError(t, err)
	assert.True(t, restored.Trained())
	assert.Equal(t, testColumns, restored.FeatureNames())

	v := domain.FeatureVector{45, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 1, 0, 0}
	pOriginal, err := original.PredictProbability(v)
	require.NoError(t, err)
	pRestored, err := restored.PredictProbability(v)
	require.NoError(t, err)

	assert.Equal(t, pOriginal, pRestored, "restored model must predict identically")
}

func TestLoadState_Missing(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestLoadState_Corrupt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(statePath, []byte("{not json"), 0644))

	_, err := LoadState(statePath)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestLoadState_StructurallyInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong version", `{"version":"0","feature_names":["a"],"means":[],"stds":[],"weights":[],"bias":0}`},
		{"wrong column count", `{"version":"1","feature_names":["a","b"],"means":[0,0],"stds":[1,1],"weights":[0,0],"bias":0}`},
		{"zero std", `{"version":"1",
			"feature_names":["age","sex","cp","trestbps","chol","fbs","restecg","thalach","exang","oldpeak","slope","ca","thal"],
			"means":[0,0,0,0,0,0,0,0,0,0,0,0,0],
			"stds":[1,1,1,1,1,1,0,1,1,1,1,1,1],
			"weights":[0,0,0,0,0,0,0,0,0,0,0,0,0],
			"bias":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statePath := filepath.Join(t.TempDir(), "state.json")
			require.NoError(t, os.WriteFile(statePath, []byte(tt.body), 0644))

			_, err := LoadState(statePath)
			assert.ErrorIs(t, err, domain.ErrModelUnavailable)
		})
	}
}
