package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New(domain.BandingPolicy("THREE_BAND"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidBandingPolicy)
}

func TestClassify_FiveBandTable(t *testing.T) {
	c, err := New(domain.FIVE_BAND, nil)
	require.NoError(t, err)

	tests := []struct {
		percent        float64
		band           domain.RiskBand
		recommendation string
	}{
		{0, domain.VERY_LOW, "routine annual checkup"},
		{5.5, domain.VERY_LOW, "routine annual checkup"},
		{15, domain.LOW, "preventive monitoring, balanced diet"},
		{42.37, domain.MODERATE, "lifestyle modification, periodic review"},
		{60, domain.HIGH, "consult a cardiologist"},
		{99.99, domain.VERY_HIGH, "immediate medical attention"},
		{100, domain.VERY_HIGH, "immediate medical attention"},
	}

	for _, tt := range tests {
		band, rec, err := c.Classify(tt.percent)
		require.NoError(t, err)
		assert.Equal(t, tt.band, band, "percent %.2f", tt.percent)
		assert.Equal(t, tt.recommendation, rec, "percent %.2f", tt.percent)
	}
}

func TestClassify_BoundariesBelongToLowerBand(t *testing.T) {
	c, err := New(domain.FIVE_BAND, nil)
	require.NoError(t, err)

	tests := []struct {
		percent float64
		band    domain.RiskBand
	}{
		{10.00, domain.VERY_LOW},
		{10.01, domain.LOW},
		{25.00, domain.LOW},
		{25.01, domain.MODERATE},
		{50.00, domain.MODERATE},
		{50.01, domain.HIGH},
		{75.00, domain.HIGH},
		{75.01, domain.VERY_HIGH},
	}

	for _, tt := range tests {
		band, _, err := c.Classify(tt.percent)
		require.NoError(t, err)
		assert.Equal(t, tt.band, band, "percent %.2f", tt.percent)
	}
}

func TestClassify_TwoBandPolicy(t *testing.T) {
	c, err := New(domain.TWO_BAND, nil)
	require.NoError(t, err)

	band, _, err := c.Classify(50.00)
	require.NoError(t, err)
	assert.Equal(t, domain.LOW, band)

	band, _, err = c.Classify(50.01)
	require.NoError(t, err)
	assert.Equal(t, domain.HIGH, band)

	band, _, err = c.Classify(0)
	require.NoError(t, err)
	assert.Equal(t, domain.LOW, band)

	band, _, err = c.Classify(100)
	require.NoError(t, err)
	assert.Equal(t, domain.HIGH, band)
}

func TestClassify_Monotonic(t *testing.T) {
	for _, policy := range []domain.BandingPolicy{domain.FIVE_BAND, domain.TWO_BAND} {
		c, err := New(policy, nil)
		require.NoError(t, err)

		prevRank := -1
		for p := 0.0; p <= 100.0; p += 0.25 {
			band, _, err := c.Classify(p)
			require.NoError(t, err)
			require.GreaterOrEqual(t, band.Rank(), prevRank,
				"policy %s not monotonic at %.2f%%", policy, p)
			prevRank = band.Rank()
		}
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	c, err := New(domain.FIVE_BAND, nil)
	require.NoError(t, err)

	_, _, err = c.Classify(-0.01)
	assert.Error(t, err)

	_, _, err = c.Classify(100.01)
	assert.Error(t, err)
}

func TestNewWithThresholds_Validation(t *testing.T) {
	tests := []struct {
		name       string
		thresholds []Threshold
	}{
		{"empty table", nil},
		{"not ascending", []Threshold{
			{50, domain.LOW, "a"}, {50, domain.HIGH, "b"},
		}},
		{"band order decreases", []Threshold{
			{50, domain.HIGH, "a"}, {100, domain.LOW, "b"},
		}},
		{"missing recommendation", []Threshold{
			{100, domain.HIGH, ""},
		}},
		{"incomplete coverage", []Threshold{
			{50, domain.LOW, "a"}, {90, domain.HIGH, "b"},
		}},
		{"invalid band", []Threshold{
			{100, domain.RiskBand("bogus"), "a"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newWithThresholds(domain.FIVE_BAND, tt.thresholds, nil)
			assert.Error(t, err)
		})
	}
}
