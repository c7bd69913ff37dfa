package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskBand_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		band  RiskBand
		valid bool
	}{
		{"very low", VERY_LOW, true},
		{"low", LOW, true},
		{"moderate", MODERATE, true},
		{"high", HIGH, true},
		{"very high", VERY_HIGH, true},
		{"empty", RiskBand(""), false},
		{"unknown", RiskBand("CRITICAL"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.band.IsValid())
		})
	}
}

func TestRiskBand_Rank_Ordering(t *testing.T) {
	ordered := []RiskBand{VERY_LOW, LOW, MODERATE, HIGH, VERY_HIGH}

	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank(),
			"%s must rank below %s", ordered[i-1], ordered[i])
	}

	// Corrupted bands must never rank as reassuring.
	assert.Greater(t, RiskBand("bogus").Rank(), VERY_HIGH.Rank())
}

func TestRiskBand_RequiresClinicalAction(t *testing.T) {
	assert.False(t, VERY_LOW.RequiresClinicalAction())
	assert.False(t, LOW.RequiresClinicalAction())
	assert.False(t, MODERATE.RequiresClinicalAction())
	assert.True(t, HIGH.RequiresClinicalAction())
	assert.True(t, VERY_HIGH.RequiresClinicalAction())

	// Unknown bands are treated conservatively.
	assert.True(t, RiskBand("bogus").RequiresClinicalAction())
}

func TestRiskBand_LogFields(t *testing.T) {
	fields := HIGH.LogFields()

	assert.Equal(t, "HIGH", fields["risk_band"])
	assert.Equal(t, 3, fields["band_rank"])
	assert.Equal(t, true, fields["is_valid"])
	assert.Equal(t, true, fields["requires_action"])
}

func TestScoreResult_Percent(t *testing.T) {
	s := ScoreResult{Probability: 0.4237, Band: MODERATE, Recommendation: "lifestyle modification, periodic review"}
	assert.InDelta(t, 42.37, s.Percent(), 1e-9)
}

func TestScoreResult_Validate(t *testing.T) {
	valid := ScoreResult{Probability: 0.5, Band: MODERATE, Recommendation: "lifestyle modification, periodic review"}
	assert.NoError(t, valid.Validate())

	outOfRange := valid
	outOfRange.Probability = 1.2
	assert.Error(t, outOfRange.Validate())

	badBand := valid
	badBand.Band = RiskBand("bogus")
	assert.ErrorIs(t, badBand.Validate(), ErrInvalidRiskBand)

	noRecommendation := valid
	noRecommendation.Recommendation = ""
	assert.Error(t, noRecommendation.Validate())
}

func TestBandingPolicy_IsValid(t *testing.T) {
	assert.True(t, FIVE_BAND.IsValid())
	assert.True(t, TWO_BAND.IsValid())
	assert.False(t, BandingPolicy("THREE_BAND").IsValid())
}

func TestSex_IsValid(t *testing.T) {
	assert.True(t, FEMALE.IsValid())
	assert.True(t, MALE.IsValid())
	assert.False(t, Sex("other").IsValid())
	assert.False(t, Sex("").IsValid())
}

func TestThalassemiaScheme_IsValid(t *testing.T) {
	assert.True(t, UCI4.IsValid())
	assert.True(t, CLINICAL3.IsValid())
	assert.False(t, ThalassemiaScheme("UCI5").IsValid())
}

func TestDomainProfile_IsValid(t *testing.T) {
	assert.True(t, STANDARD.IsValid())
	assert.True(t, NARROW.IsValid())
	assert.False(t, DomainProfile("WIDE").IsValid())
}

func TestReportRecord_Rows_Order(t *testing.T) {
	record := &ReportRecord{
		PatientLabel: "Jane Roe",
		Input: ClinicalInput{
			Age: 45, Sex: MALE, ChestPainType: 0, RestingBloodPressure: 120,
			Cholesterol: 200, FastingBloodSugarHigh: false, RestingECG: 0,
			MaxHeartRate: 150, ExerciseInducedAngina: false, STDepression: 1.0,
			STSlope: 1, MajorVesselsCount: 0, Thalassemia: 0,
		},
	}

	rows := record.Rows()
	assert.Len(t, rows, 14)
	assert.Equal(t, "Patient Name", rows[0].Label)
	assert.Equal(t, "Jane Roe", rows[0].Value)
	assert.Equal(t, "Age", rows[1].Label)
	assert.Equal(t, "45", rows[1].Value)
	assert.Equal(t, "Thalassemia (thal)", rows[13].Label)

	// Booleans render as Yes/No, never raw codes.
	assert.Equal(t, "No", rows[6].Value)
	assert.Equal(t, "No", rows[9].Value)
}
