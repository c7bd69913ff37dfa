package domain

import (
	"fmt"
	"time"
)

// FeatureCount is the number of clinical features the scoring model consumes.
const FeatureCount = 13

// FeatureVector is the fixed-order numeric encoding of one clinical
// observation. Index positions follow the training column order exactly; the
// model provider asserts that order against the encoder at startup.
type FeatureVector [FeatureCount]float64

// ClinicalInput represents one observation submitted by a user. Field JSON
// tags follow the reference dataset column names so form payloads, stored
// records and training columns stay traceable to each other.
type ClinicalInput struct {
	Age                   int     `json:"age"`
	Sex                   Sex     `json:"sex"`
	ChestPainType         int     `json:"cp"`       // 0 typical angina .. 3 asymptomatic
	RestingBloodPressure  int     `json:"trestbps"` // mmHg
	Cholesterol           int     `json:"chol"`     // mg/dL
	FastingBloodSugarHigh bool    `json:"fbs"`      // fasting blood sugar > 120 mg/dL
	RestingECG            int     `json:"restecg"`  // 0 normal, 1 ST-T abnormality, 2 LVH
	MaxHeartRate          int     `json:"thalach"`
	ExerciseInducedAngina bool    `json:"exang"`
	STDepression          float64 `json:"oldpeak"`
	STSlope               int     `json:"slope"` // 0 upsloping, 1 flat, 2 downsloping
	MajorVesselsCount     int     `json:"ca"`    // vessels colored by fluoroscopy, 0..4
	Thalassemia           int     `json:"thal"`  // meaning depends on ThalassemiaScheme
}

// ScoreResult represents the outcome of scoring one encoded observation.
// Immutable once produced.
type ScoreResult struct {
	Probability    float64  `json:"probability"` // [0,1]
	Band           RiskBand `json:"band"`
	Recommendation string   `json:"recommendation"`
}

// Percent returns the probability expressed on the [0,100] scale used by the
// risk threshold tables and report headlines.
func (s ScoreResult) Percent() float64 {
	return s.Probability * 100
}

// Validate ensures the score result is fit for reporting.
func (s ScoreResult) Validate() error {
	if s.Probability < 0 || s.Probability > 1 {
		return fmt.Errorf("score validation: probability %f outside [0,1]", s.Probability)
	}
	if !s.Band.IsValid() {
		return fmt.Errorf("score validation: %w", ErrInvalidRiskBand)
	}
	if s.Recommendation == "" {
		return fmt.Errorf("score validation: recommendation is required")
	}
	return nil
}

// FeatureInsight is one fitted model coefficient paired with its column name.
// Weights are in standardized feature space, so their magnitudes are
// comparable across columns.
type FeatureInsight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// ReportRecord is the immutable result of one completed assessment. Records
// are created once by the assembler and never mutated afterwards.
type ReportRecord struct {
	ID           string        `json:"id"`
	PatientLabel string        `json:"patient_label,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	Input        ClinicalInput `json:"input"`
	Score        ScoreResult   `json:"score"`
}

// ReportRow is one (label, value) pair handed to a report renderer. Row order
// is significant and must be stable across renders of the same record.
type ReportRow struct {
	Label string
	Value string
}

// Rows returns the ordered detail rows for this record, in the same order the
// fields appear on the form and in the feature encoding.
func (r *ReportRecord) Rows() []ReportRow {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	return []ReportRow{
		{"Patient Name", r.PatientLabel},
		{"Age", fmt.Sprintf("%d", r.Input.Age)},
		{"Sex", string(r.Input.Sex)},
		{"Chest Pain Type (cp)", fmt.Sprintf("%d", r.Input.ChestPainType)},
		{"Resting BP (trestbps)", fmt.Sprintf("%d mmHg", r.Input.RestingBloodPressure)},
		{"Cholesterol (chol)", fmt.Sprintf("%d mg/dL", r.Input.Cholesterol)},
		{"Fasting Blood Sugar > 120 (fbs)", yesNo(r.Input.FastingBloodSugarHigh)},
		{"Resting ECG (restecg)", fmt.Sprintf("%d", r.Input.RestingECG)},
		{"Max Heart Rate (thalach)", fmt.Sprintf("%d", r.Input.MaxHeartRate)},
		{"Exercise Angina (exang)", yesNo(r.Input.ExerciseInducedAngina)},
		{"ST Depression (oldpeak)", fmt.Sprintf("%.1f", r.Input.STDepression)},
		{"Slope (slope)", fmt.Sprintf("%d", r.Input.STSlope)},
		{"Major Vessels (ca)", fmt.Sprintf("%d", r.Input.MajorVesselsCount)},
		{"Thalassemia (thal)", fmt.Sprintf("%d", r.Input.Thalassemia)},
	}
}

// Validate ensures the record meets reporting requirements.
func (r *ReportRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("report record validation: ID is required")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("report record validation: timestamp is required")
	}
	if err := r.Score.Validate(); err != nil {
		return fmt.Errorf("report record validation: %w", err)
	}
	return nil
}
