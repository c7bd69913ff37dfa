// Package codec maps clinical form fields between their human-facing
// representation and the canonical numeric feature vector the scoring model
// expects. Categorical fields go through explicit bidirectional lookup
// tables; codes are never recovered by parsing label strings.
package codec

import (
	"fmt"

	"github.com/heart-risk-server/internal/domain"
)

// columnOrder is the canonical training column order. It must match the
// column order of the reference dataset the model was fitted on; the model
// provider asserts this at startup.
var columnOrder = [domain.FeatureCount]string{
	"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "ca", "thal",
}

// intRange is an inclusive integer domain bound.
type intRange struct {
	min, max int
}

func (r intRange) contains(v int) bool {
	return v >= r.min && v <= r.max
}

// Continuous-field bounds per domain profile. The reference datasets disagree
// on valid age and heart-rate ranges, so both appear as named profiles.
var profileBounds = map[domain.DomainProfile]struct {
	age     intRange
	restBP  intRange
	chol    intRange
	maxHR   intRange
	oldpeak struct{ min, max float64 }
}{
	domain.STANDARD: {
		age:     intRange{18, 90},
		restBP:  intRange{80, 200},
		chol:    intRange{100, 400},
		maxHR:   intRange{70, 210},
		oldpeak: struct{ min, max float64 }{0.0, 6.0},
	},
	domain.NARROW: {
		age:     intRange{29, 77},
		restBP:  intRange{80, 200},
		chol:    intRange{100, 400},
		maxHR:   intRange{60, 220},
		oldpeak: struct{ min, max float64 }{0.0, 6.0},
	},
}

// Codec encodes clinical inputs under a fixed domain profile and thalassemia
// scheme. Encoding is pure and deterministic; a codec carries no state beyond
// its configured tables.
type Codec struct {
	profile   domain.DomainProfile
	thalTable *LabelTable
}

// New creates a codec for the given encoding configuration.
func New(cfg domain.CodecConfig) (*Codec, error) {
	if !cfg.Profile.IsValid() {
		return nil, fmt.Errorf("creating codec: %w: %q", domain.ErrInvalidDomainProfile, cfg.Profile)
	}
	thalTable, err := ThalassemiaTable(cfg.ThalScheme)
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}
	return &Codec{
		profile:   cfg.Profile,
		thalTable: thalTable,
	}, nil
}

// Profile returns the domain profile the codec validates against.
func (c *Codec) Profile() domain.DomainProfile {
	return c.profile
}

// ColumnOrder returns the canonical training column names in encoding order.
func (c *Codec) ColumnOrder() []string {
	out := make([]string, domain.FeatureCount)
	copy(out, columnOrder[:])
	return out
}

// Encode validates every field of the input against its declared domain and
// produces the canonical feature vector. Returns a *domain.DomainError for
// the first field outside its domain. Encoding emits raw feature values;
// standardization is the scoring model's preprocessing responsibility.
func (c *Codec) Encode(in domain.ClinicalInput) (domain.FeatureVector, error) {
	var v domain.FeatureVector
	bounds := profileBounds[c.profile]

	if !bounds.age.contains(in.Age) {
		return v, domain.NewDomainError("age",
			fmt.Sprintf("must be between %d and %d", bounds.age.min, bounds.age.max), in.Age)
	}

	sexCode, ok := SexTable().Code(string(in.Sex))
	if !ok {
		return v, domain.NewDomainError("sex", "must be Female or Male", string(in.Sex))
	}

	if _, ok := ChestPainTable().Label(in.ChestPainType); !ok {
		return v, domain.NewDomainError("cp", "must be a chest pain type code between 0 and 3", in.ChestPainType)
	}

	if !bounds.restBP.contains(in.RestingBloodPressure) {
		return v, domain.NewDomainError("trestbps",
			fmt.Sprintf("must be between %d and %d mmHg", bounds.restBP.min, bounds.restBP.max), in.RestingBloodPressure)
	}

	if !bounds.chol.contains(in.Cholesterol) {
		return v, domain.NewDomainError("chol",
			fmt.Sprintf("must be between %d and %d mg/dL", bounds.chol.min, bounds.chol.max), in.Cholesterol)
	}

	if _, ok := RestingECGTable().Label(in.RestingECG); !ok {
		return v, domain.NewDomainError("restecg", "must be a resting ECG code between 0 and 2", in.RestingECG)
	}

	if !bounds.maxHR.contains(in.MaxHeartRate) {
		return v, domain.NewDomainError("thalach",
			fmt.Sprintf("must be between %d and %d", bounds.maxHR.min, bounds.maxHR.max), in.MaxHeartRate)
	}

	if in.STDepression < bounds.oldpeak.min || in.STDepression > bounds.oldpeak.max {
		return v, domain.NewDomainError("oldpeak",
			fmt.Sprintf("must be between %.1f and %.1f", bounds.oldpeak.min, bounds.oldpeak.max), in.STDepression)
	}

	if _, ok := STSlopeTable().Label(in.STSlope); !ok {
		return v, domain.NewDomainError("slope", "must be an ST slope code between 0 and 2", in.STSlope)
	}

	if in.MajorVesselsCount < 0 || in.MajorVesselsCount > 4 {
		return v, domain.NewDomainError("ca", "must be between 0 and 4", in.MajorVesselsCount)
	}

	if _, ok := c.thalTable.Label(in.Thalassemia); !ok {
		return v, domain.NewDomainError("thal",
			fmt.Sprintf("must be a valid thalassemia code for scheme %s", c.thalTable.Scheme()), in.Thalassemia)
	}

	v[0] = float64(in.Age)
	v[1] = float64(sexCode)
	v[2] = float64(in.ChestPainType)
	v[3] = float64(in.RestingBloodPressure)
	v[4] = float64(in.Cholesterol)
	v[5] = boolFeature(in.FastingBloodSugarHigh)
	v[6] = float64(in.RestingECG)
	v[7] = float64(in.MaxHeartRate)
	v[8] = boolFeature(in.ExerciseInducedAngina)
	v[9] = in.STDepression
	v[10] = float64(in.STSlope)
	v[11] = float64(in.MajorVesselsCount)
	v[12] = float64(in.Thalassemia)

	return v, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
