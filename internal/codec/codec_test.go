package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New(domain.CodecConfig{Profile: domain.STANDARD, ThalScheme: domain.UCI4})
	require.NoError(t, err)
	return c
}

func referenceInput() domain.ClinicalInput {
	return domain.ClinicalInput{
		Age:                   45,
		Sex:                   domain.MALE,
		ChestPainType:         0,
		RestingBloodPressure:  120,
		Cholesterol:           200,
		FastingBloodSugarHigh: false,
		RestingECG:            0,
		MaxHeartRate:          150,
		ExerciseInducedAngina: false,
		STDepression:          1.0,
		STSlope:               1,
		MajorVesselsCount:     0,
		Thalassemia:           0,
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(domain.CodecConfig{Profile: domain.DomainProfile("WIDE"), ThalScheme: domain.UCI4})
	assert.ErrorIs(t, err, domain.ErrInvalidDomainProfile)

	_, err = New(domain.CodecConfig{Profile: domain.STANDARD, ThalScheme: domain.ThalassemiaScheme("UCI5")})
	assert.ErrorIs(t, err, domain.ErrInvalidThalScheme)
}

func TestEncode_ReferenceVector(t *testing.T) {
	c := newTestCodec(t)

	v, err := c.Encode(referenceInput())
	require.NoError(t, err)

	expected := domain.FeatureVector{45, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 1, 0, 0}
	assert.Equal(t, expected, v)
}

func TestEncode_Deterministic(t *testing.T) {
	c := newTestCodec(t)
	in := referenceInput()

	first, err := c.Encode(in)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := c.Encode(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEncode_BooleanFields(t *testing.T) {
	c := newTestCodec(t)
	in := referenceInput()
	in.FastingBloodSugarHigh = true
	in.ExerciseInducedAngina = true

	v, err := c.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v[5])
	assert.Equal(t, 1.0, v[8])
}

func TestEncode_DomainErrors(t *testing.T) {
	c := newTestCodec(t)

	tests := []struct {
		name   string
		mutate func(*domain.ClinicalInput)
		field  string
	}{
		{"age below range", func(in *domain.ClinicalInput) { in.Age = 17 }, "age"},
		{"age above range", func(in *domain.ClinicalInput) { in.Age = 91 }, "age"},
		{"invalid sex", func(in *domain.ClinicalInput) { in.Sex = domain.Sex("other") }, "sex"},
		{"chest pain code", func(in *domain.ClinicalInput) { in.ChestPainType = 4 }, "cp"},
		{"blood pressure low", func(in *domain.ClinicalInput) { in.RestingBloodPressure = 79 }, "trestbps"},
		{"blood pressure high", func(in *domain.ClinicalInput) { in.RestingBloodPressure = 201 }, "trestbps"},
		{"cholesterol low", func(in *domain.ClinicalInput) { in.Cholesterol = 99 }, "chol"},
		{"cholesterol high", func(in *domain.ClinicalInput) { in.Cholesterol = 401 }, "chol"},
		{"resting ecg code", func(in *domain.ClinicalInput) { in.RestingECG = 3 }, "restecg"},
		{"heart rate low", func(in *domain.ClinicalInput) { in.MaxHeartRate = 69 }, "thalach"},
		{"heart rate high", func(in *domain.ClinicalInput) { in.MaxHeartRate = 211 }, "thalach"},
		{"st depression negative", func(in *domain.ClinicalInput) { in.STDepression = -0.1 }, "oldpeak"},
		{"st depression high", func(in *domain.ClinicalInput) { in.STDepression = 6.1 }, "oldpeak"},
		{"slope code", func(in *domain.ClinicalInput) { in.STSlope = 3 }, "slope"},
		{"vessels negative", func(in *domain.ClinicalInput) { in.MajorVesselsCount = -1 }, "ca"},
		{"vessels high", func(in *domain.ClinicalInput) { in.MajorVesselsCount = 5 }, "ca"},
		{"thal code", func(in *domain.ClinicalInput) { in.Thalassemia = 4 }, "thal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.mutate(&in)

			_, err := c.Encode(in)
			require.Error(t, err)

			var domainErr *domain.DomainError
			require.True(t, errors.As(err, &domainErr), "expected a DomainError, got %v", err)
			assert.Equal(t, tt.field, domainErr.Field)
		})
	}
}

func TestEncode_DomainBoundariesAreInclusive(t *testing.T) {
	c := newTestCodec(t)

	edges := []func(*domain.ClinicalInput){
		func(in *domain.ClinicalInput) { in.Age = 18 },
		func(in *domain.ClinicalInput) { in.Age = 90 },
		func(in *domain.ClinicalInput) { in.RestingBloodPressure = 80 },
		func(in *domain.ClinicalInput) { in.RestingBloodPressure = 200 },
		func(in *domain.ClinicalInput) { in.Cholesterol = 100 },
		func(in *domain.ClinicalInput) { in.Cholesterol = 400 },
		func(in *domain.ClinicalInput) { in.MaxHeartRate = 70 },
		func(in *domain.ClinicalInput) { in.MaxHeartRate = 210 },
		func(in *domain.ClinicalInput) { in.STDepression = 0.0 },
		func(in *domain.ClinicalInput) { in.STDepression = 6.0 },
		func(in *domain.ClinicalInput) { in.MajorVesselsCount = 4 },
		func(in *domain.ClinicalInput) { in.Thalassemia = 3 },
	}

	for _, mutate := range edges {
		in := referenceInput()
		mutate(&in)

		_, err := c.Encode(in)
		assert.NoError(t, err)
	}
}

func TestEncode_NarrowProfile(t *testing.T) {
	c, err := New(domain.CodecConfig{Profile: domain.NARROW, ThalScheme: domain.UCI4})
	require.NoError(t, err)

	in := referenceInput()
	in.Age = 28 // valid under STANDARD, outside NARROW
	_, err = c.Encode(in)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "age", domainErr.Field)

	in = referenceInput()
	in.MaxHeartRate = 65 // outside STANDARD, valid under NARROW's wide heart-rate range
	_, err = c.Encode(in)
	assert.NoError(t, err)
}

func TestEncode_Clinical3ThalScheme(t *testing.T) {
	c, err := New(domain.CodecConfig{Profile: domain.STANDARD, ThalScheme: domain.CLINICAL3})
	require.NoError(t, err)

	in := referenceInput()
	in.Thalassemia = 0 // valid under UCI4, invalid under CLINICAL3
	_, err = c.Encode(in)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "thal", domainErr.Field)

	in.Thalassemia = 3
	v, err := c.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v[12])
}

func TestColumnOrder(t *testing.T) {
	c := newTestCodec(t)

	order := c.ColumnOrder()
	assert.Equal(t, []string{
		"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
		"thalach", "exang", "oldpeak", "slope", "ca", "thal",
	}, order)

	// Mutating the returned slice must not affect the codec's own order.
	order[0] = "tampered"
	assert.Equal(t, "age", c.ColumnOrder()[0])
}

func TestLabelTables_Bidirectional(t *testing.T) {
	tables := []*LabelTable{SexTable(), ChestPainTable(), RestingECGTable(), STSlopeTable()}

	for _, table := range tables {
		for _, code := range table.Codes() {
			label, ok := table.Label(code)
			require.True(t, ok)

			roundTrip, ok := table.Code(label)
			require.True(t, ok)
			assert.Equal(t, code, roundTrip, "table %s", table.Scheme())
		}
	}
}

func TestThalassemiaTable_Schemes(t *testing.T) {
	uci, err := ThalassemiaTable(domain.UCI4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, uci.Codes())

	clinical, err := ThalassemiaTable(domain.CLINICAL3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, clinical.Codes())

	label, ok := uci.Label(0)
	require.True(t, ok)
	assert.Equal(t, "Normal", label)

	// The same code means different things across schemes.
	clinicalLabel, ok := clinical.Label(1)
	require.True(t, ok)
	assert.Equal(t, "Normal", clinicalLabel)
	uciLabel, ok := uci.Label(1)
	require.True(t, ok)
	assert.Equal(t, "Fixed Defect", uciLabel)
}
