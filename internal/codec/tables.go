package codec

import (
	"fmt"
	"sort"

	"github.com/heart-risk-server/internal/domain"
)

// LabelTable is an explicit bidirectional mapping between a categorical
// field's small integer codes and its human-facing labels. The same table
// backs both the form layer and the encoder, so neither side ever recovers a
// code by parsing a label string.
type LabelTable struct {
	scheme  string
	byCode  map[int]string
	byLabel map[string]int
}

func newLabelTable(scheme string, byCode map[int]string) *LabelTable {
	byLabel := make(map[string]int, len(byCode))
	for code, label := range byCode {
		byLabel[label] = code
	}
	return &LabelTable{scheme: scheme, byCode: byCode, byLabel: byLabel}
}

// Scheme names the mapping this table encodes.
func (t *LabelTable) Scheme() string {
	return t.scheme
}

// Label returns the human-facing label for a code.
func (t *LabelTable) Label(code int) (string, bool) {
	label, ok := t.byCode[code]
	return label, ok
}

// Code returns the integer code for a human-facing label.
func (t *LabelTable) Code(label string) (int, bool) {
	code, ok := t.byLabel[label]
	return code, ok
}

// Codes returns the valid codes in ascending order, for form rendering.
func (t *LabelTable) Codes() []int {
	codes := make([]int, 0, len(t.byCode))
	for code := range t.byCode {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

var (
	sexTable = newLabelTable("sex", map[int]string{
		0: string(domain.FEMALE),
		1: string(domain.MALE),
	})

	chestPainTable = newLabelTable("cp", map[int]string{
		0: "Typical Angina",
		1: "Atypical Angina",
		2: "Non-anginal Pain",
		3: "Asymptomatic",
	})

	restingECGTable = newLabelTable("restecg", map[int]string{
		0: "Normal",
		1: "ST-T Wave Abnormality",
		2: "Left Ventricular Hypertrophy",
	})

	stSlopeTable = newLabelTable("slope", map[int]string{
		0: "Upsloping",
		1: "Flat",
		2: "Downsloping",
	})

	thalUCI4Table = newLabelTable(string(domain.UCI4), map[int]string{
		0: "Normal",
		1: "Fixed Defect",
		2: "Reversible Defect",
		3: "Unknown",
	})

	thalClinical3Table = newLabelTable(string(domain.CLINICAL3), map[int]string{
		1: "Normal",
		2: "Fixed Defect",
		3: "Reversible Defect",
	})
)

// SexTable returns the sex code table (0 Female, 1 Male).
func SexTable() *LabelTable { return sexTable }

// ChestPainTable returns the chest pain type code table.
func ChestPainTable() *LabelTable { return chestPainTable }

// RestingECGTable returns the resting ECG result code table.
func RestingECGTable() *LabelTable { return restingECGTable }

// STSlopeTable returns the peak exercise ST segment slope code table.
func STSlopeTable() *LabelTable { return stSlopeTable }

// ThalassemiaTable returns the thalassemia code table for the given scheme.
// The reference datasets disagree on this mapping, so callers must pick a
// scheme explicitly per deployment.
func ThalassemiaTable(scheme domain.ThalassemiaScheme) (*LabelTable, error) {
	switch scheme {
	case domain.UCI4:
		return thalUCI4Table, nil
	case domain.CLINICAL3:
		return thalClinical3Table, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidThalScheme, scheme)
	}
}
