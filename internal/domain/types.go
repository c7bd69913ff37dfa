// Package domain contains the core business entities for heart disease risk
// assessment: clinical observations, their fixed-order feature encoding, risk
// bands derived from scored probabilities, and immutable assessment reports.
package domain

import (
	"errors"
)

// RiskBand represents the ordinal risk bucket derived from a scored
// probability. Bands are ordered VERY_LOW < LOW < MODERATE < HIGH < VERY_HIGH;
// comparisons between bands must go through Rank, not string ordering.
type RiskBand string

const (
	VERY_LOW  RiskBand = "VERY_LOW"
	LOW       RiskBand = "LOW"
	MODERATE  RiskBand = "MODERATE"
	HIGH      RiskBand = "HIGH"
	VERY_HIGH RiskBand = "VERY_HIGH"
)

// BandingPolicy selects which risk threshold table is in effect.
type BandingPolicy string

const (
	FIVE_BAND BandingPolicy = "FIVE_BAND"
	TWO_BAND  BandingPolicy = "TWO_BAND"
)

// Sex is the patient sex as collected on the form.
type Sex string

const (
	FEMALE Sex = "Female"
	MALE   Sex = "Male"
)

// ThalassemiaScheme names the code-to-meaning mapping in use for the
// thalassemia field. The reference datasets disagree on this mapping, so the
// scheme is deployment configuration rather than a single canonical table.
//
//	UCI4:      0 Normal, 1 Fixed Defect, 2 Reversible Defect, 3 Unknown
//	CLINICAL3: 1 Normal, 2 Fixed Defect, 3 Reversible Defect
type ThalassemiaScheme string

const (
	UCI4      ThalassemiaScheme = "UCI4"
	CLINICAL3 ThalassemiaScheme = "CLINICAL3"
)

// DomainProfile names the set of continuous-field bounds in use. The
// reference datasets also disagree on the valid age and heart-rate ranges.
//
//	STANDARD: age [18,90], max heart rate [70,210]
//	NARROW:   age [29,77], max heart rate [60,220]
type DomainProfile string

const (
	STANDARD DomainProfile = "STANDARD"
	NARROW   DomainProfile = "NARROW"
)

// Validation errors for assessment data integrity
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidRiskBand      = errors.New("invalid risk band")
	ErrInvalidBandingPolicy = errors.New("invalid banding policy")
	ErrInvalidSex           = errors.New("invalid sex value")
	ErrInvalidThalScheme    = errors.New("invalid thalassemia scheme")
	ErrInvalidDomainProfile = errors.New("invalid domain profile")
)

// IsValid validates that the RiskBand is one of the defined ordinal buckets.
// Only valid bands may appear in clinical reports.
func (b RiskBand) IsValid() bool {
	switch b {
	case VERY_LOW, LOW, MODERATE, HIGH, VERY_HIGH:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk band.
func (b RiskBand) String() string {
	return string(b)
}

// Rank returns the position of the band in the ordinal scale, starting at 0
// for VERY_LOW. Unknown bands rank above VERY_HIGH so that a corrupted value
// is never displayed as reassuring.
func (b RiskBand) Rank() int {
	switch b {
	case VERY_LOW:
		return 0
	case LOW:
		return 1
	case MODERATE:
		return 2
	case HIGH:
		return 3
	case VERY_HIGH:
		return 4
	default:
		return 5
	}
}

// ClinicalSignificance returns a human-readable description of the band for
// reporting and patient communication.
func (b RiskBand) ClinicalSignificance() string {
	switch b {
	case VERY_LOW:
		return "Very Low Risk - No elevated indicators detected"
	case LOW:
		return "Low Risk - Minor indicators present"
	case MODERATE:
		return "Moderate Risk - Several indicators present"
	case HIGH:
		return "High Risk - Strong indicators of heart disease"
	case VERY_HIGH:
		return "Very High Risk - Critical indicators of heart disease"
	default:
		return "Unknown risk band"
	}
}

// RequiresClinicalAction determines if the band requires clinical follow-up.
func (b RiskBand) RequiresClinicalAction() bool {
	switch b {
	case HIGH, VERY_HIGH:
		return true
	case VERY_LOW, LOW, MODERATE:
		return false
	default:
		return true // Conservative approach for unknown bands
	}
}

// LogFields returns structured logging fields for audit trails.
func (b RiskBand) LogFields() map[string]any {
	return map[string]any{
		"risk_band":             string(b),
		"clinical_significance": b.ClinicalSignificance(),
		"band_rank":             b.Rank(),
		"is_valid":              b.IsValid(),
		"requires_action":       b.RequiresClinicalAction(),
	}
}

// IsValid validates the banding policy name.
func (p BandingPolicy) IsValid() bool {
	switch p {
	case FIVE_BAND, TWO_BAND:
		return true
	default:
		return false
	}
}

// IsValid validates the sex value against the form's two-valued enumeration.
func (s Sex) IsValid() bool {
	switch s {
	case FEMALE, MALE:
		return true
	default:
		return false
	}
}

// IsValid validates the thalassemia scheme name.
func (ts ThalassemiaScheme) IsValid() bool {
	switch ts {
	case UCI4, CLINICAL3:
		return true
	default:
		return false
	}
}

// IsValid validates the domain profile name.
func (dp DomainProfile) IsValid() bool {
	switch dp {
	case STANDARD, NARROW:
		return true
	default:
		return false
	}
}
