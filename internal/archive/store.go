// Package archive provides durable storage for completed assessment records,
// beyond the bounded in-memory session history. Two backends are supported:
// a local SQLite file and PostgreSQL.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/heart-risk-server/internal/domain"
)

// Archive backend names accepted in configuration.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Records are stored flat, one column per clinical field, so the archive can
// be queried without unpacking JSON blobs.
const recordColumns = `
	id, patient_label, created_at,
	probability, band, recommendation,
	age, sex, cp, trestbps, chol, fbs, restecg,
	thalach, exang, oldpeak, slope, ca, thal`

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans a flat row back into a report record.
func scanRecord(s scanner) (*domain.ReportRecord, error) {
	r := &domain.ReportRecord{}
	var band, sex string

	err := s.Scan(
		&r.ID, &r.PatientLabel, &r.Timestamp,
		&r.Score.Probability, &band, &r.Score.Recommendation,
		&r.Input.Age, &sex, &r.Input.ChestPainType, &r.Input.RestingBloodPressure,
		&r.Input.Cholesterol, &r.Input.FastingBloodSugarHigh, &r.Input.RestingECG,
		&r.Input.MaxHeartRate, &r.Input.ExerciseInducedAngina, &r.Input.STDepression,
		&r.Input.STSlope, &r.Input.MajorVesselsCount, &r.Input.Thalassemia,
	)
	if err != nil {
		return nil, err
	}

	r.Score.Band = domain.RiskBand(band)
	r.Input.Sex = domain.Sex(sex)
	return r, nil
}

// recordArgs flattens a report record into the column order of recordColumns.
func recordArgs(r *domain.ReportRecord) []interface{} {
	return []interface{}{
		r.ID, r.PatientLabel, r.Timestamp,
		r.Score.Probability, string(r.Score.Band), r.Score.Recommendation,
		r.Input.Age, string(r.Input.Sex), r.Input.ChestPainType, r.Input.RestingBloodPressure,
		r.Input.Cholesterol, r.Input.FastingBloodSugarHigh, r.Input.RestingECG,
		r.Input.MaxHeartRate, r.Input.ExerciseInducedAngina, r.Input.STDepression,
		r.Input.STSlope, r.Input.MajorVesselsCount, r.Input.Thalassemia,
	}
}

// Export represents the JSON export format.
type Export struct {
	Version    string                 `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	Count      int                    `json:"count"`
	Records    []*domain.ReportRecord `json:"records"`
}

// exportJSON streams every archived record to the writer in pages.
func exportJSON(ctx context.Context, store domain.ReportArchive, writer io.Writer) error {
	const pageSize = 100

	var records []*domain.ReportRecord
	for offset := 0; ; offset += pageSize {
		page, err := store.List(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("exporting archive: %w", err)
		}
		records = append(records, page...)
		if len(page) < pageSize {
			break
		}
	}

	export := Export{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
		Count:      len(records),
		Records:    records,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("exporting archive: %w", err)
	}
	return nil
}
