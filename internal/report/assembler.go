// Package report assembles completed assessments into immutable report
// records, keeps the bounded per-session history, and renders records into
// report artifacts.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/heart-risk-server/internal/domain"
)

// DefaultHistoryCapacity bounds the per-session report history.
const DefaultHistoryCapacity = 10

// Assemble combines one assessment's input, score and timestamp into an
// immutable report record. Pure given its inputs apart from ID generation.
func Assemble(input domain.ClinicalInput, score domain.ScoreResult, patientLabel string, now time.Time) *domain.ReportRecord {
	return &domain.ReportRecord{
		ID:           uuid.New().String(),
		PatientLabel: patientLabel,
		Timestamp:    now.UTC(),
		Input:        input,
		Score:        score,
	}
}

// History is a bounded, append-only report history. Insertion order is
// preserved in storage; most-recent-first display comes from Recent, never
// from mutating storage. A History is owned by exactly one session context
// and is not safe for concurrent use.
type History struct {
	capacity int
	records  []*domain.ReportRecord
}

// NewHistory creates a history with the given capacity, falling back to
// DefaultHistoryCapacity for non-positive values.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Add appends a record, evicting the oldest when the capacity is exceeded.
func (h *History) Add(record *domain.ReportRecord) {
	h.records = append(h.records, record)
	if len(h.records) > h.capacity {
		over := len(h.records) - h.capacity
		h.records = append([]*domain.ReportRecord(nil), h.records[over:]...)
	}
}

// Recent returns the held records most-recent-first as a fresh slice.
func (h *History) Recent() []*domain.ReportRecord {
	out := make([]*domain.ReportRecord, len(h.records))
	for i, r := range h.records {
		out[len(h.records)-1-i] = r
	}
	return out
}

// Get returns the record with the given ID, if still held.
func (h *History) Get(id string) (*domain.ReportRecord, bool) {
	for _, r := range h.records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	return len(h.records)
}

// Capacity returns the configured bound.
func (h *History) Capacity() int {
	return h.capacity
}
