package archive

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

var recordColumnNames = []string{
	"id", "patient_label", "created_at",
	"probability", "band", "recommendation",
	"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "ca", "thal",
}

func mockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	return store, mock
}

func recordValues(record *domain.ReportRecord) []driver.Value {
	args := recordArgs(record)
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a
	}
	return values
}

func recordRow(record *domain.ReportRecord) *sqlmock.Rows {
	return sqlmock.NewRows(recordColumnNames).AddRow(recordValues(record)...)
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	_, err := NewPostgresStore(nil)
	assert.Error(t, err)
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := mockStore(t)

	record := archivedRecord("rec-1", time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_DBError(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnError(errors.New("duplicate key value"))

	err := store.Save(context.Background(), archivedRecord("rec-1", time.Now().UTC()))
	assert.Error(t, err)
}

func TestPostgresStore_Save_RejectsInvalid(t *testing.T) {
	store, _ := mockStore(t)

	bad := archivedRecord("rec-bad", time.Now().UTC())
	bad.Score.Probability = 2.0

	// Validation fails before any SQL is issued.
	assert.Error(t, store.Save(context.Background(), bad))
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := mockStore(t)

	record := archivedRecord("rec-1", time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments WHERE id = $1")).
		WithArgs("rec-1").
		WillReturnRows(recordRow(record))

	got, err := store.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Input, got.Input)
	assert.Equal(t, record.Score, got.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recordColumnNames))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := mockStore(t)

	newer := archivedRecord("rec-2", time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC))
	older := archivedRecord("rec-1", time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))
	rows := recordRow(newer).AddRow(recordValues(older)...)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(rows)

	records, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-2", records[0].ID)
	assert.Equal(t, "rec-1", records[1].ID)
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assessments")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assessments WHERE id = $1")).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "rec-1"))
}

func TestPostgresStore_Delete_NotFound(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assessments WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Delete(context.Background(), "missing"), domain.ErrNotFound)
}

func TestPostgresStore_ExportJSON(t *testing.T) {
	store, mock := mockStore(t)

	record := archivedRecord("rec-1", time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(100, 0).
		WillReturnRows(recordRow(record))

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(context.Background(), &buf))
	assert.Contains(t, buf.String(), "rec-1")
}
