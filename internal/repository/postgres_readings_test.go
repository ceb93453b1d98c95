package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomclimate/internal/domain"
)

func TestFetchReadings_OrderedWithSince(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresReadingsRepository(db)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"source_address", "recorded_at", "value"}).
		AddRow("aa:bb:cc:01", since.Add(10*time.Minute), 20.5).
		AddRow("aa:bb:cc:02", since.Add(15*time.Minute), 21.0).
		AddRow("aa:bb:cc:01", since.Add(40*time.Minute), 22.25)

	mock.ExpectQuery(`FROM temperature_readings\s+WHERE source_address = ANY\(\$1\)\s+AND recorded_at >= \$2`).
		WithArgs(pq.Array([]string{"aa:bb:cc:01", "aa:bb:cc:02"}), since).
		WillReturnRows(rows)

	readings, err := repo.FetchReadings(context.Background(), domain.MetricTemperature,
		[]string{"aa:bb:cc:01", "aa:bb:cc:02"}, &since)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, "aa:bb:cc:01", readings[0].SourceAddress)
	assert.Equal(t, 20.5, readings[0].Value)
	// 升序由 SQL 保证，这里只验证透传顺序
	assert.True(t, readings[0].Timestamp.Before(readings[2].Timestamp))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchReadings_PerMetricTables(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresReadingsRepository(db)

	empty := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"source_address", "recorded_at", "value"})
	}
	mock.ExpectQuery(`FROM humidity_readings`).
		WithArgs(pq.Array([]string{"aa:bb:cc:01"})).
		WillReturnRows(empty())
	mock.ExpectQuery(`FROM pressure_readings`).
		WithArgs(pq.Array([]string{"aa:bb:cc:01"})).
		WillReturnRows(empty())

	_, err := repo.FetchReadings(context.Background(), domain.MetricHumidity, []string{"aa:bb:cc:01"}, nil)
	require.NoError(t, err)
	_, err = repo.FetchReadings(context.Background(), domain.MetricPressure, []string{"aa:bb:cc:01"}, nil)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchReadings_EmptyAddressesSkipsQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresReadingsRepository(db)

	readings, err := repo.FetchReadings(context.Background(), domain.MetricTemperature, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, readings)

	// 不应发起任何查询
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchReadings_UnknownMetric(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresReadingsRepository(db)

	_, err := repo.FetchReadings(context.Background(), domain.Metric("co2"), []string{"aa:bb:cc:01"}, nil)
	assert.Error(t, err)
}
