package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roomclimate/internal/domain"

	"github.com/lib/pq"
)

// readingTables 指标到数据表的映射（每种指标一个独立逻辑流）
var readingTables = map[domain.Metric]string{
	domain.MetricTemperature: "temperature_readings",
	domain.MetricHumidity:    "humidity_readings",
	domain.MetricPressure:    "pressure_readings",
}

// PostgresReadingsRepository 原始读数Repository实现
type PostgresReadingsRepository struct {
	db *sql.DB
}

// NewPostgresReadingsRepository 创建读数Repository
func NewPostgresReadingsRepository(db *sql.DB) *PostgresReadingsRepository {
	return &PostgresReadingsRepository{db: db}
}

// 确保实现了接口
var _ ReadingsRepository = (*PostgresReadingsRepository)(nil)

// FetchReadings 按时间升序获取一组传感器的原始读数
func (r *PostgresReadingsRepository) FetchReadings(ctx context.Context, metric domain.Metric, addresses []string, since *time.Time) ([]domain.Reading, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	table, ok := readingTables[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", metric)
	}

	query := fmt.Sprintf(`
		SELECT
			source_address,
			recorded_at,
			value
		FROM %s
		WHERE source_address = ANY($1)
	`, table)
	args := []any{pq.Array(addresses)}

	if since != nil {
		query += " AND recorded_at >= $2"
		args = append(args, *since)
	}
	query += " ORDER BY recorded_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s readings: %w", metric, err)
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		var reading domain.Reading
		if err := rows.Scan(&reading.SourceAddress, &reading.Timestamp, &reading.Value); err != nil {
			return nil, fmt.Errorf("failed to scan %s reading: %w", metric, err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s readings: %w", metric, err)
	}
	return readings, nil
}
