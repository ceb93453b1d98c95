package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"roomclimate/internal/domain"

	"github.com/lib/pq"
)

// PostgresAttachmentsRepository 房间-传感器关联Repository实现
type PostgresAttachmentsRepository struct {
	db *sql.DB
}

// NewPostgresAttachmentsRepository 创建关联Repository
func NewPostgresAttachmentsRepository(db *sql.DB) *PostgresAttachmentsRepository {
	return &PostgresAttachmentsRepository{db: db}
}

// 确保实现了接口
var _ AttachmentsRepository = (*PostgresAttachmentsRepository)(nil)

// ResolveAttachments 解析房间的传感器关联
func (r *PostgresAttachmentsRepository) ResolveAttachments(ctx context.Context, roomIDs []int64, at *time.Time) (map[int64][]domain.Attachment, error) {
	query := `
		SELECT
			rt.room_tag_id,
			rt.room_id,
			rt.start_at,
			rt.end_at,
			rt.created_at,
			rt.updated_at,
			t.tag_id,
			t.name,
			t.source_address,
			t.description,
			t.created_at,
			t.updated_at
		FROM room_tags rt
		JOIN tags t ON rt.tag_id = t.tag_id
	`

	// 构建WHERE条件（编号参数，与其它Repository保持一致）
	var where []string
	var args []any
	argIdx := 1

	if roomIDs != nil {
		where = append(where, fmt.Sprintf("rt.room_id = ANY($%d)", argIdx))
		args = append(args, pq.Array(roomIDs))
		argIdx++
	}
	if at != nil {
		// 有效区间包含参考时刻：start_at <= at AND (end_at IS NULL OR end_at >= at)
		where = append(where, fmt.Sprintf("rt.start_at <= $%d", argIdx))
		args = append(args, *at)
		argIdx++
		where = append(where, fmt.Sprintf("(rt.end_at IS NULL OR rt.end_at >= $%d)", argIdx))
		args = append(args, *at)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rt.room_id ASC, rt.start_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attachments: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Attachment)
	for rows.Next() {
		var a domain.Attachment
		err := rows.Scan(
			&a.AttachmentID,
			&a.RoomID,
			&a.StartAt,
			&a.EndAt,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.Tag.TagID,
			&a.Tag.Name,
			&a.Tag.SourceAddress,
			&a.Tag.Description,
			&a.Tag.CreatedAt,
			&a.Tag.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		result[a.RoomID] = append(result[a.RoomID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}
	return result, nil
}
