package repository

import (
	"context"
	"database/sql"
	"fmt"

	"roomclimate/internal/domain"

	"github.com/lib/pq"
)

// PostgresRoomsRepository 房间Repository实现（强类型版本）
type PostgresRoomsRepository struct {
	db *sql.DB
}

// NewPostgresRoomsRepository 创建房间Repository
func NewPostgresRoomsRepository(db *sql.DB) *PostgresRoomsRepository {
	return &PostgresRoomsRepository{db: db}
}

// 确保实现了接口
var _ RoomsRepository = (*PostgresRoomsRepository)(nil)

const roomColumns = `
	room_id,
	name,
	description,
	floor,
	building_id,
	area,
	capacity,
	start_at,
	end_at,
	created_at,
	updated_at
`

// GetRoom 根据room_id获取房间
func (r *PostgresRoomsRepository) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = $1`

	room, err := scanRoom(r.db.QueryRowContext(ctx, query, roomID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("room %d: %w", roomID, ErrRoomNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// ListRooms 查询房间列表（按room_id升序）
func (r *PostgresRoomsRepository) ListRooms(ctx context.Context, roomIDs []int64) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms`
	args := []any{}
	if roomIDs != nil {
		query += ` WHERE room_id = ANY($1)`
		args = append(args, pq.Array(roomIDs))
	}
	query += ` ORDER BY room_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

// rowScanner 统一 QueryRow 和 Rows 的 Scan
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.RoomID,
		&room.Name,
		&room.Description,
		&room.Floor,
		&room.BuildingID,
		&room.Area,
		&room.Capacity,
		&room.StartAt,
		&room.EndAt,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
