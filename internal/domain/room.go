package domain

import "time"

// Room 房间领域模型（对应 rooms 表）
// start_at/end_at 表示房间本身的启用区间（可为空）
type Room struct {
	RoomID      int64      `db:"room_id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"` // nullable
	Floor       *int       `db:"floor"`       // nullable
	BuildingID  *int64     `db:"building_id"` // nullable
	Area        *float64   `db:"area"`        // nullable, 平方米
	Capacity    *int       `db:"capacity"`    // nullable
	StartAt     *time.Time `db:"start_at"`    // nullable
	EndAt       *time.Time `db:"end_at"`      // nullable
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
