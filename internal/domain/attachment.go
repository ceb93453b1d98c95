package domain

import "time"

// Attachment 房间-传感器关联领域模型（对应 room_tags 表）
// 表示传感器（通过其tag）归属于某房间的有效时间区间
// 不变式：EndAt 为空（开放区间）或 EndAt > StartAt
type Attachment struct {
	AttachmentID int64      `db:"room_tag_id"`
	RoomID       int64      `db:"room_id"`
	Tag          SensorTag  // JOIN tags 获取
	StartAt      time.Time  `db:"start_at"`
	EndAt        *time.Time `db:"end_at"` // nullable, 空表示仍然有效
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// ActiveAt 判断关联在指定时刻是否有效
// 规则：start_at <= at 且（end_at 为空 或 end_at >= at）
func (a *Attachment) ActiveAt(at time.Time) bool {
	if a.StartAt.After(at) {
		return false
	}
	return a.EndAt == nil || !a.EndAt.Before(at)
}
