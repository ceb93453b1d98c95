package domain

import "time"

// SensorTag 传感器标签领域模型（对应 tags 表）
// SourceAddress 是物理采集源的稳定标识，与数据库行 id 区分
type SensorTag struct {
	TagID         int64     `db:"tag_id"`
	Name          string    `db:"name"`
	SourceAddress string    `db:"source_address"`
	Description   *string   `db:"description"` // nullable
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
