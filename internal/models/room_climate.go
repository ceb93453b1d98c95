package models

import (
	"encoding/json"
	"time"
)

// SeriesPair 重采样序列中的单个点
// 与前端图表组件约定的格式一致：序列化为 [epoch_ms, value]
type SeriesPair struct {
	TimestampMS int64
	Value       float64
}

func (p SeriesPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.TimestampMS, p.Value})
}

func (p *SeriesPair) UnmarshalJSON(data []byte) error {
	var raw [2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.TimestampMS = int64(raw[0])
	p.Value = raw[1]
	return nil
}

// MetricSummary 单指标摘要：原始值统计 + 重采样后的序列
// 字段名与既有前端约定保持一致（nombre_values 即原始读数条数）
type MetricSummary struct {
	Min          float64      `json:"min"`
	Max          float64      `json:"max"`
	Average      float64      `json:"average"`
	NombreValues int          `json:"nombre_values"`
	Data         []SeriesPair `json:"data"`
}

// TagInfo 传感器标签信息（嵌套在关联里返回）
type TagInfo struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	SourceAddress string    `json:"source_address"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoomTagLink 房间-传感器关联（含自身的有效区间）
type RoomTagLink struct {
	ID        int64      `json:"id"`
	Tag       TagInfo    `json:"tag"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RoomClimate 单个房间的完整输出
// 三个指标字段只在存在至少一条底层读数时出现
type RoomClimate struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Floor       *int          `json:"floor"`
	BuildingID  *int64        `json:"building_id"`
	Area        *float64      `json:"area"`
	Capacity    *int          `json:"capacity"`
	StartAt     *time.Time    `json:"start_at"`
	EndAt       *time.Time    `json:"end_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Tags        []RoomTagLink `json:"tags"`

	Temperature *MetricSummary `json:"temperature,omitempty"`
	Humidity    *MetricSummary `json:"humidity,omitempty"`
	Pressure    *MetricSummary `json:"pressure,omitempty"`
}

// RoomClimateBatch 批量查询结果
type RoomClimateBatch struct {
	Rooms      []RoomClimate `json:"rooms"`
	TotalRooms int           `json:"total_rooms"`
}
