package repository

import (
	"context"
	"errors"
	"time"

	"roomclimate/internal/domain"
)

// ErrRoomNotFound 指定房间不存在
// 批量查询里未知 room_id 不会触发该错误（直接从结果集缺席）；
// 单房间查询时由 Service 层转换为对外的 NotFound
var ErrRoomNotFound = errors.New("room not found")

// RoomsRepository 房间Repository接口
// 使用强类型领域模型，不使用map[string]any
type RoomsRepository interface {
	// GetRoom 根据room_id获取房间，不存在时返回ErrRoomNotFound
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)

	// ListRooms 查询房间列表（按room_id升序）
	// roomIDs 为 nil 时返回全部房间；未知 id 不报错，直接缺席于结果
	ListRooms(ctx context.Context, roomIDs []int64) ([]*domain.Room, error)
}

// AttachmentsRepository 房间-传感器关联Repository接口
type AttachmentsRepository interface {
	// ResolveAttachments 解析房间的传感器关联（JOIN tags 获取传感器信息）
	// at 非空时只返回该时刻有效的关联：start_at <= at 且 (end_at IS NULL 或 end_at >= at)
	// at 为空时返回全部关联历史，由调用方按各自区间处理
	// 未知 room_id 静默缺席于返回的映射，不是错误
	ResolveAttachments(ctx context.Context, roomIDs []int64, at *time.Time) (map[int64][]domain.Attachment, error)
}

// ReadingsRepository 原始读数Repository接口
// 每种指标对应独立的数据表（temperature/humidity/pressure 各一个逻辑流）
type ReadingsRepository interface {
	// FetchReadings 按时间升序获取一组传感器的原始读数
	// since 非空时只返回 recorded_at >= since 的读数
	// addresses 为空时直接返回空结果，不发起查询
	FetchReadings(ctx context.Context, metric domain.Metric, addresses []string, since *time.Time) ([]domain.Reading, error)
}
