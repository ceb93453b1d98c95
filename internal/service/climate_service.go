package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"roomclimate/internal/domain"
	"roomclimate/internal/engine"
	"roomclimate/internal/models"
	"roomclimate/internal/repository"
	"roomclimate/internal/store"

	"go.uber.org/zap"
)

// QueryParams 批量查询参数
// RoomIDs 为 nil 时查询全部房间；Since 为空时不限定下界
type QueryParams struct {
	RoomIDs         []int64
	Since           *time.Time
	IntervalMinutes int
}

// ClimateService 房间气候查询服务
// 无状态：每次请求独立执行，除只读缓存外不共享可变状态
type ClimateService struct {
	rooms       repository.RoomsRepository
	attachments repository.AttachmentsRepository
	readings    repository.ReadingsRepository
	cache       store.KV // 可为 nil（缓存关闭时）
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewClimateService 创建房间气候查询服务
func NewClimateService(
	rooms repository.RoomsRepository,
	attachments repository.AttachmentsRepository,
	readings repository.ReadingsRepository,
	cache store.KV,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ClimateService {
	return &ClimateService{
		rooms:       rooms,
		attachments: attachments,
		readings:    readings,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// QueryRooms 批量查询房间气候数据
//  1. 收敛重采样间隔到 [1, 1440]，<= 0 时取默认值 30
//  2. 校验请求的 room_ids，不存在的 id 记录警告后丢弃（不使整批失败）
//  3. 解析 Since 时刻有效的传感器关联（Since 为空时取全部历史）
//  4. 每个房间一个 goroutine 跑三条指标管道，结果写入各自的预分配槽位
//  5. 读数/关联存储错误使整批失败（fail-fast，不做部分回退）
func (s *ClimateService) QueryRooms(ctx context.Context, params QueryParams) (*models.RoomClimateBatch, error) {
	interval := engine.ClampInterval(params.IntervalMinutes, engine.DefaultIntervalMinutes, engine.MaxIntervalMinutes)

	cacheKey := s.cacheKey(params, interval)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	rooms, err := s.rooms.ListRooms(ctx, params.RoomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if params.RoomIDs != nil {
		s.warnMissingRooms(params.RoomIDs, rooms)
	}

	roomIDs := make([]int64, len(rooms))
	for i, room := range rooms {
		roomIDs[i] = room.RoomID
	}

	attachments, err := s.attachments.ResolveAttachments(ctx, roomIDs, params.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attachments: %w", err)
	}

	// 每房间一个槽位，无共享累加器，无需加锁写结果
	results := make([]models.RoomClimate, len(rooms))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, room := range rooms {
		wg.Add(1)
		go func(i int, room *domain.Room) {
			defer wg.Done()
			rc, err := s.buildRoomResult(ctx, room, attachments[room.RoomID], params.Since, interval)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = *rc
		}(i, room)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	batch := &models.RoomClimateBatch{
		Rooms:      results,
		TotalRooms: len(results),
	}
	s.cacheSet(ctx, cacheKey, batch)
	return batch, nil
}

// QueryRoom 单房间查询：复用批量管道，房间不存在时返回 ErrRoomNotFound
// （区别于"房间存在但没有数据"——后者正常返回，指标字段缺席）
func (s *ClimateService) QueryRoom(ctx context.Context, roomID int64, since *time.Time, intervalMinutes int) (*models.RoomClimate, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	batch, err := s.QueryRooms(ctx, QueryParams{
		RoomIDs:         []int64{roomID},
		Since:           since,
		IntervalMinutes: intervalMinutes,
	})
	if err != nil {
		return nil, err
	}
	if len(batch.Rooms) == 0 {
		// GetRoom 刚确认过存在，这里为空只可能是并发删除
		return nil, fmt.Errorf("room %d: %w", roomID, repository.ErrRoomNotFound)
	}
	return &batch.Rooms[0], nil
}

// buildRoomResult 组装单个房间的输出：房间属性 + 关联列表 + 非缺失的指标摘要
func (s *ClimateService) buildRoomResult(ctx context.Context, room *domain.Room, attachments []domain.Attachment, since *time.Time, interval int) (*models.RoomClimate, error) {
	result := newRoomModel(room, attachments)
	addresses := uniqueAddresses(attachments)

	for _, metric := range domain.Metrics() {
		summary, err := s.runMetric(ctx, metric, addresses, since, interval)
		if err != nil {
			s.logger.Error("Metric pipeline failed",
				zap.Int64("room_id", room.RoomID),
				zap.String("metric", string(metric)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("room %d metric %s: %w", room.RoomID, metric, err)
		}
		if summary == nil {
			// 零读数：该指标键整体缺席，不是错误
			continue
		}
		switch metric {
		case domain.MetricTemperature:
			result.Temperature = summary
		case domain.MetricHumidity:
			result.Humidity = summary
		case domain.MetricPressure:
			result.Pressure = summary
		}
	}
	return result, nil
}

// runMetric 单指标管道：取数 → 统计 → 建网格 → 逐源插值 → 跨源聚合
// 所有源都没有读数时返回 (nil, nil)，表示该指标缺失
func (s *ClimateService) runMetric(ctx context.Context, metric domain.Metric, addresses []string, since *time.Time, interval int) (*models.MetricSummary, error) {
	readings, err := s.readings.FetchReadings(ctx, metric, addresses, since)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}

	// 统计基于原始值（插值、网格化之前）
	values := make([]float64, len(readings))
	perSource := make(map[string][]domain.Reading)
	earliest, latest := readings[0].Timestamp, readings[0].Timestamp
	for i, r := range readings {
		values[i] = r.Value
		perSource[r.SourceAddress] = append(perSource[r.SourceAddress], r)
		if r.Timestamp.Before(earliest) {
			earliest = r.Timestamp
		}
		if r.Timestamp.After(latest) {
			latest = r.Timestamp
		}
	}
	min, max, avg := engine.Summarize(values)

	// 网格跨全部源的观测范围；interval 已在入口收敛，这里不会非法
	grid, err := engine.BuildGrid(earliest, latest, interval)
	if err != nil {
		return nil, err
	}

	interpolated := make(map[string][]engine.InterpolatedPoint, len(perSource))
	for addr, sourceReadings := range perSource {
		interpolated[addr] = engine.Interpolate(sourceReadings, grid)
	}
	series := engine.Aggregate(interpolated, grid)

	data := make([]models.SeriesPair, 0, len(series))
	for _, p := range series {
		data = append(data, models.SeriesPair{TimestampMS: p.Timestamp.UnixMilli(), Value: p.Value})
	}

	return &models.MetricSummary{
		Min:          min,
		Max:          max,
		Average:      avg,
		NombreValues: len(readings),
		Data:         data,
	}, nil
}

// warnMissingRooms 对请求中解析不到的 room_id 记录警告（批量查询不因此失败）
func (s *ClimateService) warnMissingRooms(requested []int64, found []*domain.Room) {
	existing := make(map[int64]bool, len(found))
	for _, room := range found {
		existing[room.RoomID] = true
	}
	for _, id := range requested {
		if !existing[id] {
			s.logger.Warn("Requested room does not exist, skipping", zap.Int64("room_id", id))
		}
	}
}

// uniqueAddresses 提取关联里的传感器地址并集（保持首次出现顺序）
func uniqueAddresses(attachments []domain.Attachment) []string {
	seen := make(map[string]bool, len(attachments))
	var addresses []string
	for _, a := range attachments {
		addr := a.Tag.SourceAddress
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		addresses = append(addresses, addr)
	}
	return addresses
}

// newRoomModel 将领域模型映射为输出模型（指标字段由调用方按管道结果填充）
func newRoomModel(room *domain.Room, attachments []domain.Attachment) *models.RoomClimate {
	tags := make([]models.RoomTagLink, 0, len(attachments))
	for _, a := range attachments {
		tags = append(tags, models.RoomTagLink{
			ID: a.AttachmentID,
			Tag: models.TagInfo{
				ID:            a.Tag.TagID,
				Name:          a.Tag.Name,
				SourceAddress: a.Tag.SourceAddress,
				Description:   a.Tag.Description,
				CreatedAt:     a.Tag.CreatedAt,
				UpdatedAt:     a.Tag.UpdatedAt,
			},
			StartAt:   a.StartAt,
			EndAt:     a.EndAt,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}

	return &models.RoomClimate{
		ID:          room.RoomID,
		Name:        room.Name,
		Description: room.Description,
		Floor:       room.Floor,
		BuildingID:  room.BuildingID,
		Area:        room.Area,
		Capacity:    room.Capacity,
		StartAt:     room.StartAt,
		EndAt:       room.EndAt,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
		Tags:        tags,
	}
}

// cacheKey 按查询参数生成缓存键；缓存未启用时返回空串
func (s *ClimateService) cacheKey(params QueryParams, interval int) string {
	if s.cache == nil || s.cacheTTL <= 0 {
		return ""
	}
	ids := "all"
	if params.RoomIDs != nil {
		sorted := make([]int64, len(params.RoomIDs))
		copy(sorted, params.RoomIDs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		parts := make([]string, len(sorted))
		for i, id := range sorted {
			parts[i] = strconv.FormatInt(id, 10)
		}
		ids = strings.Join(parts, ",")
	}
	since := "-"
	if params.Since != nil {
		since = strconv.FormatInt(params.Since.Unix(), 10)
	}
	return fmt.Sprintf("roomclimate:batch:%s:%s:%d", ids, since, interval)
}

func (s *ClimateService) cacheGet(ctx context.Context, key string) *models.RoomClimateBatch {
	if key == "" {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != store.ErrMiss {
			// 缓存故障降级为重算，不影响请求
			s.logger.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var batch models.RoomClimateBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		s.logger.Warn("Cache entry corrupted, recomputing", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &batch
}

func (s *ClimateService) cacheSet(ctx context.Context, key string, batch *models.RoomClimateBatch) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		s.logger.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}
