package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"roomclimate/internal/models"
	"roomclimate/internal/repository"
	"roomclimate/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClimateQueryService 气候查询服务接口（便于 handler 单测替换实现）
type ClimateQueryService interface {
	QueryRooms(ctx context.Context, params service.QueryParams) (*models.RoomClimateBatch, error)
	QueryRoom(ctx context.Context, roomID int64, since *time.Time, intervalMinutes int) (*models.RoomClimate, error)
}

// ClimateHandler 房间气候查询 API
type ClimateHandler struct {
	svc    ClimateQueryService
	logger *zap.Logger
}

func NewClimateHandler(svc ClimateQueryService, logger *zap.Logger) *ClimateHandler {
	return &ClimateHandler{svc: svc, logger: logger}
}

// requestID 取请求头里的 X-Request-ID，缺省时生成一个（用于日志关联）
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// GET /climate/api/v1/rooms
// params:
// - room_ids? 逗号分隔的房间 id 列表（缺省为全部房间）
// - since? 下界日期，RFC3339 或 2006-01-02
// - smooth_interval_minutes? 重采样间隔（1–1440，默认 30；越界静默收敛）
func (h *ClimateHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := requestID(r)

	roomIDs, err := parseIDList(r.URL.Query().Get("room_ids"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	since, err := parseDate(r.URL.Query().Get("since"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	interval := parseInt(r.URL.Query().Get("smooth_interval_minutes"), 0)

	batch, err := h.svc.QueryRooms(ctx, service.QueryParams{
		RoomIDs:         roomIDs,
		Since:           since,
		IntervalMinutes: interval,
	})
	if err != nil {
		// 上游存储故障：记录上下文，对外只暴露通用错误
		h.logger.Error("Room climate batch query failed",
			zap.String("request_id", reqID),
			zap.Int64s("room_ids", roomIDs),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(batch))
}

// GET /climate/api/v1/rooms/{id}
// 房间不存在时返回 404（区别于"房间存在但无数据"，后者 200 且指标键缺席）
func (h *ClimateHandler) GetRoom(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()
	reqID := requestID(r)

	roomID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid room id"))
		return
	}
	since, err := parseDate(r.URL.Query().Get("since"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	interval := parseInt(r.URL.Query().Get("smooth_interval_minutes"), 0)

	room, err := h.svc.QueryRoom(ctx, roomID, since, interval)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("room not found"))
			return
		}
		h.logger.Error("Room climate query failed",
			zap.String("request_id", reqID),
			zap.Int64("room_id", roomID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(room))
}
