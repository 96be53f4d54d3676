package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound = errors.New("教室不存在")
)

// RoomService 教室业务接口
type RoomService interface {
	List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error)
	ListReservations(ctx context.Context, id int64) ([]dto.ReservationResponse, error)
	CheckAvailability(ctx context.Context, id int64, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	// Reload 从数据库重新播种教室名录，返回启用的教室数
	Reload(ctx context.Context) (int, error)
}

type roomService struct {
	repo   *repository.Repository
	engine *scheduling.Engine
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, engine *scheduling.Engine, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, engine: engine, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── ListReservations ──────────────────────

// ListReservations 教室当前的全部预约，按 星期 → 节次 排序
func (s *roomService) ListReservations(_ context.Context, id int64) ([]dto.ReservationResponse, error) {
	if _, err := s.engine.Rooms.GetRoom(id); err != nil {
		return nil, ErrRoomNotFound
	}
	return toReservationResponses(s.engine, s.engine.Ledger.ReservationsForRoom(id)), nil
}

// ────────────────────── CheckAvailability ──────────────────────

func (s *roomService) CheckAvailability(_ context.Context, id int64, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	room, err := s.engine.Rooms.GetRoom(id)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	day, err := scheduling.ParseWeekday(req.Weekday)
	if err != nil {
		return nil, translateError(err)
	}
	slot := scheduling.Slot{RoomID: id, Weekday: day, Block: scheduling.Block(req.Block)}
	if err := s.engine.Slots.ValidateSlot(slot); err != nil {
		return nil, translateError(err)
	}

	resp := &dto.AvailabilityResponse{
		RoomID:    room.ID,
		RoomCode:  room.Code,
		Weekday:   day.String(),
		Block:     req.Block,
		Available: true,
	}
	if holder, ok := s.engine.Ledger.Holder(slot); ok {
		resp.Available = false
		resp.HeldBy = &holder.SectionID
	}
	return resp, nil
}

// ────────────────────── Reload ──────────────────────

func (s *roomService) Reload(ctx context.Context) (int, error) {
	rooms, err := s.repo.Room.List(ctx, false)
	if err != nil {
		s.logger.Error("加载教室名录失败", zap.Error(err))
		return 0, err
	}

	seeded := make([]scheduling.Room, 0, len(rooms))
	active := make(map[int64]struct{}, len(rooms))
	for _, r := range rooms {
		seeded = append(seeded, scheduling.Room{
			ID:       r.RoomID,
			Code:     r.Code,
			Capacity: r.Capacity,
			Type:     r.Type,
		})
		active[r.RoomID] = struct{}{}
	}

	// 被停用的教室上已有的预约保留，仅提示
	for _, prev := range s.engine.Rooms.ListRooms() {
		if _, ok := active[prev.ID]; ok {
			continue
		}
		if n := len(s.engine.Ledger.ReservationsForRoom(prev.ID)); n > 0 {
			s.logger.Warn("教室已停用但仍有预约",
				zap.Int64("room_id", prev.ID),
				zap.String("room_code", prev.Code),
				zap.Int("reservations", n),
			)
		}
	}

	s.engine.Rooms.Reseed(seeded)
	return len(seeded), nil
}

// ── 内部辅助方法 ──

func toRoomResponse(r *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:       r.RoomID,
		Code:     r.Code,
		Name:     r.Name,
		Capacity: r.Capacity,
		Type:     r.Type,
		IsActive: r.IsActive,
	}
}
