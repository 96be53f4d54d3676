package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 班级模块业务错误 ──

var (
	ErrSectionNotFound = errors.New("班级不存在")
	ErrSectionInvalid  = errors.New("班级信息不合法")
	ErrSlotInvalid     = errors.New("时段不合法")
	ErrSectionStale    = errors.New("班级已被修改，请刷新后重试")
)

// SectionService 班级与课表业务接口。
// 时段冲突以 *scheduling.SchedulingError 返回，其余错误为本包的业务错误。
type SectionService interface {
	Create(ctx context.Context, courseID int64, req *dto.CreateSectionRequest) (*dto.SectionResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error)
	Delete(ctx context.Context, id int64) error
	ListReservations(ctx context.Context, id int64) ([]dto.ReservationResponse, error)
	// Check 试算课表，返回首个冲突但不提交
	Check(ctx context.Context, req *dto.CheckScheduleRequest) (*dto.CheckScheduleResponse, error)
}

type sectionService struct {
	engine    *scheduling.Engine
	presenter *sectionPresenter
	logger    *zap.Logger
}

// NewSectionService 创建 SectionService 实例
func NewSectionService(repo *repository.Repository, engine *scheduling.Engine, logger *zap.Logger) SectionService {
	return &sectionService{
		engine:    engine,
		presenter: &sectionPresenter{repo: repo, engine: engine, logger: logger},
		logger:    logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *sectionService) Create(ctx context.Context, courseID int64, req *dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	slots, err := toSlots(req.Schedule)
	if err != nil {
		return nil, err
	}

	in := scheduling.SectionInput{
		Name:     req.Name,
		Schedule: slots,
		Active:   true,
	}
	if req.TeacherID != nil {
		in.TeacherID = *req.TeacherID
	}
	if req.IsActive != nil {
		in.Active = *req.IsActive
	}

	sec, err := s.engine.Scheduler.CreateSection(ctx, courseID, in)
	if err != nil {
		s.logRejected("创建班级被拒绝", err, zap.Int64("course_id", courseID))
		return nil, translateError(err)
	}

	s.logger.Info("班级已创建",
		zap.Int64("course_id", courseID),
		zap.Int64("section_id", sec.ID),
		zap.Int("slots", len(sec.Schedule)),
	)
	return s.presenter.presentOne(ctx, sec), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *sectionService) GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	sec, err := s.engine.Scheduler.GetSection(id)
	if err != nil {
		return nil, translateError(err)
	}
	return s.presenter.presentOne(ctx, sec), nil
}

// ────────────────────── Update ──────────────────────

// Update 未提供的字段沿用当前值；schedule 一旦提供即整体替换。
// 合并在编排器锁内完成，并发的部分更新互不覆盖。
func (s *sectionService) Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	patch := scheduling.SectionPatch{
		Name:      req.Name,
		TeacherID: req.TeacherID,
		Active:    req.IsActive,
	}
	if req.Version != nil {
		patch.IfVersion = *req.Version
	}
	if req.Schedule != nil {
		slots, err := toSlots(*req.Schedule)
		if err != nil {
			return nil, err
		}
		patch.Schedule = slots
	}

	sec, err := s.engine.Scheduler.PatchSection(ctx, id, patch)
	if err != nil {
		s.logRejected("更新班级被拒绝", err, zap.Int64("section_id", id))
		return nil, translateError(err)
	}
	return s.presenter.presentOne(ctx, sec), nil
}

// ────────────────────── Delete ──────────────────────

func (s *sectionService) Delete(ctx context.Context, id int64) error {
	if err := s.engine.Scheduler.DeleteSection(ctx, id); err != nil {
		return translateError(err)
	}

	s.logger.Info("班级已删除", zap.Int64("section_id", id))
	return nil
}

// ────────────────────── ListReservations ──────────────────────

// ListReservations 班级的预约，顺序与课表一致
func (s *sectionService) ListReservations(_ context.Context, id int64) ([]dto.ReservationResponse, error) {
	state, err := s.engine.Scheduler.SectionState(id)
	if err != nil {
		return nil, translateError(err)
	}
	return toReservationResponses(s.engine, state.Reservations), nil
}

// ────────────────────── Check ──────────────────────

func (s *sectionService) Check(ctx context.Context, req *dto.CheckScheduleRequest) (*dto.CheckScheduleResponse, error) {
	slots, err := toSlots(req.Schedule)
	if err != nil {
		return nil, err
	}

	sectionID := scheduling.NoSection
	if req.SectionID > 0 {
		sectionID = req.SectionID
	}

	err = s.engine.Scheduler.CheckSchedule(ctx, sectionID, slots)
	var se *scheduling.SchedulingError
	switch {
	case err == nil:
		return &dto.CheckScheduleResponse{Available: true}, nil
	case errors.As(err, &se):
		return &dto.CheckScheduleResponse{Available: false, Conflict: toConflictResponse(se)}, nil
	default:
		return nil, translateError(err)
	}
}

// ── 内部辅助方法 ──

// logRejected 冲突属于正常业务结果，记 Info；其余按 Warn
func (s *sectionService) logRejected(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))

	var se *scheduling.SchedulingError
	if errors.As(err, &se) {
		s.logger.Info(msg, append(fields, zap.String("conflict", se.Kind.String()))...)
		return
	}
	s.logger.Warn(msg, fields...)
}
