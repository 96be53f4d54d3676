package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
	pkgerrors "github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/errors"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/mq"
)

// EventPublisher 变更通知发布器，未启用 MQ 时为 nil
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, v interface{}) error
}

// SyncService 内存排课状态与数据库之间的同步。
//
//   - Bootstrap：启动时从数据库整体恢复
//   - Handle：订阅编排器事件，只记录脏的课程/班级 ID，不做 I/O
//   - Flush：按脏 ID 采集当前状态快照，单事务写回；失败则重新标脏
//   - Resync：全部标脏后 Flush，用于定时兜底
//
// 写回的总是"当前状态"，事件乱序或合并都不影响结果。
type SyncService interface {
	Bootstrap(ctx context.Context) error
	Handle(ev scheduling.Event)
	Run(ctx context.Context)
	Flush(ctx context.Context) error
	Resync(ctx context.Context) error
	Status() *dto.SyncStatusResponse
}

type syncService struct {
	repo      *repository.Repository
	engine    *scheduling.Engine
	publisher EventPublisher
	interval  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	courses  map[int64]struct{}
	sections map[int64]struct{}
	rooms    map[int64]struct{}

	lastFlushAt time.Time
	lastErr     error

	// flushMu 保证同一时刻只有一个批次在写库
	flushMu sync.Mutex
}

// NewSyncService 创建 SyncService 实例
func NewSyncService(repo *repository.Repository, engine *scheduling.Engine, publisher EventPublisher, interval time.Duration, logger *zap.Logger) SyncService {
	return &syncService{
		repo:      repo,
		engine:    engine,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		courses:   make(map[int64]struct{}),
		sections:  make(map[int64]struct{}),
		rooms:     make(map[int64]struct{}),
	}
}

// ────────────────────── Bootstrap ──────────────────────

func (s *syncService) Bootstrap(ctx context.Context) error {
	state, err := s.repo.Schedule.GetSyncState(ctx)
	if err != nil {
		return fmt.Errorf("读取同步状态失败: %w", err)
	}
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		return fmt.Errorf("加载课程失败: %w", err)
	}
	sections, err := s.repo.Section.List(ctx)
	if err != nil {
		return fmt.Errorf("加载班级失败: %w", err)
	}
	reservations, err := s.repo.Reservation.List(ctx)
	if err != nil {
		return fmt.Errorf("加载预约失败: %w", err)
	}

	bySection := make(map[int64][]scheduling.Section)
	for _, sec := range sections {
		teacherID := ""
		if sec.TeacherID != nil {
			teacherID = *sec.TeacherID
		}
		bySection[sec.CourseID] = append(bySection[sec.CourseID], scheduling.Section{
			ID:        sec.SectionID,
			CourseID:  sec.CourseID,
			Name:      sec.Name,
			TeacherID: teacherID,
			Active:    sec.IsActive,
			Version:   sec.Version,
		})
	}

	st := scheduling.RestoreState{
		Courses:       make([]scheduling.Course, 0, len(courses)),
		Reservations:  make([]scheduling.Reservation, 0, len(reservations)),
		LastCourseID:  state.LastCourseID,
		LastSectionID: state.LastSectionID,
		Revision:      uint64(state.Revision),
	}
	for _, c := range courses {
		st.Courses = append(st.Courses, scheduling.Course{
			ID:       c.CourseID,
			Name:     c.Name,
			Code:     c.Code,
			Version:  c.Version,
			Sections: bySection[c.CourseID],
		})
		delete(bySection, c.CourseID)
	}
	for courseID, orphans := range bySection {
		// 删除课程时其班级在同一批次内软删除，正常不会走到这里
		s.logger.Warn("班级所属课程不存在，已忽略", zap.Int64("course_id", courseID), zap.Int("sections", len(orphans)))
	}
	for _, r := range reservations {
		st.Reservations = append(st.Reservations, scheduling.Reservation{
			ID: r.ReservationID,
			Slot: scheduling.Slot{
				RoomID:  r.RoomID,
				Weekday: scheduling.Weekday(r.DayOfWeek),
				Block:   scheduling.Block(r.Block),
			},
			SectionID: r.SectionID,
			CourseID:  r.CourseID,
		})
	}

	if err := s.engine.Courses.Restore(st); err != nil {
		return fmt.Errorf("恢复排课状态失败: %w", err)
	}

	s.logger.Info("排课状态已恢复",
		zap.Int("courses", len(st.Courses)),
		zap.Int("sections", len(sections)),
		zap.Int("reservations", len(st.Reservations)),
		zap.Uint64("revision", st.Revision),
	)
	return nil
}

// ────────────────────── Handle ──────────────────────

// Handle 编排器事件回调，在业务请求的 goroutine 内同步执行，必须足够轻
func (s *syncService) Handle(ev scheduling.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case scheduling.EventCourseSaved, scheduling.EventCourseDeleted:
		s.courses[ev.CourseID] = struct{}{}
	case scheduling.EventSectionSaved, scheduling.EventSectionDeleted:
		s.sections[ev.SectionID] = struct{}{}
	default:
		return
	}
	for _, id := range ev.RoomIDs {
		s.rooms[id] = struct{}{}
	}
}

// ────────────────────── Run ──────────────────────

// Run 按 interval 周期性 Flush，直到 ctx 取消
func (s *syncService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("排课状态落库失败", zap.Error(err))
			}
		}
	}
}

// ────────────────────── Flush ──────────────────────

func (s *syncService) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	courseIDs, sectionIDs, roomIDs := s.drain()
	if len(courseIDs) == 0 && len(sectionIDs) == 0 {
		return nil
	}

	snap := s.engine.Courses.Snapshot(courseIDs, sectionIDs)
	cs := buildChangeSet(snap)

	err := s.repo.Schedule.Apply(ctx, cs)
	if errors.Is(err, pkgerrors.ErrStaleRevision) {
		// 数据库已被更新的版本覆盖，重试没有意义
		s.logger.Error("落库版本落后，批次已丢弃",
			zap.Uint64("revision", snap.Revision),
			zap.Int64s("course_ids", courseIDs),
			zap.Int64s("section_ids", sectionIDs),
		)
		s.recordResult(err)
		return err
	}
	if err != nil {
		s.remark(courseIDs, sectionIDs, roomIDs)
		s.recordResult(err)
		return fmt.Errorf("写入排课批次失败: %w", err)
	}
	s.recordResult(nil)

	s.logger.Debug("排课状态已落库",
		zap.Uint64("revision", snap.Revision),
		zap.Int("courses", len(courseIDs)),
		zap.Int("sections", len(sectionIDs)),
		zap.Int("reservations", len(cs.Reservations)),
	)

	s.publish(ctx, &mq.ScheduleChangedMessage{
		Revision:   snap.Revision,
		CourseIDs:  courseIDs,
		SectionIDs: sectionIDs,
		RoomIDs:    roomIDs,
		OccurredAt: time.Now(),
	})
	return nil
}

// ────────────────────── Resync ──────────────────────

func (s *syncService) Resync(ctx context.Context) error {
	courses := s.engine.Courses.ListCourses()

	s.mu.Lock()
	for _, c := range courses {
		s.courses[c.ID] = struct{}{}
		for _, sec := range c.Sections {
			s.sections[sec.ID] = struct{}{}
		}
	}
	s.mu.Unlock()

	return s.Flush(ctx)
}

// ────────────────────── Status ──────────────────────

func (s *syncService) Status() *dto.SyncStatusResponse {
	revision := s.engine.Scheduler.Revision()

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := &dto.SyncStatusResponse{
		Revision:        revision,
		PendingCourses:  len(s.courses),
		PendingSections: len(s.sections),
	}
	if !s.lastFlushAt.IsZero() {
		resp.LastFlushAt = s.lastFlushAt.Format(time.RFC3339)
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	return resp
}

// ── 内部辅助方法 ──

// drain 取出并清空当前脏集合（升序）
func (s *syncService) drain() (courseIDs, sectionIDs, roomIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courseIDs = sortedIDs(s.courses)
	sectionIDs = sortedIDs(s.sections)
	roomIDs = sortedIDs(s.rooms)
	s.courses = make(map[int64]struct{})
	s.sections = make(map[int64]struct{})
	s.rooms = make(map[int64]struct{})
	return courseIDs, sectionIDs, roomIDs
}

func (s *syncService) remark(courseIDs, sectionIDs, roomIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range courseIDs {
		s.courses[id] = struct{}{}
	}
	for _, id := range sectionIDs {
		s.sections[id] = struct{}{}
	}
	for _, id := range roomIDs {
		s.rooms[id] = struct{}{}
	}
}

func (s *syncService) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	if err == nil {
		s.lastFlushAt = time.Now()
	}
}

func (s *syncService) publish(ctx context.Context, msg *mq.ScheduleChangedMessage) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, mq.RoutingScheduleChanged, msg); err != nil {
		s.logger.Warn("发布排课变更通知失败", zap.Uint64("revision", msg.Revision), zap.Error(err))
	}
}

// buildChangeSet 快照 → 落库批次。被删除的班级同样需要清空预约。
func buildChangeSet(snap scheduling.Snapshot) *repository.ChangeSet {
	now := time.Now()
	cs := &repository.ChangeSet{
		Revision:          int64(snap.Revision),
		LastCourseID:      snap.LastCourseID,
		LastSectionID:     snap.LastSectionID,
		DeletedCourseIDs:  snap.DeletedCourses,
		DeletedSectionIDs: snap.DeletedSections,
	}

	for _, c := range snap.Courses {
		row := model.Course{CourseID: c.ID, Name: c.Name, Code: c.Code}
		row.Version = c.Version
		row.UpdatedAt = now
		cs.Courses = append(cs.Courses, row)
	}

	cs.ReplacedSectionIDs = append(cs.ReplacedSectionIDs, snap.DeletedSections...)
	for _, st := range snap.Sections {
		sec := st.Section
		row := model.Section{
			SectionID: sec.ID,
			CourseID:  sec.CourseID,
			Name:      sec.Name,
			IsActive:  sec.Active,
		}
		if sec.TeacherID != "" {
			teacherID := sec.TeacherID
			row.TeacherID = &teacherID
		}
		row.Version = sec.Version
		row.UpdatedAt = now
		cs.Sections = append(cs.Sections, row)
		cs.ReplacedSectionIDs = append(cs.ReplacedSectionIDs, sec.ID)

		for pos, r := range st.Reservations {
			cs.Reservations = append(cs.Reservations, model.Reservation{
				ReservationID: r.ID,
				RoomID:        r.Slot.RoomID,
				DayOfWeek:     int16(r.Slot.Weekday),
				Block:         int16(r.Slot.Block),
				SectionID:     r.SectionID,
				CourseID:      r.CourseID,
				Position:      pos,
				CreatedAt:     now,
			})
		}
	}
	return cs
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
