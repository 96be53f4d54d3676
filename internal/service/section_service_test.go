package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

func setupSectionTest(t *testing.T) (*testDeps, SectionService, int64) {
	t.Helper()
	d := setupTestDeps(t)
	courses := NewCourseService(d.repo, d.engine, d.logger)
	c := mustCreateCourse(t, courses, "Cozinha Brasileira", "CB101")
	return d, NewSectionService(d.repo, d.engine, d.logger), c.ID
}

// ── Create 测试 ──

func TestSectionService_Create_Success(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)

	sec, err := svc.Create(context.Background(), courseID, &dto.CreateSectionRequest{
		Name:     "Turma A",
		Schedule: []dto.SlotRequest{slotReq(301, "MONDAY", 3), slotReq(302, "WEDNESDAY", 5)},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if sec.ID != 1 || sec.CourseID != courseID {
		t.Errorf("期望 ID=1/CourseID=%d，实际=%d/%d", courseID, sec.ID, sec.CourseID)
	}
	if !sec.Active {
		t.Error("未指定 is_active 时默认启用")
	}
	if len(sec.Schedule) != 2 || sec.Schedule[1].RoomCode != "C302" {
		t.Errorf("期望课表按输入顺序返回，实际=%v", sec.Schedule)
	}
	if sec.Schedule[0].BlockLabel != "09:30 - 10:15" {
		t.Errorf("期望节次标签 09:30 - 10:15，实际=%s", sec.Schedule[0].BlockLabel)
	}
}

func TestSectionService_Create_Conflict(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)

	a := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))
	_, err := svc.Create(context.Background(), courseID, &dto.CreateSectionRequest{
		Name:     "Turma B",
		Schedule: []dto.SlotRequest{slotReq(302, "MONDAY", 3), slotReq(301, "MONDAY", 3)},
	})

	var se *scheduling.SchedulingError
	if !errors.As(err, &se) {
		t.Fatalf("期望 SchedulingError，实际: %v", err)
	}
	if se.Kind != scheduling.SlotOccupied || se.HeldBy != a.ID {
		t.Errorf("期望 SlotOccupied 且占用者=%d，实际=%s/%d", a.ID, se.Kind, se.HeldBy)
	}
	if se.Error() != "Room C301 is not available on Monday in block 3." {
		t.Errorf("冲突文案不符，实际=%s", se.Error())
	}
	// 整体拒绝：302 也未被占用
	if !d.engine.Ledger.IsAvailable(scheduling.Slot{RoomID: 302, Weekday: scheduling.Monday, Block: 3}, scheduling.NoSection) {
		t.Error("冲突时不应提交任何时段")
	}
}

func TestSectionService_Create_SelfConflict(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)

	_, err := svc.Create(context.Background(), courseID, &dto.CreateSectionRequest{
		Name:     "Turma A",
		Schedule: []dto.SlotRequest{slotReq(301, "MONDAY", 3), slotReq(301, "monday", 3)},
	})
	if !errors.Is(err, scheduling.ErrSelfConflict) {
		t.Errorf("期望 ErrSelfConflict，实际: %v", err)
	}
}

func TestSectionService_Create_Validation(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		course  int64
		req     *dto.CreateSectionRequest
		wantErr error
	}{
		{"课程不存在", 99, &dto.CreateSectionRequest{Name: "A"}, ErrCourseNotFound},
		{"星期非法", courseID, &dto.CreateSectionRequest{Name: "A", Schedule: []dto.SlotRequest{slotReq(301, "FUNDAY", 1)}}, ErrSlotInvalid},
		{"周日未启用", courseID, &dto.CreateSectionRequest{Name: "A", Schedule: []dto.SlotRequest{slotReq(301, "SUNDAY", 1)}}, ErrSlotInvalid},
		{"节次越界", courseID, &dto.CreateSectionRequest{Name: "A", Schedule: []dto.SlotRequest{slotReq(301, "MONDAY", 0)}}, ErrSlotInvalid},
		{"教室不存在", courseID, &dto.CreateSectionRequest{Name: "A", Schedule: []dto.SlotRequest{slotReq(999, "MONDAY", 1)}}, ErrRoomNotFound},
		{"停用教室", courseID, &dto.CreateSectionRequest{Name: "A", Schedule: []dto.SlotRequest{slotReq(303, "MONDAY", 1)}}, ErrRoomNotFound},
		{"名称为空", courseID, &dto.CreateSectionRequest{Name: "  "}, ErrSectionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.course, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}
}

// ── Update 测试 ──

func TestSectionService_Update_KeepsOwnSlots(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))

	sched := []dto.SlotRequest{slotReq(301, "MONDAY", 3), slotReq(301, "MONDAY", 4)}
	updated, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Schedule: &sched})
	if err != nil {
		t.Fatalf("包含自身已占时段的更新应成功: %v", err)
	}
	if len(updated.Schedule) != 2 || updated.Version != 2 {
		t.Errorf("期望 2 个时段且 Version=2，实际=%d/%d", len(updated.Schedule), updated.Version)
	}
	if updated.Name != "Turma A" {
		t.Errorf("未提供的字段应保持不变，实际=%s", updated.Name)
	}
}

func TestSectionService_Update_FieldsOnly(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))

	updated, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{
		Name:     strPtr("Turma A (noite)"),
		IsActive: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Active {
		t.Error("期望班级已停用")
	}
	// 停用的班级仍保留预约
	if len(updated.Schedule) != 1 {
		t.Errorf("期望保留原课表，实际=%d", len(updated.Schedule))
	}
}

func TestSectionService_Update_ClearSchedule(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))

	empty := []dto.SlotRequest{}
	if _, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Schedule: &empty}); err != nil {
		t.Fatalf("清空课表应成功: %v", err)
	}
	if d.engine.Ledger.Len() != 0 {
		t.Errorf("期望预约已释放，实际=%d", d.engine.Ledger.Len())
	}
}

func TestSectionService_Update_ConflictKeepsPrevious(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))
	b := mustCreateSection(t, svc, courseID, "Turma B", slotReq(302, "MONDAY", 3))

	sched := []dto.SlotRequest{slotReq(301, "MONDAY", 3)}
	_, err := svc.Update(context.Background(), b.ID, &dto.UpdateSectionRequest{Schedule: &sched})
	if !errors.Is(err, scheduling.ErrSlotOccupied) {
		t.Fatalf("期望 ErrSlotOccupied，实际: %v", err)
	}

	got, _ := svc.GetByID(context.Background(), b.ID)
	if len(got.Schedule) != 1 || got.Schedule[0].RoomID != 302 {
		t.Errorf("冲突时应保留原课表，实际=%v", got.Schedule)
	}
	if d.engine.Ledger.IsAvailable(scheduling.Slot{RoomID: 302, Weekday: scheduling.Monday, Block: 3}, scheduling.NoSection) {
		t.Error("原有预约不应被释放")
	}
}

func TestSectionService_Update_AfterRoomDeactivated(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(302, "MONDAY", 3))

	d.rooms.rooms[302].IsActive = false
	if _, err := NewRoomService(d.repo, d.engine, d.logger).Reload(context.Background()); err != nil {
		t.Fatalf("刷新教室名录失败: %v", err)
	}

	updated, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Name: strPtr("Turma A (noite)")})
	if err != nil {
		t.Fatalf("教室停用后仍应可改名: %v", err)
	}
	if updated.Name != "Turma A (noite)" || len(updated.Schedule) != 1 {
		t.Errorf("改名后字段不符: %+v", updated)
	}
}

func TestSectionService_Update_StaleVersion(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))

	sched := []dto.SlotRequest{slotReq(302, "FRIDAY", 1)}
	if _, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Schedule: &sched}); err != nil {
		t.Fatalf("改课表应成功: %v", err)
	}

	// 基于旧版本的改名被拒绝，课表保持为最新提交
	stale := sec.Version
	_, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Name: strPtr("Turma B"), Version: &stale})
	if !errors.Is(err, ErrSectionStale) {
		t.Fatalf("期望 ErrSectionStale，实际: %v", err)
	}

	got, _ := svc.GetByID(context.Background(), sec.ID)
	if got.Name != "Turma A" || len(got.Schedule) != 1 || got.Schedule[0].RoomID != 302 {
		t.Errorf("拒绝后班级不应变化: %+v", got)
	}
	if !d.engine.Ledger.IsAvailable(scheduling.Slot{RoomID: 301, Weekday: scheduling.Monday, Block: 3}, scheduling.NoSection) {
		t.Error("旧时段不应被重新占用")
	}

	current := got.Version
	if _, err := svc.Update(context.Background(), sec.ID, &dto.UpdateSectionRequest{Name: strPtr("Turma B"), Version: &current}); err != nil {
		t.Errorf("携带当前版本的更新应成功: %v", err)
	}
}

func TestSectionService_Update_NotFound(t *testing.T) {
	_, svc, _ := setupSectionTest(t)

	if _, err := svc.Update(context.Background(), 77, &dto.UpdateSectionRequest{}); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("期望 ErrSectionNotFound，实际: %v", err)
	}
}

// ── Delete / ListReservations 测试 ──

func TestSectionService_Delete(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))

	if err := svc.Delete(context.Background(), sec.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if d.engine.Ledger.Len() != 0 {
		t.Errorf("期望预约已释放，实际=%d", d.engine.Ledger.Len())
	}
	if err := svc.Delete(context.Background(), sec.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("期望 ErrSectionNotFound，实际: %v", err)
	}

	// 删除后的 ID 不复用
	next := mustCreateSection(t, svc, courseID, "Turma B")
	if next.ID != sec.ID+1 {
		t.Errorf("期望新 ID=%d，实际=%d", sec.ID+1, next.ID)
	}
}

func TestSectionService_ListReservations(t *testing.T) {
	_, svc, courseID := setupSectionTest(t)
	sec := mustCreateSection(t, svc, courseID, "Turma A",
		slotReq(302, "FRIDAY", 9),
		slotReq(301, "MONDAY", 1),
	)

	list, err := svc.ListReservations(context.Background(), sec.ID)
	if err != nil {
		t.Fatalf("ListReservations 应成功: %v", err)
	}
	if len(list) != 2 || list[0].Weekday != "FRIDAY" {
		t.Errorf("期望按课表顺序返回，实际=%v", list)
	}
	if list[0].ID == "" || list[0].SectionID != sec.ID {
		t.Error("预约应带 ID 与所属班级")
	}
}

// ── Check 测试 ──

func TestSectionService_Check(t *testing.T) {
	d, svc, courseID := setupSectionTest(t)
	a := mustCreateSection(t, svc, courseID, "Turma A", slotReq(301, "MONDAY", 3))
	ctx := context.Background()

	// 新班级：冲突
	res, err := svc.Check(ctx, &dto.CheckScheduleRequest{Schedule: []dto.SlotRequest{slotReq(301, "MONDAY", 3)}})
	if err != nil {
		t.Fatalf("Check 应成功: %v", err)
	}
	if res.Available || res.Conflict == nil {
		t.Fatal("期望返回冲突")
	}
	if res.Conflict.Kind != "slot_occupied" || res.Conflict.RoomCode != "C301" {
		t.Errorf("期望 slot_occupied/C301，实际=%s/%s", res.Conflict.Kind, res.Conflict.RoomCode)
	}
	if res.Conflict.HeldBy == nil || *res.Conflict.HeldBy != a.ID {
		t.Errorf("期望占用者=%d", a.ID)
	}

	// 自身已占用：可用
	res, _ = svc.Check(ctx, &dto.CheckScheduleRequest{SectionID: a.ID, Schedule: []dto.SlotRequest{slotReq(301, "MONDAY", 3)}})
	if !res.Available {
		t.Error("班级自身的时段不应算冲突")
	}

	// 试算不提交
	res, _ = svc.Check(ctx, &dto.CheckScheduleRequest{Schedule: []dto.SlotRequest{slotReq(302, "MONDAY", 1)}})
	if !res.Available {
		t.Error("期望空闲")
	}
	if d.engine.Ledger.Len() != 1 {
		t.Errorf("试算不应写入台账，实际=%d", d.engine.Ledger.Len())
	}

	// 重复时段
	res, _ = svc.Check(ctx, &dto.CheckScheduleRequest{Schedule: []dto.SlotRequest{slotReq(302, "MONDAY", 1), slotReq(302, "MONDAY", 1)}})
	if res.Available || res.Conflict.Kind != "self_conflict" || res.Conflict.HeldBy != nil {
		t.Errorf("期望 self_conflict，实际=%+v", res.Conflict)
	}

	if _, err := svc.Check(ctx, &dto.CheckScheduleRequest{SectionID: 99, Schedule: []dto.SlotRequest{}}); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("期望 ErrSectionNotFound，实际: %v", err)
	}
}
