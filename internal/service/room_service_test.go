package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
)

// ── Reload 测试 ──

func TestRoomService_Reload_SkipsInactive(t *testing.T) {
	d := setupTestDeps(t)

	if _, err := d.engine.Rooms.GetRoom(301); err != nil {
		t.Errorf("期望教室 301 已播种: %v", err)
	}
	if _, err := d.engine.Rooms.GetRoom(303); err == nil {
		t.Error("停用的教室 303 不应进入名录")
	}
}

func TestRoomService_Reload_PicksUpNewRooms(t *testing.T) {
	d := setupTestDeps(t)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	d.rooms.rooms[304] = &model.Room{RoomID: 304, Code: "C304", IsActive: true}
	n, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload 应成功: %v", err)
	}
	if n != 3 {
		t.Errorf("期望 3 个启用教室，实际=%d", n)
	}
	if code := d.engine.Rooms.Code(304); code != "C304" {
		t.Errorf("期望 C304，实际=%s", code)
	}
}

func TestRoomService_Reload_RepoError(t *testing.T) {
	d := setupTestDeps(t)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	d.rooms.err = errMockDB
	if _, err := svc.Reload(context.Background()); !errors.Is(err, errMockDB) {
		t.Errorf("期望 errMockDB，实际: %v", err)
	}
	// 失败时保留原名录
	if _, err := d.engine.Rooms.GetRoom(301); err != nil {
		t.Errorf("失败后名录不应被清空: %v", err)
	}
}

// ── List / GetByID 测试 ──

func TestRoomService_List(t *testing.T) {
	d := setupTestDeps(t)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	active, err := svc.List(context.Background(), &dto.RoomListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("期望 2 个启用教室，实际=%d", len(active))
	}

	all, _ := svc.List(context.Background(), &dto.RoomListRequest{IncludeInactive: true})
	if len(all) != 3 {
		t.Errorf("期望 3 个教室，实际=%d", len(all))
	}
}

func TestRoomService_GetByID_NotFound(t *testing.T) {
	d := setupTestDeps(t)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	if _, err := svc.GetByID(context.Background(), 999); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}

	room, err := svc.GetByID(context.Background(), 302)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if room.Code != "C302" || room.Capacity != 16 {
		t.Errorf("期望 C302/16，实际=%s/%d", room.Code, room.Capacity)
	}
}

// ── 预约与可用性测试 ──

func TestRoomService_ListReservations(t *testing.T) {
	d := setupTestDeps(t)
	courses := NewCourseService(d.repo, d.engine, d.logger)
	sections := NewSectionService(d.repo, d.engine, d.logger)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	c := mustCreateCourse(t, courses, "Cozinha Brasileira", "cb101")
	mustCreateSection(t, sections, c.ID, "Turma A",
		slotReq(301, "TUESDAY", 2),
		slotReq(301, "MONDAY", 4),
		slotReq(302, "MONDAY", 1),
	)

	list, err := svc.ListReservations(context.Background(), 301)
	if err != nil {
		t.Fatalf("ListReservations 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条预约，实际=%d", len(list))
	}
	if list[0].Weekday != "MONDAY" || list[0].Block != 4 {
		t.Errorf("期望首条为 MONDAY/4，实际=%s/%d", list[0].Weekday, list[0].Block)
	}
	if list[0].BlockLabel != "10:15 - 11:00" {
		t.Errorf("期望节次标签 10:15 - 11:00，实际=%s", list[0].BlockLabel)
	}
	if list[1].RoomCode != "C301" || list[1].CourseID != c.ID {
		t.Errorf("期望 C301/%d，实际=%s/%d", c.ID, list[1].RoomCode, list[1].CourseID)
	}

	if _, err := svc.ListReservations(context.Background(), 999); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_CheckAvailability(t *testing.T) {
	d := setupTestDeps(t)
	courses := NewCourseService(d.repo, d.engine, d.logger)
	sections := NewSectionService(d.repo, d.engine, d.logger)
	svc := NewRoomService(d.repo, d.engine, d.logger)

	c := mustCreateCourse(t, courses, "Panificação", "PAN1")
	sec := mustCreateSection(t, sections, c.ID, "Turma A", slotReq(301, "MONDAY", 3))

	busy, err := svc.CheckAvailability(context.Background(), 301, &dto.AvailabilityRequest{Weekday: "monday", Block: 3})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if busy.Available {
		t.Error("期望时段已被占用")
	}
	if busy.HeldBy == nil || *busy.HeldBy != sec.ID {
		t.Errorf("期望占用者=%d，实际=%v", sec.ID, busy.HeldBy)
	}

	free, _ := svc.CheckAvailability(context.Background(), 301, &dto.AvailabilityRequest{Weekday: "MONDAY", Block: 4})
	if !free.Available || free.HeldBy != nil {
		t.Error("期望 MONDAY/4 空闲")
	}
}

func TestRoomService_CheckAvailability_Invalid(t *testing.T) {
	d := setupTestDeps(t)
	svc := NewRoomService(d.repo, d.engine, d.logger)
	ctx := context.Background()

	if _, err := svc.CheckAvailability(ctx, 999, &dto.AvailabilityRequest{Weekday: "MONDAY", Block: 1}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
	// 周日未启用
	if _, err := svc.CheckAvailability(ctx, 301, &dto.AvailabilityRequest{Weekday: "SUNDAY", Block: 1}); !errors.Is(err, ErrSlotInvalid) {
		t.Errorf("期望 ErrSlotInvalid，实际: %v", err)
	}
	if _, err := svc.CheckAvailability(ctx, 301, &dto.AvailabilityRequest{Weekday: "MONDAY", Block: 21}); !errors.Is(err, ErrSlotInvalid) {
		t.Errorf("期望 ErrSlotInvalid，实际: %v", err)
	}
}
