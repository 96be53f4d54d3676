package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 测试辅助 ──

type testDeps struct {
	repo     *repository.Repository
	engine   *scheduling.Engine
	rooms    *mockRoomRepo
	teachers *mockTeacherRepo
	store    *mockScheduleStore
	courses  *mockCourseRepo
	sections *mockSectionRepo
	reserves *mockReservationRepo
	logger   *zap.Logger
}

// setupTestDeps 教室 301(C301)、302(C302) 启用，303(C303) 停用
func setupTestDeps(t *testing.T) *testDeps {
	t.Helper()

	d := &testDeps{
		engine:   scheduling.NewEngine(false),
		rooms:    newMockRoomRepo(),
		teachers: newMockTeacherRepo(),
		store:    newMockScheduleStore(),
		courses:  &mockCourseRepo{},
		sections: &mockSectionRepo{},
		reserves: &mockReservationRepo{},
		logger:   zap.NewNop(),
	}
	d.rooms.rooms[301] = &model.Room{RoomID: 301, Code: "C301", Name: "Cozinha 301", Capacity: 20, Type: "kitchen", IsActive: true}
	d.rooms.rooms[302] = &model.Room{RoomID: 302, Code: "C302", Name: "Cozinha 302", Capacity: 16, Type: "kitchen", IsActive: true}
	d.rooms.rooms[303] = &model.Room{RoomID: 303, Code: "C303", Name: "Confeitaria", Capacity: 12, Type: "pastry", IsActive: false}

	d.repo = &repository.Repository{
		Room:        d.rooms,
		Course:      d.courses,
		Section:     d.sections,
		Reservation: d.reserves,
		Teacher:     d.teachers,
		Schedule:    d.store,
	}

	if _, err := NewRoomService(d.repo, d.engine, d.logger).Reload(context.Background()); err != nil {
		t.Fatalf("播种教室失败: %v", err)
	}
	return d
}

func slotReq(roomID int64, weekday string, block int) dto.SlotRequest {
	return dto.SlotRequest{RoomID: roomID, Weekday: weekday, Block: block}
}

func mustCreateCourse(t *testing.T, svc CourseService, name, code string) *dto.CourseResponse {
	t.Helper()
	c, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: name, Code: code})
	if err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	return c
}

func mustCreateSection(t *testing.T, svc SectionService, courseID int64, name string, slots ...dto.SlotRequest) *dto.SectionResponse {
	t.Helper()
	sec, err := svc.Create(context.Background(), courseID, &dto.CreateSectionRequest{Name: name, Schedule: slots})
	if err != nil {
		t.Fatalf("创建班级失败: %v", err)
	}
	return sec
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
