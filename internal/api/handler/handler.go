package handler

import "github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Health   *HealthHandler
	TimeSlot *TimeSlotHandler
	Room     *RoomHandler
	Course   *CourseHandler
	Section  *SectionHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, checks map[string]HealthCheck) *Handler {
	return &Handler{
		Health:   NewHealthHandler(checks, svc.Sync),
		TimeSlot: NewTimeSlotHandler(svc.TimeSlot),
		Room:     NewRoomHandler(svc.Room),
		Course:   NewCourseHandler(svc.Course),
		Section:  NewSectionHandler(svc.Section),
		Export:   NewExportHandler(svc.Export),
	}
}
