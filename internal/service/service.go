package service

import (
	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TimeSlot TimeSlotService
	Room     RoomService
	Course   CourseService
	Section  SectionService
	Export   ExportService
	Sync     SyncService
}

// NewService 创建 Service 聚合。cache 与 publisher 可为 nil（未启用 Redis / MQ）。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	engine *scheduling.Engine,
	cache ByteCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		TimeSlot: NewTimeSlotService(engine),
		Room:     NewRoomService(repo, engine, logger),
		Course:   NewCourseService(repo, engine, logger),
		Section:  NewSectionService(repo, engine, logger),
		Export:   NewExportService(engine, cache, cfg.Schedule.ExportCacheTTL, cfg.Database.Timezone, logger),
		Sync:     NewSyncService(repo, engine, publisher, cfg.Schedule.SyncInterval, logger),
	}
}
