package service

import (
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// TimeSlotService 时段目录业务接口
type TimeSlotService interface {
	Catalog() *dto.TimeSlotCatalogResponse
}

type timeSlotService struct {
	slots *scheduling.TimeSlotCatalog
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(engine *scheduling.Engine) TimeSlotService {
	return &timeSlotService{slots: engine.Slots}
}

// Catalog 返回可排课的星期（按顺序）与全部节次
func (s *timeSlotService) Catalog() *dto.TimeSlotCatalogResponse {
	weekdays := s.slots.Weekdays()
	blocks := s.slots.Blocks()

	resp := &dto.TimeSlotCatalogResponse{
		Weekdays: make([]dto.WeekdayResponse, 0, len(weekdays)),
		Blocks:   make([]dto.BlockResponse, 0, len(blocks)),
	}
	for _, d := range weekdays {
		resp.Weekdays = append(resp.Weekdays, dto.WeekdayResponse{
			Code:  d.String(),
			Label: d.Label(),
			Order: d.Order(),
		})
	}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, dto.BlockResponse{
			Block: int(b.Block),
			Start: b.Start,
			End:   b.End,
			Label: b.Label(),
		})
	}
	return resp
}
