package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

// TimeSlotHandler 时段目录 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// GetCatalog 获取可排课的星期与节次
// GET /api/v1/time-slots
func (h *TimeSlotHandler) GetCatalog(c *gin.Context) {
	response.OK(c, h.timeSlotSvc.Catalog())
}
