package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/dto"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

// SectionHandler 班级与课表 HTTP 处理器
type SectionHandler struct {
	sectionSvc service.SectionService
}

// NewSectionHandler 创建 SectionHandler
func NewSectionHandler(sectionSvc service.SectionService) *SectionHandler {
	return &SectionHandler{sectionSvc: sectionSvc}
}

// CreateSection 在课程下创建班级
// POST /api/v1/courses/:id/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	section, err := h.sectionSvc.Create(c.Request.Context(), courseID, &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.Created(c, section)
}

// GetSection 获取班级详情
// GET /api/v1/sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	section, err := h.sectionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, section)
}

// UpdateSection 更新班级；schedule 提供时整体替换课表
// PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	section, err := h.sectionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, section)
}

// DeleteSection 删除班级并释放其预约
// DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sectionSvc.Delete(c.Request.Context(), id); err != nil {
		handleScheduleError(c, err)
		return
	}

	response.NoContent(c)
}

// ListReservations 获取班级的预约
// GET /api/v1/sections/:id/reservations
func (h *SectionHandler) ListReservations(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.sectionSvc.ListReservations(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CheckSchedule 试算课表，冲突作为结果返回（200），不写入
// POST /api/v1/sections/check
func (h *SectionHandler) CheckSchedule(c *gin.Context) {
	var req dto.CheckScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sectionSvc.Check(c.Request.Context(), &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}
