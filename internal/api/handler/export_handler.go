package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoomTimetable 导出教室周课表
// GET /api/v1/export/rooms/:id/timetable.xlsx
func (h *ExportHandler) ExportRoomTimetable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.RoomTimetable(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendAttachment(c, filename, contentTypeXLSX, data)
}

// ExportRoomCalendar 导出教室日历
// GET /api/v1/export/rooms/:id/calendar.ics
func (h *ExportHandler) ExportRoomCalendar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.RoomCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendAttachment(c, filename, contentTypeICS, data)
}

// ExportSectionCalendar 导出班级日历
// GET /api/v1/export/sections/:id/calendar.ics
func (h *ExportHandler) ExportSectionCalendar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.SectionCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendAttachment(c, filename, contentTypeICS, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.InternalError(c)
		return
	}
	handleScheduleError(c, err)
}

// sendAttachment 以下载方式返回文件
func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}
