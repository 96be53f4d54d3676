package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

// ── 业务错误码 ──
//
//	200xx 教室   210xx 课程   220xx 班级/课表
const (
	codeRoomNotFound    = 20001
	codeCourseNotFound  = 21001
	codeCourseDuplicate = 21002
	codeCourseInvalid   = 21003
	codeSectionNotFound = 22001
	codeSlotInvalid     = 22002
	codeSectionInvalid  = 22003
	codeSlotOccupied    = 22004
	codeSelfConflict    = 22005
	codeSectionStale    = 22006
)

// handleScheduleError 将 Service 层错误映射为统一响应。
// 时段冲突返回 409，details 为可直接展示的冲突描述。
func handleScheduleError(c *gin.Context, err error) {
	var se *scheduling.SchedulingError
	if errors.As(err, &se) {
		if se.Kind == scheduling.SelfConflict {
			response.Conflict(c, codeSelfConflict, "课表中存在重复时段", se.Error())
			return
		}
		response.Conflict(c, codeSlotOccupied, "时段已被占用", se.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, codeRoomNotFound, "教室不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, codeCourseNotFound, "课程不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, codeSectionNotFound, "班级不存在")
	case errors.Is(err, service.ErrSectionStale):
		response.Conflict(c, codeSectionStale, "班级已被修改，请刷新后重试", err.Error())
	case errors.Is(err, service.ErrCourseCodeDuplicate):
		response.Error(c, http.StatusConflict, codeCourseDuplicate, "课程代码已存在")
	case errors.Is(err, service.ErrCourseInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeCourseInvalid, "课程信息不合法", err.Error())
	case errors.Is(err, service.ErrSlotInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeSlotInvalid, "时段不合法", err.Error())
	case errors.Is(err, service.ErrSectionInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeSectionInvalid, "班级信息不合法", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(c, nil)
	default:
		response.InternalError(c)
	}
}
