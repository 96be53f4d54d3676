package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

// HealthCheck 依赖探活函数（数据库、Redis 等）
type HealthCheck func(ctx context.Context) error

// HealthHandler 健康检查处理器
type HealthHandler struct {
	checks  map[string]HealthCheck
	syncSvc service.SyncService
}

// NewHealthHandler 创建 HealthHandler；checks 可为空
func NewHealthHandler(checks map[string]HealthCheck, syncSvc service.SyncService) *HealthHandler {
	return &HealthHandler{checks: checks, syncSvc: syncSvc}
}

// Health 返回依赖状态与落库进度；任一依赖失败时返回 503
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(gin.H, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
			continue
		}
		deps[name] = "ok"
	}

	data := gin.H{"dependencies": deps, "sync": h.syncSvc.Status()}
	if !healthy {
		data["status"] = "degraded"
		response.ServiceUnavailable(c, data)
		return
	}

	data["status"] = "ok"
	c.JSON(http.StatusOK, data)
}
