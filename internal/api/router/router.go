package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/api/handler"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/api/middleware"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/jwt"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/redis"
)

// maxBodyBytes 课表请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Health)

	// 写接口：管理员与教务协调员，按用户限流
	writer := []gin.HandlerFunc{
		middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleCoordinator),
		middleware.RateLimit(rdb, cfg.Auth.RateLimit, cfg.Auth.RateWindow),
	}
	write := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writer...), hf)
	}

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 时段目录
		v1.GET("/time-slots", h.TimeSlot.GetCatalog)

		// 教室模块（名录由数据库维护，这里只读）
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", h.Room.ListRooms)
			rooms.GET("/:id", h.Room.GetRoom)
			rooms.GET("/:id/reservations", h.Room.ListReservations)
			rooms.GET("/:id/availability", h.Room.CheckAvailability)
		}

		// 课程模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.POST("", write(h.Course.CreateCourse)...)
			courses.PUT("/:id", write(h.Course.UpdateCourse)...)
			courses.DELETE("/:id", write(h.Course.DeleteCourse)...)
			courses.POST("/:id/sections", write(h.Section.CreateSection)...)
		}

		// 班级与课表模块
		sections := v1.Group("/sections")
		{
			sections.POST("/check", h.Section.CheckSchedule)
			sections.GET("/:id", h.Section.GetSection)
			sections.PUT("/:id", write(h.Section.UpdateSection)...)
			sections.DELETE("/:id", write(h.Section.DeleteSection)...)
			sections.GET("/:id/reservations", h.Section.ListReservations)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/rooms/:id/timetable.xlsx", h.Export.ExportRoomTimetable)
			export.GET("/rooms/:id/calendar.ics", h.Export.ExportRoomCalendar)
			export.GET("/sections/:id/calendar.ics", h.Export.ExportSectionCalendar)
		}
	}

	return r
}
