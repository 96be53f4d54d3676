package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/api/handler"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/api/router"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/cron"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/database"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/jwt"
	applogger "github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/logger"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/mq"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/redis"
)

func main() {
	// 0. 本地开发读取 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("KUBHUB_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("include_sunday", cfg.Schedule.IncludeSunday),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, applogger.GormLevel(cfg.Log.Level), logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": sqlDB.PingContext,
	}

	// 4. 连接 Redis（可选：失败时降级运行，导出缓存/黑名单/限流不可用）
	var rdb *redis.Client
	var exportCache service.ByteCache
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，降级运行", zap.Error(err))
			rdb = nil
		} else {
			exportCache = rdb
			healthChecks["redis"] = rdb.Ping
		}
	}

	// 5. 连接 RabbitMQ（可选）
	var publisher *mq.Publisher
	var eventPublisher service.EventPublisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(&cfg.MQ, logger)
		if err != nil {
			logger.Warn("RabbitMQ 连接失败，变更通知不可用", zap.Error(err))
			publisher = nil
		} else {
			eventPublisher = publisher
		}
	}

	// 6. JWT 校验器与自定义校验标签
	jwtMgr := jwt.NewManager(&cfg.Auth)
	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("注册校验器失败", zap.Error(err))
	}

	// 7. 依赖注入: Engine → Repository → Service → Handler
	engine := scheduling.NewEngine(cfg.Schedule.IncludeSunday)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, engine, exportCache, eventPublisher, logger)
	h := handler.NewHandler(svc, healthChecks)

	// 8. 从数据库恢复内存课表，之后的变更通过事件写回
	bootCtx, bootCancel := context.WithTimeout(context.Background(), time.Minute)
	if _, err := svc.Room.Reload(bootCtx); err != nil {
		logger.Fatal("加载教室名录失败", zap.Error(err))
	}
	if err := svc.Sync.Bootstrap(bootCtx); err != nil {
		logger.Fatal("恢复课表失败", zap.Error(err))
	}
	bootCancel()
	engine.Scheduler.Subscribe(svc.Sync.Handle)

	runCtx, stopRun := context.WithCancel(context.Background())
	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		svc.Sync.Run(runCtx)
	}()

	jobs, err := cron.StartJobs(&cfg.Schedule, svc, logger)
	if err != nil {
		logger.Fatal("启动定时任务失败", zap.Error(err))
	}

	// 9. 初始化路由并启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.Setup(cfg, h, jwtMgr, rdb, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止后台任务，再把剩余变更写回数据库
	<-jobs.Stop().Done()
	stopRun()
	<-syncDone
	if err := svc.Sync.Flush(ctx); err != nil {
		logger.Error("关闭前写回课表失败", zap.Error(err))
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭 RabbitMQ 连接失败", zap.Error(err))
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}
