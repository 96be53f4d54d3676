package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
)

// jobTimeout 单次任务的执行上限
const jobTimeout = 2 * time.Minute

// StartJobs 注册并启动后台定时任务：
//
//	flush_cron        全量重写内存课表，兜底修复漏写的批次
//	room_reload_cron  从数据库刷新教室名录
//
// 表达式支持秒字段；上一轮未结束时跳过本轮。
func StartJobs(cfg *config.ScheduleConfig, svc *service.Service, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{
			name: "resync",
			spec: cfg.FlushCron,
			run:  svc.Sync.Resync,
		},
		{
			name: "room_reload",
			spec: cfg.RoomReloadCron,
			run: func(ctx context.Context) error {
				n, err := svc.Room.Reload(ctx)
				if err == nil {
					logger.Debug("教室名录已刷新", zap.Int("rooms", n))
				}
				return err
			},
		},
	}

	for _, job := range jobs {
		job := job
		if job.spec == "" {
			continue
		}
		_, err := c.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			start := time.Now()
			if err := job.run(ctx); err != nil {
				logger.Error("定时任务执行失败", zap.String("job", job.name), zap.Error(err))
				return
			}
			logger.Debug("定时任务完成", zap.String("job", job.name), zap.Duration("elapsed", time.Since(start)))
		})
		if err != nil {
			return nil, fmt.Errorf("注册定时任务 %s 失败: %w", job.name, err)
		}
	}

	c.Start()
	logger.Info("定时任务已启动", zap.Int("jobs", len(c.Entries())))
	return c, nil
}
