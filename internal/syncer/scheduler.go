package syncer

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 按cron表达式周期触发同步
// 上一轮未结束时跳过本轮,上游接口有全局限额,重叠运行没有意义
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler 创建调度器,spec 为标准5段cron表达式
func NewScheduler(spec string, job func(), logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop 停止调度并等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
