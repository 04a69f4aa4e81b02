package daemon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/internal/apps"
	"github.com/bingooyong/winget-sync/internal/config"
	"github.com/bingooyong/winget-sync/internal/server"
	"github.com/bingooyong/winget-sync/internal/syncer"
)

// Daemon 常驻模式的进程生命周期
// 持有调度器、清单文件监听和状态接口,统一启动和优雅退出
type Daemon struct {
	config    *config.Config
	syncer    *syncer.Syncer
	appList   *apps.List
	scheduler *syncer.Scheduler
	watcher   *apps.Watcher
	server    *server.Server
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New 创建常驻实例
func New(cfg *config.Config, sy *syncer.Syncer, appList *apps.List, records server.RecordReader, logger *zap.Logger) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		config:  cfg,
		syncer:  sy,
		appList: appList,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	scheduler, err := syncer.NewScheduler(cfg.Sync.Schedule, d.runOnce, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.Sync.Schedule, err)
	}
	d.scheduler = scheduler

	if cfg.Server.Listen != "" {
		d.server = server.New(cfg.Server.Listen, sy, appList, records, logger)
	}

	return d, nil
}

// Start 启动所有组件
func (d *Daemon) Start() error {
	d.logger.Info("starting daemon",
		zap.String("schedule", d.config.Sync.Schedule))

	if d.config.Sync.WatchAppsFile {
		watcher, err := apps.NewWatcher(d.config.Sync.AppsFile, d.appList, d.logger)
		if err != nil {
			// 监听失败不致命,清单在下次进程重启时仍会重新加载
			d.logger.Warn("failed to watch apps file", zap.Error(err))
		} else {
			d.watcher = watcher
		}
	}

	if d.server != nil {
		d.server.Start()
	}

	d.scheduler.Start()

	// 启动后立即跑一轮,不等第一个调度点
	go d.runOnce()

	d.logger.Info("daemon started successfully")
	return nil
}

// Stop 优雅停止所有组件
func (d *Daemon) Stop() {
	d.logger.Info("stopping daemon")

	d.cancel()
	d.scheduler.Stop()

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			d.logger.Warn("failed to close apps file watcher", zap.Error(err))
		}
	}
	if d.server != nil {
		d.server.Stop()
	}

	d.logger.Info("daemon stopped")
}

// runOnce 执行一轮同步
func (d *Daemon) runOnce() {
	d.syncer.Run(d.ctx, d.appList.Get())
}
