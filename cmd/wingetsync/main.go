package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/internal/apps"
	"github.com/bingooyong/winget-sync/internal/config"
	"github.com/bingooyong/winget-sync/internal/daemon"
	"github.com/bingooyong/winget-sync/internal/github"
	"github.com/bingooyong/winget-sync/internal/logger"
	"github.com/bingooyong/winget-sync/internal/store"
	"github.com/bingooyong/winget-sync/internal/syncer"
	"github.com/bingooyong/winget-sync/internal/winget"
)

var (
	configFile = flag.String("config", "wingetsync.yaml", "path to config file")
	once       = flag.Bool("once", false, "run a single sync and exit even when a schedule is configured")
	version    = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	// 打印版本
	if *version {
		fmt.Println("wingetsync v1.0.0")
		os.Exit(0)
	}

	// 加载配置
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync() // 忽略日志同步错误,程序退出时无法处理
	}()

	// 加载跟踪应用清单,失败对整次运行是致命的
	trackedApps, err := apps.Load(cfg.Sync.AppsFile, logger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load apps file: %v\n", err)
		logger.Error("failed to load apps file", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("loaded tracked apps",
		zap.String("file", cfg.Sync.AppsFile),
		zap.Int("count", len(trackedApps)))

	// 组装同步流水线
	client := github.NewClient(github.Config{
		Token:            cfg.GitHub.Token,
		APIBase:          cfg.GitHub.APIBase,
		RawBase:          cfg.GitHub.RawBase,
		Repo:             cfg.GitHub.Repo,
		Branch:           cfg.GitHub.Branch,
		MaxRetries:       cfg.GitHub.MaxRetries,
		RetryDelay:       cfg.GitHub.RetryDelay,
		RateLimitMaxWait: cfg.GitHub.RateLimitMaxWait,
		Timeout:          cfg.GitHub.Timeout,
	}, logger.Logger)

	source := winget.NewSource(client, logger.Logger)

	recordStore, err := store.New(cfg.Sync.OutputDir, logger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create record store: %v\n", err)
		logger.Error("failed to create record store", zap.Error(err))
		os.Exit(1)
	}

	sy := syncer.New(source, recordStore, cfg.Sync.CandidateWindow, logger.Logger)
	appList := apps.NewList(trackedApps)

	// 单次模式:跑一轮后退出
	if *once || cfg.Sync.Schedule == "" {
		result := sy.Run(context.Background(), appList.Get())
		fmt.Printf("Update completed. Updated information for %d apps.\n", result.AppsUpdated)
		return
	}

	// 常驻模式:调度器 + 清单监听 + 状态接口
	d, err := daemon.New(cfg, sy, appList, recordStore, logger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create daemon: %v\n", err)
		logger.Error("failed to create daemon", zap.Error(err))
		os.Exit(1)
	}

	if err := d.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start daemon: %v\n", err)
		logger.Error("failed to start daemon", zap.Error(err))
		os.Exit(1)
	}

	// 等待退出信号
	d.WaitForSignal()

	logger.Info("wingetsync exited")
}
