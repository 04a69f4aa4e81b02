package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/internal/version"
	"github.com/bingooyong/winget-sync/internal/winget"
	"github.com/bingooyong/winget-sync/pkg/types"
)

// ManifestSource 清单仓库访问,由 winget.Source 实现
// 三个方法都把远程失败降级为安全默认值,见各自实现
type ManifestSource interface {
	ListVersionEntries(ctx context.Context, appID string) []types.VersionEntry
	LatestModification(ctx context.Context, path string) (time.Time, bool)
	FetchManifest(ctx context.Context, path, appID string) *winget.InstallerManifest
}

// RecordStore 安装器记录存储,由 store.Store 实现
type RecordStore interface {
	Read(appName, arch string) (types.InstallerRecord, bool)
	Write(appName, arch string, record types.InstallerRecord) error
}

// Syncer 同步流水线:目录列举 -> 版本解析 -> 清单抓取 -> 版本闸门 -> 记录写入
// 应用严格串行处理,单个应用的失败不影响后续应用
type Syncer struct {
	source   ManifestSource
	store    RecordStore
	resolver *version.Resolver
	logger   *zap.Logger

	mu      sync.RWMutex
	lastRun *types.RunResult
}

// New 创建同步器
func New(source ManifestSource, store RecordStore, candidateWindow int, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		source:   source,
		store:    store,
		resolver: version.NewResolver(source, candidateWindow, logger),
		logger:   logger,
	}
}

// Run 对全部应用执行一轮同步并返回汇总结果
func (s *Syncer) Run(ctx context.Context, apps []types.AppDescriptor) types.RunResult {
	result := types.RunResult{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	s.logger.Info("starting sync run",
		zap.String("run_id", result.RunID),
		zap.Int("apps", len(apps)))

	for _, app := range apps {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, "run cancelled: "+ctx.Err().Error())
			break
		}

		result.AppsProcessed++
		written, err := s.processApp(ctx, app)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: %v", app.ID, err))
		}
		if written > 0 {
			result.AppsUpdated++
			result.RecordsWritten += written
		}
	}

	result.Finished = time.Now()
	s.logger.Info("sync run completed",
		zap.String("run_id", result.RunID),
		zap.Int("apps_processed", result.AppsProcessed),
		zap.Int("apps_updated", result.AppsUpdated),
		zap.Int("records_written", result.RecordsWritten),
		zap.Int("errors", len(result.Errors)))

	s.mu.Lock()
	s.lastRun = &result
	s.mu.Unlock()

	return result
}

// LastRun 返回最近一次运行的汇总结果,尚未运行过时 ok=false
func (s *Syncer) LastRun() (types.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return types.RunResult{}, false
	}
	return *s.lastRun, true
}

// processApp 处理单个应用,返回写入的记录数
// 找不到版本目录或清单属预期情况,返回0而不是错误
func (s *Syncer) processApp(ctx context.Context, app types.AppDescriptor) (int, error) {
	s.logger.Info("processing app",
		zap.String("app_id", app.ID),
		zap.String("app_name", app.Name))

	entries := s.source.ListVersionEntries(ctx, app.ID)
	if len(entries) == 0 {
		s.logger.Info("no manifest folders found", zap.String("app_id", app.ID))
		return 0, nil
	}

	latest := s.resolver.Resolve(ctx, app.ID, entries)
	if latest == nil {
		return 0, nil
	}

	manifest := s.source.FetchManifest(ctx, latest.Path, app.ID)
	if manifest == nil {
		s.logger.Info("no installer manifest available",
			zap.String("app_id", app.ID),
			zap.String("folder", latest.Name))
		return 0, nil
	}

	var written int
	var writeErr error
	for _, arch := range manifest.Architectures() {
		installer, ok := manifest.InstallerFor(arch)
		if !ok {
			continue
		}
		record := buildRecord(manifest, installer, arch)

		existing, hasExisting := s.store.Read(app.Name, arch)
		if !version.ShouldAccept(existing.PackageVersion, hasExisting, record.PackageVersion) {
			s.logger.Info("existing version is newer or same, skipping",
				zap.String("app_id", app.ID),
				zap.String("arch", arch),
				zap.String("existing", existing.PackageVersion),
				zap.String("new", record.PackageVersion))
			continue
		}

		if err := s.store.Write(app.Name, arch, record); err != nil {
			// 写入失败不影响其他架构和后续应用
			s.logger.Error("failed to write record",
				zap.String("app_id", app.ID),
				zap.String("arch", arch),
				zap.Error(err))
			writeErr = err
			continue
		}
		written++
	}

	return written, writeErr
}

// buildRecord 由清单构造持久化记录
// 条目级字段存在时覆盖顶层公共值
func buildRecord(m *winget.InstallerManifest, installer winget.Installer, arch string) types.InstallerRecord {
	record := types.InstallerRecord{
		PackageIdentifier: m.PackageIdentifier,
		PackageVersion:    m.PackageVersion,
		InstallerType:     m.InstallerType,
		Scope:             m.Scope,
		InstallModes:      m.InstallModes,
		InstallerSwitches: m.InstallerSwitches,
		InstallerUrl:      installer.InstallerUrl,
		InstallerSha256:   installer.InstallerSha256,
		Architecture:      arch,
	}
	if installer.InstallerType != "" {
		record.InstallerType = installer.InstallerType
	}
	if installer.Scope != "" {
		record.Scope = installer.Scope
	}
	if len(installer.InstallerSwitches) > 0 {
		record.InstallerSwitches = installer.InstallerSwitches
	}
	return record
}
