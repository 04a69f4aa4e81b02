package version

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// DefaultCandidateWindow 参与提交时间比较的候选目录数量上限
// 版本号排序是"最新"的强启发但非完美(仓库存在补录),只对排名靠前的
// 少量目录做提交时间查询,在准确性和远程调用次数之间折中
const DefaultCandidateWindow = 3

// ModTimeSource 目录最近修改时间查询
// ok=false 表示查询降级(远程失败),此时 time 为零值,调用方不得将降级视为错误
type ModTimeSource interface {
	LatestModification(ctx context.Context, path string) (time.Time, bool)
}

// Resolver 从候选版本目录中选出最新发布版本
type Resolver struct {
	mods   ModTimeSource
	window int
	logger *zap.Logger
}

// NewResolver 创建版本解析器
// window<=0 时使用 DefaultCandidateWindow
func NewResolver(mods ModTimeSource, window int, logger *zap.Logger) *Resolver {
	if window <= 0 {
		window = DefaultCandidateWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		mods:   mods,
		window: window,
		logger: logger,
	}
}

// Resolve 在候选目录中选出最新版本目录
// 返回 nil 表示没有可用的版本目录,这是空清单或异形清单的正常结果,不是错误
func (r *Resolver) Resolve(ctx context.Context, appID string, entries []types.VersionEntry) *types.VersionEntry {
	candidates := filterVersionEntries(entries)
	if len(candidates) == 0 {
		r.logger.Info("no version folders found", zap.String("app_id", appID))
		return nil
	}

	r.logger.Debug("found version folders",
		zap.String("app_id", appID),
		zap.Int("count", len(candidates)))

	ranked, err := rankByVersion(candidates)
	if err != nil {
		// 排序失败时退回完整候选集继续走提交时间比较,解析不因此中止
		r.logger.Warn("version ranking failed, using unranked candidates",
			zap.String("app_id", appID), zap.Error(err))
		ranked = candidates
	} else if len(ranked) > r.window {
		ranked = ranked[:r.window]
	}

	if len(ranked) == 0 {
		return nil
	}

	for i := range ranked {
		mod, ok := r.mods.LatestModification(ctx, ranked[i].Path)
		if !ok {
			// 查询失败按最小时间参与排序,该目录不会因此被排除
			r.logger.Warn("commit date lookup degraded",
				zap.String("app_id", appID),
				zap.String("folder", ranked[i].Name))
		}
		ranked[i].ModifiedAt = mod
	}

	// 提交时间相同(含全部降级为零值)时保持版本号排序
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ModifiedAt.After(ranked[j].ModifiedAt)
	})

	latest := ranked[0]
	r.logger.Info("resolved latest version folder",
		zap.String("app_id", appID),
		zap.String("folder", latest.Name),
		zap.Time("committed_at", latest.ModifiedAt))
	return &latest
}

// filterVersionEntries 只保留名称以十进制数字开头的目录并填充版本序列
// 版本目录以外的条目(如 .validation 等元数据目录)被丢弃
func filterVersionEntries(entries []types.VersionEntry) []types.VersionEntry {
	var out []types.VersionEntry
	for _, e := range entries {
		if len(e.Name) == 0 || e.Name[0] < '0' || e.Name[0] > '9' {
			continue
		}
		parts, ok := ParsePrefix(e.Name)
		if !ok {
			// 提取不到数字的目录以 [0] 参与排序,排在真实版本之后但不被丢弃
			parts = []int{0}
		}
		e.VersionParts = parts
		out = append(out, e)
	}
	return out
}

// rankByVersion 按数字版本序列降序排序
func rankByVersion(entries []types.VersionEntry) ([]types.VersionEntry, error) {
	ranked := make([]types.VersionEntry, len(entries))
	copy(ranked, entries)
	for _, e := range ranked {
		if len(e.VersionParts) == 0 {
			return nil, errors.New("entry without version parts")
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return Compare(ranked[i].VersionParts, ranked[j].VersionParts) > 0
	})
	return ranked, nil
}
