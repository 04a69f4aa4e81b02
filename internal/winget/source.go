package winget

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bingooyong/winget-sync/internal/github"
	"github.com/bingooyong/winget-sync/pkg/types"
)

// Source winget-pkgs 清单仓库的只读访问层
// 远程失败一律降级为文档化的安全默认值(空列表/零值时间/nil),不向上传播
type Source struct {
	client *github.Client
	logger *zap.Logger
}

// NewSource 创建清单访问层
func NewSource(client *github.Client, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, logger: logger}
}

// ManifestPath 由包标识推导清单目录路径
// "Discord.Discord" -> "manifests/d/Discord/Discord"
func ManifestPath(appID string) string {
	firstLetter := strings.ToLower(appID[:1])
	parts := strings.Split(appID, ".")
	return fmt.Sprintf("manifests/%s/%s", firstLetter, strings.Join(parts, "/"))
}

// contentEntry contents API 的目录项
type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// commitItem commits API 的提交项,只取提交时间
type commitItem struct {
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// ListVersionEntries 列出应用清单目录下的候选版本目录
// 只保留目录类型的条目;任何失败都降级为空列表
func (s *Source) ListVersionEntries(ctx context.Context, appID string) []types.VersionEntry {
	if appID == "" {
		return nil
	}

	var contents []contentEntry
	u := s.client.ContentsURL(ManifestPath(appID))
	if err := s.client.GetJSON(ctx, u, nil, &contents); err != nil {
		s.logger.Warn("failed to list manifest folders",
			zap.String("app_id", appID), zap.Error(err))
		return nil
	}

	var entries []types.VersionEntry
	for _, item := range contents {
		if item.Type != "dir" {
			continue
		}
		entries = append(entries, types.VersionEntry{Name: item.Name, Path: item.Path})
	}
	return entries
}

// LatestModification 查询目录最近一次提交时间
// ok=false 表示查询降级,time 为零值
func (s *Source) LatestModification(ctx context.Context, path string) (time.Time, bool) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("per_page", "1")

	var commits []commitItem
	if err := s.client.GetJSON(ctx, s.client.CommitsURL(), params, &commits); err != nil {
		s.logger.Warn("failed to get commit date",
			zap.String("path", path), zap.Error(err))
		return time.Time{}, false
	}
	if len(commits) == 0 {
		return time.Time{}, false
	}
	return commits[0].Commit.Committer.Date, true
}

// FetchManifest 抓取版本目录下的安装器清单
// 规范文件名缺失时依次尝试备选命名;抓取或解析失败返回 nil
func (s *Source) FetchManifest(ctx context.Context, path, appID string) *InstallerManifest {
	// 部分包使用单文件清单或不同的大小写
	filenames := []string{
		appID + ".installer.yaml",
		appID + ".yaml",
		appID + ".Installer.yaml",
	}

	for _, name := range filenames {
		body, err := s.client.GetRaw(ctx, s.client.RawURL(path, name))
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				s.logger.Debug("installer manifest not found, trying next name",
					zap.String("app_id", appID), zap.String("filename", name))
				continue
			}
			s.logger.Warn("failed to fetch installer manifest",
				zap.String("app_id", appID),
				zap.String("filename", name),
				zap.Error(err))
			return nil
		}

		manifest := &InstallerManifest{}
		if err := yaml.Unmarshal(body, manifest); err != nil {
			s.logger.Warn("failed to parse installer manifest",
				zap.String("app_id", appID),
				zap.String("filename", name),
				zap.Error(err))
			return nil
		}
		return manifest
	}

	s.logger.Info("no installer manifest found under any known filename",
		zap.String("app_id", appID), zap.String("path", path))
	return nil
}
