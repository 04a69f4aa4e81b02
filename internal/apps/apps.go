package apps

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// Load 从JSON文件加载跟踪应用清单
// 缺少id或name的条目跳过并告警;文件级失败向上返回,由调用方决定是否致命
func Load(path string, logger *zap.Logger) ([]types.AppDescriptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read apps file: %w", err)
	}

	var raw []types.AppDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse apps file %s: %w", path, err)
	}

	apps := make([]types.AppDescriptor, 0, len(raw))
	for _, app := range raw {
		if app.ID == "" || app.Name == "" {
			logger.Warn("skipping invalid app entry, missing id or name",
				zap.String("id", app.ID), zap.String("name", app.Name))
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// List 可整体替换的应用清单,常驻模式下由文件监听刷新
type List struct {
	mu   sync.RWMutex
	apps []types.AppDescriptor
}

// NewList 创建应用清单
func NewList(apps []types.AppDescriptor) *List {
	return &List{apps: apps}
}

// Get 返回当前清单的副本
func (l *List) Get() []types.AppDescriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.AppDescriptor, len(l.apps))
	copy(out, l.apps)
	return out
}

// Replace 整体替换清单
func (l *List) Replace(apps []types.AppDescriptor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apps = apps
}
