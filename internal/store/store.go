package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// Store 安装器记录的本地文件存储
// 每个(应用,架构)组合一个JSON文件,文件名由应用显示名与架构确定性推导
type Store struct {
	dir    string
	logger *zap.Logger
}

// New 创建记录存储,输出目录不存在时创建
func New(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Filename 推导记录文件名:显示名转小写、空格转下划线,拼接小写架构
func Filename(appName, arch string) string {
	name := strings.ReplaceAll(strings.ToLower(appName), " ", "_")
	return fmt.Sprintf("%s_%s.json", name, strings.ToLower(arch))
}

// Read 读取已存储的记录
// ok=false 表示该(应用,架构)尚无记录;文件损坏按无记录处理并告警
func (s *Store) Read(appName, arch string) (types.InstallerRecord, bool) {
	var record types.InstallerRecord

	path := filepath.Join(s.dir, Filename(appName, arch))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read existing record",
				zap.String("path", path), zap.Error(err))
		}
		return record, false
	}

	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Warn("existing record is not valid json, treating as absent",
			zap.String("path", path), zap.Error(err))
		return types.InstallerRecord{}, false
	}
	return record, true
}

// List 读出目录下全部已持久化的记录,损坏的文件跳过
func (s *Store) List() []types.InstallerRecord {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("failed to list record directory",
			zap.String("dir", s.dir), zap.Error(err))
		return nil
	}

	var records []types.InstallerRecord
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, f.Name()))
		if err != nil {
			continue
		}
		var record types.InstallerRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// Write 持久化记录,覆盖同名文件
// 先写临时文件再原子改名,避免写入中断产生半成品文件
func (s *Store) Write(appName, arch string, record types.InstallerRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	path := filepath.Join(s.dir, Filename(appName, arch))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace record file: %w", err)
	}

	s.logger.Info("updated record",
		zap.String("path", path),
		zap.String("version", record.PackageVersion))
	return nil
}
