package types

import "time"

// AppDescriptor 跟踪的应用描述
// ID 为上游仓库使用的包标识(如 "Discord.Discord"),Name 为本地文件名使用的显示名称
type AppDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VersionEntry 候选版本目录
// Name 为目录名(不保证以数字开头),Path 为仓库内相对路径
// VersionParts 与 ModifiedAt 在解析过程中填充,对象仅在单次解析内存活,不持久化
type VersionEntry struct {
	Name string
	Path string

	// VersionParts 从目录名提取的数字版本序列,无法提取时为 [0]
	VersionParts []int

	// ModifiedAt 目录最近一次提交时间,查询失败时为零值
	ModifiedAt time.Time
}

// InstallerRecord 持久化的安装器记录
// 每个(应用,架构)组合只保留最新一条,空字段整体省略而不是写入 null
type InstallerRecord struct {
	PackageIdentifier string            `json:"PackageIdentifier,omitempty"`
	PackageVersion    string            `json:"PackageVersion,omitempty"`
	InstallerType     string            `json:"InstallerType,omitempty"`
	Scope             string            `json:"Scope,omitempty"`
	InstallModes      []string          `json:"InstallModes,omitempty"`
	InstallerSwitches map[string]string `json:"InstallerSwitches,omitempty"`
	InstallerUrl      string            `json:"InstallerUrl,omitempty"`
	InstallerSha256   string            `json:"InstallerSha256,omitempty"`
	Architecture      string            `json:"Architecture,omitempty"`
}

// RunResult 单次同步运行的汇总结果
type RunResult struct {
	RunID          string    `json:"run_id"`
	Started        time.Time `json:"started"`
	Finished       time.Time `json:"finished"`
	AppsProcessed  int       `json:"apps_processed"`
	AppsUpdated    int       `json:"apps_updated"`
	RecordsWritten int       `json:"records_written"`
	Errors         []string  `json:"errors,omitempty"`
}
