package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 同步服务配置结构
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// GitHubConfig 上游清单仓库访问配置
type GitHubConfig struct {
	Token   string `mapstructure:"token"`    // 访问令牌,为空时走匿名限额
	APIBase string `mapstructure:"api_base"` // REST API 地址
	RawBase string `mapstructure:"raw_base"` // 原始文件地址
	Repo    string `mapstructure:"repo"`     // 清单仓库,owner/name 形式
	Branch  string `mapstructure:"branch"`

	MaxRetries       int           `mapstructure:"max_retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	RateLimitMaxWait time.Duration `mapstructure:"rate_limit_max_wait"` // 限流重置等待上限
	Timeout          time.Duration `mapstructure:"timeout"`             // 单次请求超时
}

// SyncConfig 同步流程配置
type SyncConfig struct {
	AppsFile        string `mapstructure:"apps_file"`        // 跟踪应用清单文件
	OutputDir       string `mapstructure:"output_dir"`       // 记录文件输出目录
	Schedule        string `mapstructure:"schedule"`         // cron 表达式,为空表示单次运行
	CandidateWindow int    `mapstructure:"candidate_window"` // 提交时间比较的候选窗口大小
	WatchAppsFile   bool   `mapstructure:"watch_apps_file"`  // 常驻模式下是否监听清单文件变更
}

// ServerConfig 状态接口配置
type ServerConfig struct {
	Listen string `mapstructure:"listen"` // 监听地址,为空表示不启动
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 启用环境变量支持
	v.AutomaticEnv()
	// 环境变量中的下划线映射到配置中的点号
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定特定的环境变量到配置项
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("log.level", "LOG_LEVEL")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 解析配置
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 设置默认值
	setDefaults(config)

	// 校验
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validate 校验配置合法性
func validate(config *Config) error {
	if config.GitHub.Repo == "" || !strings.Contains(config.GitHub.Repo, "/") {
		return fmt.Errorf("invalid github.repo %q, expected owner/name", config.GitHub.Repo)
	}
	if config.Sync.AppsFile == "" {
		return fmt.Errorf("sync.apps_file must not be empty")
	}
	return nil
}
