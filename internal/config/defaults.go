package config

import "time"

// setGitHubDefaults 设置 GitHub 访问默认值
func setGitHubDefaults(github *GitHubConfig) {
	if github.APIBase == "" {
		github.APIBase = "https://api.github.com"
	}
	if github.RawBase == "" {
		github.RawBase = "https://raw.githubusercontent.com"
	}
	if github.Repo == "" {
		github.Repo = "microsoft/winget-pkgs"
	}
	if github.Branch == "" {
		github.Branch = "master"
	}
	if github.MaxRetries == 0 {
		github.MaxRetries = 3
	}
	if github.RetryDelay == 0 {
		github.RetryDelay = 10 * time.Second
	}
	if github.RateLimitMaxWait == 0 {
		github.RateLimitMaxWait = 60 * time.Second
	}
	if github.Timeout == 0 {
		github.Timeout = 30 * time.Second
	}
}

// setSyncDefaults 设置同步流程默认值
func setSyncDefaults(sync *SyncConfig) {
	if sync.AppsFile == "" {
		sync.AppsFile = "supportedapps.json"
	}
	if sync.OutputDir == "" {
		sync.OutputDir = "Apps"
	}
	if sync.CandidateWindow == 0 {
		sync.CandidateWindow = 3
	}
	// Schedule 默认为空,表示单次运行后退出
}

// setLogDefaults 设置日志默认值
func setLogDefaults(log *LogConfig) {
	if log.Level == "" {
		log.Level = "info"
	}
	if log.MaxSize == 0 {
		log.MaxSize = 100
	}
	if log.MaxBackups == 0 {
		log.MaxBackups = 3
	}
	if log.MaxAge == 0 {
		log.MaxAge = 28
	}
	// File 默认为空,只输出到控制台
}

// setDefaults 设置所有默认值
func setDefaults(config *Config) {
	setGitHubDefaults(&config.GitHub)
	setSyncDefaults(&config.Sync)
	setLogDefaults(&config.Log)
	// Server.Listen 默认为空,表示不启动状态接口
}
