package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrNotFound 资源不存在(404),不参与重试
var ErrNotFound = errors.New("resource not found")

// Config GitHub 访问配置
// 重试次数与延迟均为显式配置,不依赖包级可变状态
type Config struct {
	Token   string
	APIBase string
	RawBase string
	Repo    string // owner/name
	Branch  string

	MaxRetries       int
	RetryDelay       time.Duration
	RateLimitMaxWait time.Duration
	Timeout          time.Duration
}

// Client GitHub REST API 与 raw 内容的只读客户端
// 非200响应和网络错误按指数退避重试,403限流等待限额重置后重试
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient 创建客户端
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Token == "" {
		logger.Warn("no github token configured, api rate limits will be restricted")
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ContentsURL 拼接 contents API 地址
func (c *Client) ContentsURL(repoPath string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.cfg.APIBase, c.cfg.Repo, repoPath)
}

// CommitsURL 拼接 commits API 地址
func (c *Client) CommitsURL() string {
	return fmt.Sprintf("%s/repos/%s/commits", c.cfg.APIBase, c.cfg.Repo)
}

// RawURL 拼接 raw 文件地址
func (c *Client) RawURL(repoPath, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.cfg.RawBase, c.cfg.Repo, c.cfg.Branch, repoPath, filename)
}

// GetJSON 请求 REST API 并将响应体解码到 out
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	body, err := c.get(ctx, rawURL, params, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return nil
}

// GetRaw 请求原始文件内容
// 文件不存在时返回 ErrNotFound,调用方可据此尝试备选文件名
func (c *Client) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, nil, false)
}

// get 带重试的GET请求
func (c *Client) get(ctx context.Context, rawURL string, params url.Values, authenticated bool) ([]byte, error) {
	op := func() ([]byte, error) {
		return c.doOnce(ctx, rawURL, params, authenticated)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("github request failed, retrying",
			zap.String("url", rawURL),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryDelay
	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.cfg.MaxRetries)), ctx)

	return backoff.RetryNotifyWithData(op, policy, notify)
}

// doOnce 执行单次请求
func (c *Client) doOnce(ctx context.Context, rawURL string, params url.Values, authenticated bool) ([]byte, error) {
	u := rawURL
	if len(params) > 0 {
		u = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if authenticated && c.cfg.Token != "" {
		req.Header.Set("Authorization", "token "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrNotFound)

	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		// 限额耗尽,等待到重置时间(有上限)后再重试
		c.waitForRateLimit(ctx, resp.Header.Get("X-RateLimit-Reset"))
		return nil, fmt.Errorf("github rate limit exceeded")

	default:
		return nil, fmt.Errorf("github api error: %s returned status %d", rawURL, resp.StatusCode)
	}
}

// waitForRateLimit 等待限额重置,等待时间不超过 RateLimitMaxWait
func (c *Client) waitForRateLimit(ctx context.Context, resetHeader string) {
	wait := c.cfg.RateLimitMaxWait
	if reset, err := strconv.ParseInt(resetHeader, 10, 64); err == nil {
		until := time.Until(time.Unix(reset, 0)) + time.Second
		if until > 0 && until < wait {
			wait = until
		}
	}
	if wait <= 0 {
		return
	}

	c.logger.Warn("github rate limit exceeded, waiting for reset",
		zap.Duration("wait", wait))

	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
