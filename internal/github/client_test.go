package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient 创建指向测试服务器的客户端
func newTestClient(ts *httptest.Server, token string) *Client {
	return NewClient(Config{
		Token:            token,
		APIBase:          ts.URL,
		RawBase:          ts.URL,
		Repo:             "microsoft/winget-pkgs",
		Branch:           "master",
		MaxRetries:       2,
		RetryDelay:       time.Millisecond,
		RateLimitMaxWait: 10 * time.Millisecond,
		Timeout:          time.Second,
	}, zap.NewNop())
}

func TestGetJSON_Success(t *testing.T) {
	// 测试正常响应解码
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[{"name":"1.0.0","path":"manifests/d/Demo/App/1.0.0","type":"dir"}]`)
	}))
	defer ts.Close()

	var entries []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
	}
	c := newTestClient(ts, "test-token")
	err := c.GetJSON(context.Background(), c.ContentsURL("manifests/d/Demo/App"), nil, &entries)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1.0.0", entries[0].Name)
}

func TestGetJSON_RetriesOnServerError(t *testing.T) {
	// 测试非200响应触发重试
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer ts.Close()

	var out map[string]bool
	c := newTestClient(ts, "")
	err := c.GetJSON(context.Background(), ts.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestGetJSON_RetryExhaustion(t *testing.T) {
	// 测试重试次数耗尽后返回错误
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	var out map[string]bool
	c := newTestClient(ts, "")
	err := c.GetJSON(context.Background(), ts.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, 3, calls) // 首次 + 2次重试
}

func TestGetRaw_NotFoundIsPermanent(t *testing.T) {
	// 测试404不重试并返回 ErrNotFound
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := newTestClient(ts, "")
	_, err := c.GetRaw(context.Background(), ts.URL+"/missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, calls)
}

func TestGet_RateLimitWaitsAndRetries(t *testing.T) {
	// 测试限流响应等待后重试
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Unix()))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer ts.Close()

	var out map[string]bool
	c := newTestClient(ts, "")
	err := c.GetJSON(context.Background(), ts.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestURLHelpers(t *testing.T) {
	c := NewClient(Config{
		APIBase: "https://api.github.com",
		RawBase: "https://raw.githubusercontent.com",
		Repo:    "microsoft/winget-pkgs",
		Branch:  "master",
	}, zap.NewNop())

	assert.Equal(t,
		"https://api.github.com/repos/microsoft/winget-pkgs/contents/manifests/d/Demo/App",
		c.ContentsURL("manifests/d/Demo/App"))
	assert.Equal(t,
		"https://api.github.com/repos/microsoft/winget-pkgs/commits",
		c.CommitsURL())
	assert.Equal(t,
		"https://raw.githubusercontent.com/microsoft/winget-pkgs/master/manifests/d/Demo/App/1.0.0/Demo.App.installer.yaml",
		c.RawURL("manifests/d/Demo/App/1.0.0", "Demo.App.installer.yaml"))
}
