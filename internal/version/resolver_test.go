package version

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// stubModTimeSource 按路径返回预置提交时间的桩实现
type stubModTimeSource struct {
	times map[string]time.Time
	calls []string
}

func (s *stubModTimeSource) LatestModification(_ context.Context, path string) (time.Time, bool) {
	s.calls = append(s.calls, path)
	t, ok := s.times[path]
	if !ok {
		return time.Time{}, false
	}
	return t, true
}

func entries(names ...string) []types.VersionEntry {
	out := make([]types.VersionEntry, 0, len(names))
	for _, n := range names {
		out = append(out, types.VersionEntry{Name: n, Path: "manifests/f/Foo/Bar/" + n})
	}
	return out
}

func TestResolve_NoVersionFolders(t *testing.T) {
	// 没有任何以数字开头的目录时返回 nil,属正常结果
	r := NewResolver(&stubModTimeSource{}, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries(".validation", "latest", "meta"))
	assert.Nil(t, got)

	got = r.Resolve(context.Background(), "Foo.Bar", nil)
	assert.Nil(t, got)
}

func TestResolve_NumericRanking(t *testing.T) {
	// 提交时间无差异时按数字版本排序,1.10.0 > 1.9.5 > 1.2.0
	mods := &stubModTimeSource{}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries("1.2.0", "1.10.0", "1.9.5"))
	require.NotNil(t, got)
	assert.Equal(t, "1.10.0", got.Name)
}

func TestResolve_CandidateWindow(t *testing.T) {
	// 只对版本排名前3的目录做提交时间查询
	mods := &stubModTimeSource{times: map[string]time.Time{}}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar",
		entries("1.0.0", "2.0.0", "2.0.1", "1.5.0", "0.9.0"))
	require.NotNil(t, got)
	assert.Len(t, mods.calls, 3)
	assert.NotContains(t, mods.calls, "manifests/f/Foo/Bar/1.0.0")
	assert.NotContains(t, mods.calls, "manifests/f/Foo/Bar/0.9.0")
}

func TestResolve_RecencyOverridesRank(t *testing.T) {
	// 窗口内提交时间最新的目录胜出,即使其版本号不是最高
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mods := &stubModTimeSource{times: map[string]time.Time{
		"manifests/f/Foo/Bar/1.0.0": base.Add(-48 * time.Hour),
		"manifests/f/Foo/Bar/2.0.0": base,
		"manifests/f/Foo/Bar/2.0.1": base.Add(-24 * time.Hour),
	}}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries("1.0.0", "2.0.0", "2.0.1"))
	require.NotNil(t, got)
	assert.Equal(t, "2.0.0", got.Name)
	assert.Equal(t, base, got.ModifiedAt)
}

func TestResolve_LookupFailureDegrades(t *testing.T) {
	// 提交时间查询失败的目录按零值时间参与排序,不被排除也不报错
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mods := &stubModTimeSource{times: map[string]time.Time{
		"manifests/f/Foo/Bar/1.9.0": base,
	}}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries("2.0.0", "1.9.0"))
	require.NotNil(t, got)
	assert.Equal(t, "1.9.0", got.Name)
}

func TestResolve_AllLookupsFail(t *testing.T) {
	// 全部查询降级时保持版本号排序
	mods := &stubModTimeSource{}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries("1.0.0", "3.0.0", "2.0.0"))
	require.NotNil(t, got)
	assert.Equal(t, "3.0.0", got.Name)
}

func TestResolve_SingleEntry(t *testing.T) {
	// 唯一候选跳过排序但仍做提交时间查询
	mods := &stubModTimeSource{times: map[string]time.Time{}}
	r := NewResolver(mods, 0, zap.NewNop())

	got := r.Resolve(context.Background(), "Foo.Bar", entries("7.1"))
	require.NotNil(t, got)
	assert.Equal(t, "7.1", got.Name)
	assert.Len(t, mods.calls, 1)
}

func TestFilterVersionEntries_NoDigitPrefix(t *testing.T) {
	// 提取不到数字序列的目录以 [0] 参与排序
	out := filterVersionEntries(entries("1beta", "2.0.0"))
	require.Len(t, out, 2)
	for _, e := range out {
		assert.NotEmpty(t, e.VersionParts)
	}
}
