package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// stubStatus 预置运行结果
type stubStatus struct {
	result types.RunResult
	ok     bool
}

func (s *stubStatus) LastRun() (types.RunResult, bool) { return s.result, s.ok }

type stubApps struct{ apps []types.AppDescriptor }

func (s *stubApps) Get() []types.AppDescriptor { return s.apps }

type stubRecords struct{ records []types.InstallerRecord }

func (s *stubRecords) List() []types.InstallerRecord { return s.records }

func newTestServer(status *stubStatus) *Server {
	return New("127.0.0.1:0", status,
		&stubApps{apps: []types.AppDescriptor{{ID: "Foo.Bar", Name: "Foo Bar"}}},
		&stubRecords{records: []types.InstallerRecord{{PackageIdentifier: "Foo.Bar", PackageVersion: "2.0.0", Architecture: "x64"}}},
		zap.NewNop())
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doGet(t, newTestServer(&stubStatus{}), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRunsLatest_BeforeFirstRun(t *testing.T) {
	// 首轮运行前返回404
	w := doGet(t, newTestServer(&stubStatus{ok: false}), "/api/v1/runs/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunsLatest(t *testing.T) {
	status := &stubStatus{
		result: types.RunResult{
			RunID:          "run-1",
			Started:        time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
			AppsProcessed:  3,
			RecordsWritten: 2,
		},
		ok: true,
	}
	w := doGet(t, newTestServer(status), "/api/v1/runs/latest")
	require.Equal(t, http.StatusOK, w.Code)

	var got types.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 3, got.AppsProcessed)
}

func TestApps(t *testing.T) {
	w := doGet(t, newTestServer(&stubStatus{}), "/api/v1/apps")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Apps    []types.AppDescriptor   `json:"apps"`
		Records []types.InstallerRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Apps, 1)
	assert.Equal(t, "Foo.Bar", got.Apps[0].ID)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "2.0.0", got.Records[0].PackageVersion)
}
