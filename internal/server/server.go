package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bingooyong/winget-sync/pkg/types"
)

// RunStatus 最近一次同步运行的查询口,由 syncer.Syncer 实现
type RunStatus interface {
	LastRun() (types.RunResult, bool)
}

// AppLister 跟踪应用清单查询口,由 apps.List 实现
type AppLister interface {
	Get() []types.AppDescriptor
}

// RecordReader 已持久化记录查询口,由 store.Store 实现
type RecordReader interface {
	List() []types.InstallerRecord
}

// Server 只读状态HTTP接口,仅常驻模式下启动
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New 创建状态接口服务
func New(listen string, status RunStatus, apps AppLister, records RecordReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/runs/latest", func(c *gin.Context) {
			result, ok := status.LastRun()
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no run completed yet"})
				return
			}
			c.JSON(http.StatusOK, result)
		})

		v1.GET("/apps", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"apps":    apps.Get(),
				"records": records.List(),
			})
		})
	}

	return &Server{
		http: &http.Server{
			Addr:    listen,
			Handler: router,
		},
		logger: logger,
	}
}

// Start 启动HTTP服务,非阻塞
func (s *Server) Start() {
	go func() {
		s.logger.Info("status server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("status server failed", zap.Error(err))
		}
	}()
}

// Stop 优雅关闭HTTP服务
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("status server shutdown error", zap.Error(err))
	}
}

// Handler 返回底层路由,测试用
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
