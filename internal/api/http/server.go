package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/rwaledger/internal/api/http/handlers"
	"github.com/weisyn/rwaledger/internal/api/http/middleware"
	apiconfig "github.com/weisyn/rwaledger/internal/config/api"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
)

// Server HTTP服务器结构
// 负责把账本入口暴露为 JSON over HTTP
type Server struct {
	router     *gin.Engine  // Gin路由引擎
	httpServer *http.Server // 标准HTTP服务器
	listener   net.Listener
	options    *apiconfig.APIOptions
	logger     log.Logger
	ledger     ledger.Ledger
	cache      *query.Cache
}

// NewServer 创建HTTP服务器并注册全部路由，cache 可为 nil
func NewServer(options *apiconfig.APIOptions, l ledger.Ledger, cache *query.Cache, logger log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:  gin.New(),
		options: options,
		logger:  logger,
		ledger:  l,
		cache:   cache,
	}
	s.setupRoutes()
	return s
}

// Handler 返回路由，供测试直接驱动
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes() {
	zl := s.logger.GetZapLogger()

	s.router.Use(
		middleware.NewRequestID().Middleware(),
		middleware.Recovery(zl),
		middleware.NewLogger(s.logger).Middleware(),
		middleware.NewMetrics().Middleware(),
		middleware.NewRateLimit(s.options.ReadRateLimit, s.options.WriteRateLimit).Middleware(),
		middleware.BodyLimit(s.options.MaxRequestSize),
		middleware.ErrorHandler(zl),
	)

	handlers.NewHealthHandler(s.ledger, s.cache).RegisterRoutes(s.router)
	if s.options.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	call := middleware.CallContext()
	v1 := s.router.Group("/v1")
	handlers.NewAssetHandlers(s.ledger, s.logger).RegisterRoutes(v1, call)
	handlers.NewProposalHandlers(s.ledger, s.logger).RegisterRoutes(v1, call)
	handlers.NewKycHandlers(s.ledger, s.logger).RegisterRoutes(v1, call)

	s.logger.Infof("HTTP路由注册完成: %d 条", len(s.router.Routes()))
}

// Start 监听端口并在后台提供服务
//
// 监听失败（如端口占用）直接返回错误，由 fx 终止启动。
func (s *Server) Start() error {
	addr := s.options.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("HTTP服务器监听 %s 失败: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器启动成功，监听地址: %s", ln.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 优雅关闭HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在关闭HTTP服务器")

	stopCtx, cancel := context.WithTimeout(ctx, s.options.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}
	s.logger.Info("HTTP服务器已关闭")
	return nil
}
