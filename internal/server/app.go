package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"donation-core/pkg/logger"
)

type Config struct {
	HttpPort string
	GrpcPort string
}

type App struct {
	httpServer   *http.Server
	grpcServer   *grpc.Server
	health       *health.Server
	grpcListener net.Listener
}

func New(cfg Config, httpHandler *gin.Engine, grpcServer *grpc.Server, hs *health.Server) (*App, error) {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HttpPort,
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on grpc port %s: %w", cfg.GrpcPort, err)
	}

	return &App{
		httpServer:   httpSrv,
		grpcServer:   grpcServer,
		health:       hs,
		grpcListener: lis,
	}, nil
}

// Run 启动服务并阻塞，直到收到关闭信号或 ctx 取消
func (a *App) Run(ctx context.Context) {
	// 1. Start HTTP
	go func() {
		logger.Info("Starting HTTP Server", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP Server failure", zap.Error(err))
		}
	}()

	// 2. Start gRPC
	go func() {
		logger.Info("Starting gRPC Server", zap.String("addr", a.grpcListener.Addr().String()))
		if err := a.grpcServer.Serve(a.grpcListener); err != nil {
			logger.Fatal("gRPC Server failure", zap.Error(err))
		}
	}()

	// 3. Signal Handling (Blocking)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	// 4. Graceful Shutdown
	if a.health != nil {
		a.health.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	a.grpcServer.GracefulStop()
	logger.Info("Server exited properly")
}
