package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName gRPC 健康检查里登记的服务名
const ServiceName = "donation.core"

// NewGRPCServer 初始化并注册 gRPC 服务; 返回的 health.Server 用于关闭时切换状态
func NewGRPCServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer()

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return s, hs
}
