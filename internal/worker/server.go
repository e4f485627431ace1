package worker

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"donation-core/internal/worker/tasks"
	"donation-core/pkg/logger"
)

// Server 封装 Asynq Server (Worker)
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer 初始化 Worker Server
func NewServer(addr string, password string, db int, concurrency int, confirm *tasks.CustodyConfirmHandler) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     addr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: logger.NewAsynqLogger(),
		},
	)

	return &Server{
		server: srv,
		mux:    NewServeMux(confirm),
	}
}

// NewServeMux 注册任务处理器
func NewServeMux(confirm *tasks.CustodyConfirmHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeCustodyConfirm, confirm)
	return mux
}

// Run 启动 Worker (阻塞)
func (s *Server) Run() error {
	logger.Info("Worker Server starting...")
	return s.server.Run(s.mux)
}

// Start 非阻塞启动
func (s *Server) Start() {
	go func() {
		if err := s.server.Run(s.mux); err != nil {
			logger.Fatal("Worker Server failed", zap.Error(err))
		}
	}()
}

// Stop 停止 Worker
func (s *Server) Stop() {
	s.server.Stop()
	s.server.Shutdown()
}
