package main

import (
	"go.uber.org/zap"

	"donation-core/internal/bootstrap"
	"donation-core/internal/server"
	"donation-core/internal/service/custody"
	"donation-core/internal/worker"
	"donation-core/internal/worker/tasks"
	"donation-core/pkg/config"
	"donation-core/pkg/logger"
)

// worker 进程: 消费 custody:confirm 任务，执行外部转账并回调 Resolve
func main() {
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()
	cfg := &config.Global

	if cfg.Custody.PendingStore != "redis" {
		logger.Fatal("donation-worker requires custody.pending_store=redis")
	}

	inf, err := bootstrap.Open(cfg)
	if err != nil {
		logger.Fatal("基础设施初始化失败", zap.Error(err))
	}
	defer inf.Close()

	c := server.NewContainer(server.Deps{
		Store:    inf.Store,
		Registry: inf.Registry,
		Cache:    inf.Cache,
		TokenTTL: cfg.Cache.TokenTTL,
		Custody:  cfg.Custody,
	})

	confirm := tasks.NewCustodyConfirmHandler(custody.SimulatedTransferer{}, c.Reconciler, cfg.Custody.SystemAccount)
	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := worker.NewServer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, concurrency, confirm)

	// asynq 自己处理 SIGTERM / SIGINT
	if err := srv.Run(); err != nil {
		logger.Fatal("Worker Server failed", zap.Error(err))
	}
}
