package main

import (
	"context"

	"go.uber.org/zap"

	"donation-core/internal/bootstrap"
	"donation-core/internal/event"
	"donation-core/internal/feed"
	"donation-core/internal/server"
	"donation-core/internal/service"
	"donation-core/internal/service/custody"
	"donation-core/internal/service/mq"
	"donation-core/internal/worker"
	"donation-core/pkg/config"
	"donation-core/pkg/logger"
	"donation-core/pkg/validator"

	_ "donation-core/docs/swagger"
)

// @title Donation Core API
// @version 1.0
// @description Fundraising ledger: custody gateway, donation history, partner voting

// @host localhost:8080
// @BasePath /
func main() {
	// 0. 初始化 Config / Validator / Logger
	config.Init()
	validator.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()
	cfg := &config.Global

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. 基础设施
	inf, err := bootstrap.Open(cfg)
	if err != nil {
		logger.Fatal("基础设施初始化失败", zap.Error(err))
	}
	defer inf.Close()

	// 2. 业务服务
	c := server.NewContainer(server.Deps{
		Store:    inf.Store,
		Registry: inf.Registry,
		Cache:    inf.Cache,
		TokenTTL: cfg.Cache.TokenTTL,
		Custody:  cfg.Custody,
	})

	// 3. 确认回调派发方式
	if cfg.Custody.Dispatcher == "asynq" {
		logger.Info("custody confirmations dispatched through asynq")
		client := worker.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		c.Reconciler.UseDispatcher(worker.NewTaskDispatcher(client))
	} else {
		local := custody.NewLocalDispatcher(custody.SimulatedTransferer{}, c.Reconciler, cfg.Custody.SystemAccount, 1024)
		c.Reconciler.UseDispatcher(local)
		go local.Run(ctx)
	}

	// 4. 消息队列: outbox 中继 + 转账通知消费 + 实时推送
	memory := mq.NewMemoryBroker(1024)
	producer := inf.Producer(cfg, memory)
	defer producer.Close()

	relay := service.NewRelayService(inf.Store, producer, inf.Lock)
	go relay.Start(ctx)

	notifications := custody.NewNotificationConsumer(c.Gateway, inf.Consumer(cfg, memory, "donation_custody"))
	go func() {
		if err := notifications.Start(ctx); err != nil {
			logger.Error("notification consumer stopped", zap.Error(err))
		}
	}()

	hub := feed.NewHub()
	go hub.Run(ctx)
	go hub.Consume(ctx, inf.Consumer(cfg, memory, "donation_feed"), event.TopicDonationRecorded, event.TopicVoteCast)

	// 5. 定时任务
	cronService := service.NewCronService(inf.Lock, c.Reconciler, cfg.Custody.StaleAfter)
	cronService.Start()
	defer cronService.Stop()

	// 6. HTTP + gRPC
	r := server.NewHTTPRouter(c.Handler, hub)
	grpcServer, health := server.NewGRPCServer()

	app, err := server.New(server.Config{
		HttpPort: cfg.App.HttpPort,
		GrpcPort: cfg.App.GrpcPort,
	}, r, grpcServer, health)
	if err != nil {
		logger.Fatal("应用启动失败", zap.Error(err))
	}

	// 运行 (阻塞)
	app.Run(ctx)
	logger.Info("系统已退出")
}
