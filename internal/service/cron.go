package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"donation-core/internal/service/custody"
	"donation-core/pkg/logger"
	"donation-core/pkg/utils/lock"
)

const sweepLockKey = "cron:lock:sweep_pending"

// StaleSweeper 报告长时间未解决的托管操作
type StaleSweeper interface {
	SweepStale(ctx context.Context, olderThan time.Duration) ([]custody.PendingOperation, error)
}

type CronService struct {
	cron       *cron.Cron
	locker     lock.DistributedLock
	sweeper    StaleSweeper
	staleAfter time.Duration
}

func NewCronService(locker lock.DistributedLock, sweeper StaleSweeper, staleAfter time.Duration) *CronService {
	// 标准配置 (分钟级)
	c := cron.New()
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &CronService{
		cron:       c,
		locker:     locker,
		sweeper:    sweeper,
		staleAfter: staleAfter,
	}
}

func (s *CronService) Start() {
	_, _ = s.cron.AddFunc("@every 1m", func() { s.SweepPending(context.Background()) })

	s.cron.Start()
	logger.Info("Cron Service started")
}

func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron Service stopped")
}

// SweepPending 巡检挂起操作，返回本次发现的超时条数; 没拿到锁时返回 -1
func (s *CronService) SweepPending(ctx context.Context) int {
	// 防止多实例同时执行
	locked, err := s.locker.Acquire(ctx, sweepLockKey, 30*time.Second)
	if err != nil || !locked {
		logger.Debug("SweepPending: 获取锁失败或已有实例在运行")
		return -1
	}
	defer s.locker.Release(ctx, sweepLockKey)

	stale, err := s.sweeper.SweepStale(ctx, s.staleAfter)
	if err != nil {
		logger.Error("SweepPending failed", zap.Error(err))
		return 0
	}
	if len(stale) > 0 {
		logger.Warn("stale custody operations found", zap.Int("count", len(stale)))
	}
	return len(stale)
}
