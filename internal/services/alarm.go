package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskstream/backend/usecase/lifecycle"
)

// AlarmScheduler drives the engine's alarm pass on a single fixed-period
// schedule. One timer covers every task; per-deadline timers are avoided on
// purpose so suspended execution only delays an alarm instead of losing it.
type AlarmScheduler struct {
	engine   *lifecycle.Engine
	logger   *zap.Logger
	cron     *cron.Cron
	interval time.Duration
}

// NewAlarmScheduler builds a scheduler ticking at the given interval,
// defaulting to one second.
func NewAlarmScheduler(engine *lifecycle.Engine, interval time.Duration, logger *zap.Logger) *AlarmScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	as := &AlarmScheduler{
		engine:   engine,
		logger:   logger,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = as.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		as.engine.Tick(ctx)
	})

	return as
}

// Start launches the cron scheduler.
func (as *AlarmScheduler) Start() {
	if as == nil || as.cron == nil {
		return
	}
	as.cron.Start()
	as.logger.Info("alarm scheduler started", zap.Duration("interval", as.interval))
}

// Stop gracefully stops the scheduler, waiting for an in-flight tick.
func (as *AlarmScheduler) Stop(ctx context.Context) {
	if as == nil || as.cron == nil {
		return
	}
	stopCtx := as.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	as.logger.Info("alarm scheduler stopped")
}
