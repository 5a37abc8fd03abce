package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskstream/backend/api/handler"
	"github.com/taskstream/backend/internal/config"
	"github.com/taskstream/backend/internal/infrastructure/monitor"
	"github.com/taskstream/backend/internal/infrastructure/prefs"
	redisInfra "github.com/taskstream/backend/internal/infrastructure/redis"
	"github.com/taskstream/backend/internal/router"
	"github.com/taskstream/backend/internal/services"
	"github.com/taskstream/backend/internal/services/lifecycle"
	"github.com/taskstream/backend/pkg/httpcontext"
	"github.com/taskstream/backend/pkg/logger"
	redisRepo "github.com/taskstream/backend/repository/redis"
	engineUC "github.com/taskstream/backend/usecase/lifecycle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	prefStore, err := prefs.Open(cfg.Prefs.Path, "preferences")
	if err != nil {
		zapLogger.Fatal("failed to open preference store", zap.Error(err))
	}
	manager.Register("preferences", func(ctx context.Context) error {
		return prefStore.Close()
	})

	mon := monitor.New(redisClient, prefStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskStore := redisRepo.NewTaskStore(redisClient, cfg.Store.Collection, zapLogger)
	notifier := services.NewRedisNotifier(redisClient, cfg.Store.NotificationsChannel, zapLogger)

	engine := engineUC.New(taskStore, notifier, zapLogger)
	if err := engine.Start(appCtx); err != nil {
		zapLogger.Fatal("snapshot subscription failed", zap.Error(err))
	}

	alarms := services.NewAlarmScheduler(engine, cfg.Alarm.TickInterval, zapLogger)
	alarms.Start()

	// The subscription and the alarm tick are the engine's only two event
	// sources; tear them down together so neither acts on a disposed engine.
	manager.Register("engine", func(ctx context.Context) error {
		alarms.Stop(ctx)
		engine.Close()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:       apiHandler.NewTaskHandler(engine, ctxAdapter, zapLogger),
		Preference: apiHandler.NewPreferenceHandler(prefStore, cfg.Prefs.DarkModeDefault, ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
