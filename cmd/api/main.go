package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"devtasker/configs"
	v1 "devtasker/internal/api/v1"
	"devtasker/internal/config"
	"devtasker/pkg/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "init loggers: %v\n", err)
		os.Exit(1)
	}
	logger.SystemLogger.Info("Starting application",
		zap.String("env", cfg.AppEnv),
		zap.String("store", cfg.StoreDriver),
	)

	ctx := context.Background()
	deps, err := config.Build(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Error("Startup failed", zap.Error(err))
		logger.SyncLoggers()
		os.Exit(1)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go deps.Hub.Run(hubCtx)

	app := v1.NewApp(deps)
	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
		"hub": func(ctx context.Context) error {
			stopHub()
			return nil
		},
		"storage": func(ctx context.Context) error {
			return deps.Close()
		},
	})

	code, err := serve(app, cfg.HTTPAddr, wait)
	if err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
		stopHub()
		if err := deps.Close(); err != nil {
			logger.ErrorLogger.Error("Close storage", zap.Error(err))
		}
	}
	logger.SystemLogger.Info("Application stopped", zap.Int("exit_code", code))
	logger.SyncLoggers()
	os.Exit(code)
}

// serve listens on addr until shutdown yields an exit code. A listen failure ends
// it at once with code 1 and the error.
func serve(app *fiber.App, addr string, shutdown <-chan int) (int, error) {
	listenErr := make(chan error, 1)
	go func() {
		logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			listenErr <- err
		}
	}()

	select {
	case code := <-shutdown:
		return code, nil
	case err := <-listenErr:
		return 1, err
	}
}
