// cmd/rtupoller/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rtu-poller/internal/config"
	"github.com/tamzrod/rtu-poller/internal/logging"
	"github.com/tamzrod/rtu-poller/internal/poller"
	"github.com/tamzrod/rtu-poller/internal/report"
	"github.com/tamzrod/rtu-poller/internal/status"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: rtupoller <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer logger.Sync()

	// --------------------
	// Build engine
	// --------------------

	engine, devices, err := poller.Build(cfg.Devices, logger)
	if err != nil {
		logger.Fatal("engine build failed", zap.Error(err))
	}

	// Operator abort is a clean termination, not a fault.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting poll",
		zap.Int("devices", len(devices)),
		zap.Int("interval_ms", cfg.Poll.IntervalMs),
	)

	if cfg.Poll.IntervalMs == 0 {
		runOnce(ctx, engine, devices, logger)
		return
	}

	runLoop(ctx, engine, devices, time.Duration(cfg.Poll.IntervalMs)*time.Millisecond, logger)
}

func runOnce(ctx context.Context, engine *poller.Engine, devices []poller.Device, logger *zap.Logger) {
	results, err := engine.PollAll(ctx, devices)
	deliver(results, logger)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("poll cycle interrupted")
			return
		}
		logger.Error("poll cycle failed", zap.Error(err))
		os.Exit(1)
	}
}

func runLoop(ctx context.Context, engine *poller.Engine, devices []poller.Device, interval time.Duration, logger *zap.Logger) {
	out := make(chan []poller.DeviceResult)

	go engine.Run(ctx, devices, interval, out)

	for {
		select {
		case <-ctx.Done():
			logger.Info("poller stopped")
			return
		case results := <-out:
			deliver(results, logger)
		}
	}
}

func deliver(results []poller.DeviceResult, logger *zap.Logger) {
	for _, res := range results {
		fmt.Print(report.Render(res))

		snap := status.Build(res)
		logger.Info("device polled",
			zap.String("device", snap.Device),
			zap.Uint16("health", snap.Health),
			zap.Int("reads", snap.TotalReads),
			zap.Int("failed", snap.FailedReads),
		)
	}
}
