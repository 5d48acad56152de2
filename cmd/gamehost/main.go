// Command gamehost runs a gameloop session against a registered driver.
//
// Configuration comes from the environment (and an optional .env file):
//
//	GAMELOOP_BACKEND=null GAMELOOP_FRAME_LIMIT=600 gamehost
//
// Prometheus metrics are served on METRICS_ADDR while the loop runs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/gameloop"
	"github.com/gogpu/gameloop/backend"
	_ "github.com/gogpu/gameloop/backend/null"
	_ "github.com/gogpu/gameloop/backend/wgpu"
	"github.com/gogpu/gameloop/internal/config"
	"github.com/gogpu/gameloop/internal/logging"
	"github.com/gogpu/gameloop/metrics"
	"github.com/gogpu/gameloop/steptimer"
)

func main() {
	os.Exit(start())
}

// start runs the host and returns the process exit code. Deferred cleanup
// runs before main exits.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gameloop.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("gamehost stopped", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	drv, err := backend.Lookup(cfg.Backend)
	if err != nil {
		return err
	}
	logger.Info("driver selected", "driver", drv.Name(), "available", backend.Available())

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	srv := startMetricsServer(cfg.MetricsAddr, reg, logger)
	defer shutdownMetricsServer(srv, cfg.ShutdownTimeout, logger)

	clock := clockwork.NewRealClock()
	var timerOpts []steptimer.Option
	if step := cfg.FrameInterval(); step > 0 {
		timerOpts = append(timerOpts, steptimer.WithFixedTimeStep(step))
	}

	session, err := gameloop.New(drv,
		gameloop.WithTimer(steptimer.New(clock, timerOpts...)),
		gameloop.WithMetrics(m),
		gameloop.WithDebugLayer(cfg.DebugLayer),
		gameloop.WithHooks(gameloop.Hooks{
			DeviceLost: func(err error) { logger.Warn("device lost", "error", err) },
		}),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Initialize(backend.WindowHandle(cfg.Window), cfg.Width, cfg.Height); err != nil {
		return err
	}
	logger.Info("session ready",
		"feature_level", session.FeatureLevel().String(),
		"width", cfg.Width,
		"height", cfg.Height,
	)

	ticker := clock.NewTicker(time.Second / time.Duration(cfg.TargetFPS))
	defer ticker.Stop()

	var frames int
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "frames", frames, "recoveries", session.Recoveries())
			return nil
		case <-ticker.Chan():
		}

		if err := session.Tick(); err != nil {
			return err
		}
		frames++
		if cfg.FrameLimit > 0 && frames >= cfg.FrameLimit {
			logger.Info("frame limit reached", "frames", frames, "recoveries", session.Recoveries())
			return nil
		}
	}
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdownMetricsServer(srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
}
