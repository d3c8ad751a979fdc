// cmd/evaluator/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"partner-evaluator/internal/common/config"
	"partner-evaluator/internal/common/inflight"
	"partner-evaluator/internal/common/logger"
	"partner-evaluator/internal/common/observability"
	"partner-evaluator/internal/evaluation/controller"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./configs/config.yaml)")
	targetURL := flag.String("url", "", "evaluate this URL and exit; without it URLs are read from stdin, one per line")
	format := flag.String("format", "text", "output format: text, markdown or html")
	flag.Parse()

	zapLog := logger.New(logger.Options{Level: "info", Format: "console", Output: "stderr"})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	write, err := surfaceWriter(*format)
	if err != nil {
		zapLog.Fatal("invalid output format", zap.Error(err))
	}

	zapLog = logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting partner evaluator",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("backend", cfg.Backend.PredictURL()),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	deps, err := controller.FromConfig(cfg, obs, log)
	if err != nil {
		zapLog.Fatal("controller setup failed", zap.Error(err))
	}

	if rg, ok := deps.Guard.(*inflight.RedisGuard); ok {
		err = retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return rg.Ping(pingCtx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rg.Close()
		zapLog.Info("Redis in-flight guard connected")
	}

	ctrl, err := controller.New(deps)
	if err != nil {
		zapLog.Fatal("controller setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Health & Metrics Server ---
	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = &http.Server{Addr: cfg.Metrics.Address, Handler: newMux(ctrl, cfg)}
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	exitCode := 0
	if *targetURL != "" {
		if err := evaluate(ctx, ctrl, *targetURL, write, os.Stdout); err != nil {
			exitCode = 1
		}
	} else {
		runLoop(ctx, ctrl, os.Stdin, write, os.Stdout)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
		}
		cancel()
	}

	zapLog.Info("Partner evaluator stopped")
	if exitCode != 0 {
		zapLog.Sync()
		obs.Shutdown()
		os.Exit(exitCode)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// evaluate runs one attempt and prints the resulting surface.
func evaluate(ctx context.Context, ctrl *controller.Controller, url string, write writeFunc, out io.Writer) error {
	err := ctrl.Submit(ctx, url)
	if werr := write(out, ctrl.View().Snapshot()); werr != nil {
		return werr
	}
	return err
}

// runLoop submits every stdin line until EOF or ctx is cancelled. Blank
// lines are submitted too and print the empty-URL message.
func runLoop(ctx context.Context, ctrl *controller.Controller, in io.Reader, write writeFunc, out io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			_ = evaluate(ctx, ctrl, line, write, out)
		}
	}
}
