// cmd/nlq-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nlq-gateway/internal/common/config"
	"nlq-gateway/internal/common/database"
	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/completion"
	"nlq-gateway/internal/invoice"
	"nlq-gateway/internal/nlq/orchestrator"
	"nlq-gateway/internal/nlq/renderer"
	"nlq-gateway/internal/nlq/synthesizer"
	"nlq-gateway/internal/server"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting NLQ gateway...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	// --- Warehouse connectivity with retry ---
	warehouse := database.NewWarehouse(cfg.Warehouse)
	err = retryWithBackoff(func() error {
		return warehouse.Ping(context.Background())
	}, 5, 2*time.Second, zapLog, "Warehouse connectivity check")
	if err != nil {
		zapLog.Fatal("warehouse unreachable", zap.Error(err))
	}
	zapLog.Info("Warehouse reachable",
		zap.String("host", cfg.Warehouse.Host),
		zap.String("database", cfg.Warehouse.Database),
	)

	// --- Completion client ---
	completer := completion.NewClient(completion.Config{
		Endpoint:       cfg.Completion.Endpoint,
		APIKey:         cfg.Completion.APIKey,
		Deployment:     cfg.Completion.Deployment,
		APIVersion:     cfg.Completion.APIVersion,
		ConnectTimeout: config.GetDuration(cfg.Completion.ConnectTimeout),
		RequestTimeout: config.GetDuration(cfg.Completion.RequestTimeout),
	}, log)

	// --- Pipeline ---
	synth := synthesizer.New(completer, log)
	summarizer := renderer.NewSummarizer(completer, log)
	pipeline := orchestrator.New(synth, warehouse, summarizer, log)

	// Redis is optional: without it consolidated summaries are recomputed
	// on every request.
	if cfg.Redis.Address != "" {
		redisClient, err := database.NewRedis(cfg.Redis)
		if err != nil {
			zapLog.Warn("Redis unavailable, consolidated summary caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			pipeline.WithCache(redisClient, config.GetDuration(cfg.Redis.SummaryTTL))
			zapLog.Info("Consolidated summary caching enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	// --- Invoice collaborator ---
	invoiceClient := invoice.NewClient(cfg.Invoice.BaseURL, config.GetDuration(cfg.Invoice.Timeout), log)
	invoiceResponder := invoice.NewResponder(invoiceClient, completer, log)

	// --- HTTP layer ---
	conversational := server.NewConversational(completer, log)
	srv := server.New(cfg.Server, cfg.App.Name, pipeline, invoiceResponder, conversational, log)
	httpServer := srv.HTTPServer()

	go func() {
		zapLog.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	go func() {
		metricsAddr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.Int("port", cfg.Server.MetricsPort))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
