// Command server starts the interview assistant HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crisp-ai/interview-assistant/internal/adapter/ai/groq"
	"github.com/crisp-ai/interview-assistant/internal/adapter/httpserver"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/app"
	"github.com/crisp-ai/interview-assistant/internal/config"
	"github.com/crisp-ai/interview-assistant/internal/policy"
	"github.com/crisp-ai/interview-assistant/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register Prometheus metrics once per process so /metrics exposes HTTP,
	// AI, and fallback instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	if !cfg.AIEnabled() {
		slog.Warn("GROQ_API_KEY not set; all operations will use deterministic fallbacks")
	}

	aicl := groq.New(cfg)
	pol := policy.Default()

	srv := httpserver.NewServer(cfg,
		usecase.NewQuestionService(aicl, pol),
		usecase.NewRatingService(aicl),
		usecase.NewSummaryService(aicl),
	)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
