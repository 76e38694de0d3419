package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cineshelf/cineshelf/internal/config"
	"github.com/cineshelf/cineshelf/pkg/events"
	"github.com/cineshelf/cineshelf/pkg/logger"
	"github.com/cineshelf/cineshelf/pkg/tracing"
)

const serviceName = "cineshelf-worker"

// The worker tails the activity topic and keeps a running count per
// event type, exposed on /metrics for dashboards.
func main() {
	cfg := config.Load()

	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	tp, err := tracing.InitTracer(serviceName, cfg.JaegerURL)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Fatal().Msg("KAFKA_BROKERS is required for the worker")
	}

	activityTotal := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cineshelf",
		Name:      "activity_events_total",
		Help:      "Activity events consumed, by event type.",
	}, []string{"event_type"})

	consumer, err := events.NewConsumer(cfg.KafkaBrokers, serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	record := func(ctx context.Context, event events.ActivityEvent) error {
		activityTotal.WithLabelValues(event.EventType).Inc()
		logger.Info(ctx).
			Str("event_type", event.EventType).
			Str("event_id", event.EventID).
			Uint("user_id", event.UserID).
			Uint("entity_id", event.EntityID).
			Str("detail", event.Detail).
			Msg("Activity recorded")
		return nil
	}
	consumer.On(events.EventTypeUserRegistered, record)
	consumer.On(events.EventTypeMovieCreated, record)
	consumer.On(events.EventTypeReviewCreated, record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Metrics server failed")
		}
	}()
	logger.Logger.Info().Str("port", cfg.HTTPPort).Msg("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Metrics server shutdown failed")
	}
}
