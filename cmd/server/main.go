package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	analyticscache "agora/internal/analytics/cache"
	analyticshandler "agora/internal/analytics/handler"
	analyticsmetrics "agora/internal/analytics/metrics"
	analyticsservice "agora/internal/analytics/service"
	analyticsstore "agora/internal/analytics/store"
	httpapi "agora/internal/http"
	"agora/internal/notification"
	petitionhandler "agora/internal/petition/handler"
	petitionmetrics "agora/internal/petition/metrics"
	petitionservice "agora/internal/petition/service"
	petitionstore "agora/internal/petition/store"
	"agora/internal/platform/config"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/logger"
	"agora/internal/platform/postgres"
	platformredis "agora/internal/platform/redis"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// Notification pipeline: transitions enqueue, the worker drains to Kafka
	// or, without a broker, to the log.
	inbox := make(chan notification.Event, 256)
	var sink notification.Sink
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := notification.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		sink = notification.NewLogSink(log)
	}
	worker := notification.NewWorker(sink, inbox, log)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("notification worker stopped", "error", err)
		}
	}()

	petitions, err := petitionservice.New(
		petitionstore.NewPostgres(pool),
		notification.NewPublisher(inbox, log),
		log,
		petitionservice.WithMetrics(petitionmetrics.New()),
		petitionservice.WithTransitionTimeout(cfg.TransitionTimeout),
	)
	if err != nil {
		log.Error("petition service init failed", "error", err)
		os.Exit(1)
	}

	analyticsOpts := []analyticsservice.Option{
		analyticsservice.WithMetrics(analyticsmetrics.New()),
		analyticsservice.WithTimeout(cfg.AnalyticsTimeout),
	}
	if redisClient != nil {
		defer redisClient.Close()
		analyticsOpts = append(analyticsOpts,
			analyticsservice.WithCache(analyticscache.NewRedis(redisClient.Client, cfg.BriefCacheTTL, log)))
	}
	analytics, err := analyticsservice.New(analyticsstore.NewPostgres(pool), log, analyticsOpts...)
	if err != nil {
		log.Error("analytics service init failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Petitions:     petitionhandler.New(petitions, log),
		Analytics:     analyticshandler.New(analytics, log),
		JWTSigningKey: []byte(cfg.JWTSigningKey),
		Logger:        log,
		Health: func(w http.ResponseWriter, r *http.Request) {
			if err := pool.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting agora", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
