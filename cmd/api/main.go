package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/app"
	"bookmeta/internal/book"
	"bookmeta/internal/config"
	"bookmeta/internal/httpx"
	"bookmeta/internal/observability"
	"bookmeta/internal/platform/logging"
	"bookmeta/internal/refresh"
	"bookmeta/internal/resolver"
)

const maxRequestBody = 1 << 20

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("cannot open database")
	}
	defer pool.Close()
	log.WithField("dsn", config.RedactDSN(cfg.DatabaseDSN)).Info("database connection OK")

	metrics := observability.NewMetrics()
	res := app.NewResolver(cfg, log, metrics)
	svc := app.NewServices(pool, cfg, res.Service, log, metrics)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	h := handlers{
		resolve: resolver.NewHTTPHandler(res.Service),
		books:   book.NewHTTPHandler(svc.Books),
		runs:    refresh.NewHTTPHandler(svc.Refresh),
		db:      svc.BookRepo,
		metrics: metrics,
	}

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: httpx.Chain(h.routes(),
			httpx.RequestIDMiddleware,
			httpx.RecoveryMiddleware(log),
			httpx.CORSMiddleware(cfg.CORSOrigins),
			httpx.SecurityHeadersMiddleware,
			httpx.RequestSizeLimitMiddleware(maxRequestBody),
			httpx.AccessLogMiddleware(log, metrics),
			limiter.Middleware,
		),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":  cfg.Addr,
		"tiers": res.Chain.Tiers(),
	}).Info("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server error")
	}
	<-drained

	log.Info("stopping refresh runs")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := svc.Refresh.Shutdown(stopCtx); err != nil {
		log.WithError(err).Warn("refresh runs did not stop in time")
	}
}
