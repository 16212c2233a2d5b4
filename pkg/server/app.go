package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgch "MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	pkgkafka "MarketBrief/pkg/kafka"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/queue"
)

// App encapsulates the application lifecycle: worker pool, HTTP server, and
// infrastructure clients.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	pool       *queue.Pool
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. producer may be nil
// when Kafka is not configured.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	pool *queue.Pool,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		chClient: chClient,
		producer: producer,
		handler:  handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.pool.Start()
	a.logger.Info("worker pool started", applogger.Int("workers", a.pool.Workers()))

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithRequestMetrics(a.logger, 2*time.Second))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no new work arrives, then drains
// the pool and closes infrastructure clients.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.pool.Stop()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
