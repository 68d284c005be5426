// Package main implements the edgegate inference gateway.
// The gateway accepts inference requests, returns a prediction, keeps a
// bounded history of recent inferences and reports its health and uptime.
package main

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/HatiCode/edgegate/cmd/gateway/config"
	"github.com/HatiCode/edgegate/cmd/gateway/logger"
	"github.com/HatiCode/edgegate/cmd/gateway/metrics"
	"github.com/HatiCode/edgegate/cmd/gateway/predictor"
	"github.com/HatiCode/edgegate/cmd/gateway/publisher"
	"github.com/HatiCode/edgegate/cmd/gateway/router"
	"github.com/HatiCode/edgegate/pkg/gateway"
	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/httpx"
)

const version = "v0.1.0"

func main() {
	cfg := config.ParseFlags()

	log := logger.New(cfg)
	slog.SetDefault(log)

	instanceID := uuid.NewString()

	log.Info("starting edgegate gateway",
		"version", version,
		"instance_id", instanceID,
		"listen", cfg.Listen,
		"predictor", cfg.Predictor,
		"history_size", cfg.HistorySize,
	)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:        cfg.SentryDSN,
			Release:    "edgegate@" + version,
			ServerName: instanceID,
			SampleRate: cfg.SentrySample,
		}); err != nil {
			log.Error("failed to initialize sentry", "error", err)
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
		log.Info("sentry panic reporting enabled")
	}

	m := metrics.New()
	if err := metrics.RegisterHost(prometheus.DefaultRegisterer, log); err != nil {
		log.Warn("host metrics disabled", "error", err)
	}

	store, err := history.New(cfg.HistorySize)
	if err != nil {
		log.Error("failed to create history", "error", err)
		os.Exit(1)
	}

	pred, predCloser, err := predictor.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize predictor", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := predCloser.Close(); err != nil {
			log.Warn("failed to release predictor", "error", err)
		}
	}()

	pub, err := publisher.New(cfg, instanceID, log)
	if err != nil {
		log.Error("failed to initialize publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("failed to close publisher", "error", err)
		}
	}()

	gw := gateway.New(gateway.Options{
		History:       store,
		Predictor:     pred,
		Publisher:     pub,
		Observer:      m,
		Logger:        log,
		DefaultSample: cfg.DefaultSample,
	})

	api := httpx.Chain(gw,
		httpx.RequestIDMiddleware(),
		httpx.LoggingMiddleware(log),
		httpx.RecoveryMiddleware(log),
	)
	apiServer := httpx.NewServer(cfg.Listen, api, log)

	var ready atomic.Bool
	readyCheck := func() error {
		if !ready.Load() {
			return errors.New("gateway not ready")
		}
		return nil
	}

	var adminServer *httpx.Server
	if cfg.AdminListen != "" {
		adminMux := router.SetupRoutes(readyCheck, prometheus.DefaultGatherer, log)
		adminServer = httpx.NewServer(cfg.AdminListen, adminMux, log)
	}

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPCListen != "" {
		lis, err := net.Listen("tcp", cfg.GRPCListen)
		if err != nil {
			log.Error("failed to listen", "address", cfg.GRPCListen, "error", err)
			os.Exit(1)
		}

		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		reflection.Register(grpcServer)

		go func() {
			log.Info("grpc health server listening", "address", cfg.GRPCListen)
			if err := grpcServer.Serve(lis); err != nil {
				log.Error("grpc server failed", "error", err)
			}
		}()
	}

	serverErr := make(chan error, 2)
	go func() {
		serverErr <- apiServer.Start()
	}()
	if adminServer != nil {
		go func() {
			serverErr <- adminServer.Start()
		}()
	}
	ready.Store(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	exitCode := 0
	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
			exitCode = 1
		}
	}

	log.Info("shutting down", "uptime", gw.Uptime().Round(time.Millisecond))
	ready.Store(false)

	if healthServer != nil {
		healthServer.Shutdown()
		log.Info("shutting down grpc server")
		grpcServer.GracefulStop()
	}

	if err := apiServer.Stop(cfg.ShutdownTimeout); err != nil {
		log.Error("api server shutdown failed", "error", err)
		exitCode = 1
	}
	if adminServer != nil {
		if err := adminServer.Stop(cfg.ShutdownTimeout); err != nil {
			log.Error("admin server shutdown failed", "error", err)
			exitCode = 1
		}
	}

	log.Info("shutdown complete")

	if exitCode != 0 {
		// Deferred cleanup does not run after os.Exit, so release resources first.
		_ = pub.Close()
		_ = predCloser.Close()
		sentry.Flush(2 * time.Second)
		os.Exit(exitCode)
	}
}
