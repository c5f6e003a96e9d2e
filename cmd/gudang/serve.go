package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/gudang-pos/internal/metrics"
	"github.com/fekuna/gudang-pos/internal/operator"
	posH "github.com/fekuna/gudang-pos/internal/pos/handler"
	posUCPkg "github.com/fekuna/gudang-pos/internal/pos/usecase"
	"github.com/fekuna/gudang-pos/internal/printer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC terminal service and the metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	notify := printer.NotifierFunc(func(title, message string) {
		a.logger.Warn(title, zap.String("message", message))
	})
	session := a.components(ctx, a.currentSettings(), notify, nil)
	posUC := posUCPkg.NewPOSUseCase(session, a.logger, a.metrics)
	terminalHandler := posH.NewTerminalHandler(posUC, a.logger)

	// SIGHUP re-reads the settings file and swaps the session collaborators.
	// The CSV store is kept while its path is unchanged.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		store := session.Inventory
		for range hup {
			s, err := a.currentSettings().Reload(a.settingsPath)
			if err != nil {
				a.logger.Warn("settings reload failed, keeping current session", zap.Error(err))
				continue
			}
			a.setSettings(s)
			next := a.components(ctx, s, notify, store)
			store = next.Inventory
			posUC.Reload(next)
		}
	}()

	port := a.cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		a.logger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			operator.ContextInterceptor(),
			a.metrics.UnaryServerInterceptor(),
		),
	)
	posH.RegisterTerminalServer(grpcServer, terminalHandler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(posH.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: a.cfg.Server.MetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("Starting metrics server", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	a.logger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			a.logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	a.logger.Info("Server stopped")
	return nil
}
