package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcapi "github.com/clintrovert/prsummary/internal/api/grpc"
	"github.com/clintrovert/prsummary/internal/api/rest"
	"github.com/clintrovert/prsummary/internal/config"
	"github.com/clintrovert/prsummary/internal/github"
	"github.com/clintrovert/prsummary/internal/leader"
	"github.com/clintrovert/prsummary/internal/logging"
	"github.com/clintrovert/prsummary/internal/poller"
	"github.com/clintrovert/prsummary/internal/temporal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Initialize logger
	logger, err := logging.New(cfg.LogLevel, cmp.Or(cfg.LogFormat, "json"))
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	repositories, err := github.ParseRepositories(cfg.PollRepositories)
	if err != nil {
		logger.Fatal("invalid POLL_REPOSITORIES", zap.Error(err))
	}

	// Create Temporal client
	temporalClient, err := temporal.NewClient(cfg.TemporalAddress, cfg.TemporalNamespace, cfg.TaskQueue, logger)
	if err != nil {
		logger.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer temporalClient.Close()

	// Create REST API handler
	restHandler := rest.NewHandler(temporalClient, cfg.WebhookSecret, cfg.UpdateExisting, logger)

	// Create gRPC server
	grpcServer := grpcapi.NewServer(logger)

	// Setup REST API
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		restHandler.RegisterRoutes(r)
	})
	router.Get("/health", restHandler.Health)

	// Start REST server
	restAddr := fmt.Sprintf(":%s", cfg.RESTPort)
	restServer := &http.Server{
		Addr:              restAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting REST API server", zap.String("address", restAddr))
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	// Start gRPC server
	grpcAddr := fmt.Sprintf(":%s", cfg.GRPCPort)
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Fatal("failed to listen on gRPC port", zap.Error(err))
	}

	grpcSrv := grpc.NewServer()
	grpcServer.Register(grpcSrv)

	go func() {
		logger.Info("starting gRPC server", zap.String("address", grpcAddr))
		if err := grpcSrv.Serve(grpcListener); err != nil {
			logger.Fatal("failed to start gRPC server", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start orchestrator when repositories are configured for polling
	if len(repositories) > 0 {
		opts := []github.Option{github.WithRateLimit(cfg.RateLimit, max(1, int(cfg.RateLimit)))}
		if cfg.GitHubAPIURL != "" {
			opts = append(opts, github.WithBaseURL(cfg.GitHubAPIURL))
		}
		githubClient, err := github.NewClient(cfg.GitHubToken, logger, opts...)
		if err != nil {
			logger.Fatal("failed to create github client", zap.Error(err))
		}

		prPoller := poller.NewPoller(githubClient, repositories, cfg.PollInterval, logger)
		orchestrator := leader.NewOrchestrator(prPoller, temporalClient, cfg.UpdateExisting, logger)

		go func() {
			if err := orchestrator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("orchestrator failed", zap.Error(err))
			}
		}()
	} else {
		logger.Info("no repositories to poll, serving webhooks only")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	// Shutdown orchestrator
	cancel()

	// Shutdown servers
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("REST server shutdown", zap.Error(err))
	}
	grpcServer.Shutdown()
	grpcSrv.GracefulStop()

	logger.Info("shutdown complete")
}
