package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"gofriends/internal/common"
	"gofriends/internal/relationship"
	"gofriends/internal/relationship/handler"
	"gofriends/internal/wire"
	"gofriends/pkg/logger"
)

func main() {
	envErr := godotenv.Load()
	logger.Init()
	defer logger.Sync()
	if envErr != nil {
		logger.Info(".env file not found, using system env variables")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app, cleanup, err := wire.InitializeApplication()
	if err != nil {
		logger.Fatal("Failed to initialize application", err)
	}
	defer cleanup()
	logger.Info("Dependencies wired successfully",
		"sync_backend", app.Config.Sync.Backend,
		"shards", app.Config.Sync.Shards,
		"master", app.Config.Sync.Master,
	)

	logger.Info("Warming relationship cache from store")
	stats, err := app.Resyncer.Resync(ctx, relationship.AllAccounts, nil)
	if err != nil {
		logger.Fatal("Initial resync failed", err)
	}
	logger.Info("Cache warmed", "friendships", stats.Friendships, "requests", stats.Requests, "took", stats.Duration)
	go app.Resyncer.Run(ctx, app.Config.Sync.ResyncInterval)
	app.StartConsumers(ctx)

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			common.AuthInterceptor(app.Issuer, nil),
			common.RateLimitInterceptor(app.Limiter, handler.WriteMethods),
		),
	)
	handler.RegisterRelationshipServiceServer(server, app.Handler)
	reflection.Register(server)

	listener, err := net.Listen("tcp", app.Config.GRPCAddr())
	if err != nil {
		logger.Fatal("Failed to listen on "+app.Config.GRPCAddr(), err)
	}
	go func() {
		logger.Info("Relationship service listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil {
			logger.Fatal("Failed to serve gRPC", err)
		}
	}()

	adminServer := &http.Server{
		Addr:           app.Config.AdminAddr(),
		Handler:        loggingMiddleware(app.Admin),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   5 * time.Minute,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		logger.Info("Admin server listening", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Admin server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Admin server forced to shutdown", "error", err)
	}
	server.GracefulStop()

	// cleanup closes the queue, which drains pending intents before the
	// consumer context is canceled.
	logger.Info("Relationship service stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Admin request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}
