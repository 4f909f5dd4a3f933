package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/draymaster/hos-planner/internal/grpcapi"
	"github.com/draymaster/hos-planner/internal/httpapi"
	"github.com/draymaster/hos-planner/internal/repository"
	"github.com/draymaster/hos-planner/internal/routing"
	"github.com/draymaster/hos-planner/internal/service"
	"github.com/draymaster/hos-planner/shared/pkg/config"
	"github.com/draymaster/hos-planner/shared/pkg/database"
	"github.com/draymaster/hos-planner/shared/pkg/kafka"
	"github.com/draymaster/hos-planner/shared/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Service.Name, cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting hos-planner...")

	ctx := context.Background()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Errorw("Redis not reachable, plan cache disabled", "error", err)
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer eventProducer.Close()
	log.Info("Connected to Kafka")

	routingClient := routing.NewClient(
		cfg.Routing.ORSAPIKey,
		cfg.Routing.ORSBaseURL,
		cfg.Routing.ORSProfile,
		cfg.Routing.RequestTimeout,
	)

	tripPlanRepo := repository.NewPostgresTripPlanRepository(db)

	planService := service.NewPlanService(
		tripPlanRepo,
		routingClient,
		redisClient,
		eventProducer,
		log,
		cfg.Redis.PlanTTL,
	)

	grpcServer := grpcapi.NewServer(cfg.Service.Name, log)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalw("Failed to listen on gRPC port", "error", err, "port", cfg.Server.GRPCPort)
	}

	go func() {
		log.Infow("gRPC server listening", "port", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatalw("gRPC server failed", "error", err)
		}
	}()

	handler := httpapi.NewHandler(planService, log)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infow("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalw("HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down hos-planner...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("hos-planner stopped")
}
