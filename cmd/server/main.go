package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/session"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	source, cleanup, err := buildCatalogSource(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize catalog source: %v", err)
	}
	defer cleanup()
	log.Printf("Catalog source initialized: %s", cfg.Catalog.Source)

	var cache catalog.Cache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	if err != nil {
		log.Printf("Redis unavailable, running without catalog cache: %v", err)
	} else {
		cache = redisClient
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	sessions := session.NewManager(source, cache, eventPublisher, cfg.Images.ProbeTimeout)
	defer sessions.Shutdown()

	checkoutService := service.NewCheckoutService(eventPublisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	resultConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout, cfg.Kafka.ConsumerGroup)
	resultWorker := worker.NewCheckoutResultWorker(resultConsumer, sessions)
	go func() {
		if err := resultWorker.Start(workerCtx); err != nil {
			log.Printf("Checkout result worker error: %v", err)
		}
	}()

	processorConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout, "checkout-processor-group")
	processorWorker := worker.NewCheckoutProcessorWorker(processorConsumer, checkoutService)
	go func() {
		if err := processorWorker.Start(workerCtx); err != nil {
			log.Printf("Checkout processor worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(sessions)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	resultWorker.Stop()
	processorWorker.Stop()

	log.Println("Server exited")
}

// buildCatalogSource selects the remote catalog collaborator implementation.
func buildCatalogSource(cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case "postgres":
		src, err := catalog.NewPGSource(cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		src := catalog.NewHTTPSource(cfg.Catalog.BaseURL, cfg.Catalog.FetchTimeout)
		return src, func() {}, nil
	}
}
