package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Thanapat2004/FoodOrder/internal/cache"
	"github.com/Thanapat2004/FoodOrder/internal/events"
	h "github.com/Thanapat2004/FoodOrder/internal/http"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
	"github.com/Thanapat2004/FoodOrder/internal/service"
	"github.com/Thanapat2004/FoodOrder/internal/storage"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	KafkaBrokers    string
	ImageDir        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	DB              *repository.Credentials
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		ImageDir:        getEnv("IMAGE_DIR", "./storage"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		DB: &repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "foodorder"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("foodorder starting...")
	cfg := loadConfig()

	repo, err := repository.NewRepository(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	imageStore, err := storage.NewLocalStore(cfg.ImageDir)
	if err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	publisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
	defer publisher.Close()

	catalogService := service.NewCatalogService(repo, cache.NewRedisCache(redisClient))
	aggregator := service.NewCartAggregator(catalogService)
	orderService := service.NewOrderService(aggregator, repo, publisher)
	reviewService := service.NewReviewService(repo, imageStore)

	router := h.NewRouter(
		h.NewOrderHandler(orderService),
		h.NewReviewHandler(reviewService),
		h.NewCatalogHandler(catalogService),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "foodorder"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("foodorder listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
