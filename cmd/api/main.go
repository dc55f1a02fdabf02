package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/api"
	"github.com/illegalcall/wardrobe/internal/auth"
	"github.com/illegalcall/wardrobe/internal/config"
	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/storage"
	"github.com/illegalcall/wardrobe/internal/store"
	"github.com/illegalcall/wardrobe/internal/weather"
	"github.com/illegalcall/wardrobe/pkg/database"
	"github.com/illegalcall/wardrobe/pkg/kafka"
)

const demoPassword = "password123"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	// Load configuration
	cfg := config.LoadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server exited", "error", err)
		stop()
		os.Exit(1)
	}
}

// run wires the server from cfg and blocks until ctx is done or the server
// fails. Every opened client is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize database clients
	db, err := database.NewClients(ctx, cfg.Database.URL, database.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("initializing database clients: %w", err)
	}
	defer db.Close()

	var st store.Store
	if db.DB != nil {
		if err := db.CreateTables(ctx); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
		st = store.NewPostgresStore(db.DB)
		slog.Info("✅ Connected to PostgreSQL")
	} else {
		st = store.NewMemoryStore()
		slog.Warn("DATABASE_URL not set, using in-memory store")
	}

	if cfg.Database.SeedDemo {
		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}
		if err := store.SeedDemo(ctx, st, hash); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		slog.Info("Demo account ready", "email", store.DemoEmail)
	}

	var images storage.Storage
	var imageDir string
	switch cfg.Storage.Backend {
	case "s3":
		client, err := storage.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("creating S3 client: %w", err)
		}
		images = storage.NewS3Storage(client, cfg.Storage.S3Bucket, cfg.Storage.S3PublicURL)
		slog.Info("Storing images in S3", "bucket", cfg.Storage.S3Bucket)
	default:
		local, err := storage.NewLocalStorage(cfg.Storage.ImageDir)
		if err != nil {
			return fmt.Errorf("preparing image directory: %w", err)
		}
		images = local
		imageDir = local.Dir()
	}

	var provider weather.Provider = weather.NewWeatherstackProvider(cfg.Weather.APIKey, cfg.Weather.BaseURL)
	if db.Redis != nil {
		provider = weather.NewCachedProvider(provider, db.Redis, cfg.Redis.WeatherCacheTTL, logger)
		slog.Info("✅ Connected to Redis")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Broker != "" {
		producer, err := kafka.NewProducer(cfg.Kafka.Broker, cfg.Kafka.RetryMax, cfg.Kafka.RetryBackoff)
		if err != nil {
			return fmt.Errorf("creating Kafka producer: %w", err)
		}
		kp := events.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
		defer kp.Close()
		publisher = kp
		slog.Info("✅ Connected to Kafka")
	}

	// Create and start server
	server := api.NewServer(cfg, api.Deps{
		Store:      st,
		Storage:    images,
		Weather:    weather.NewService(provider, cfg.Weather.Timeout, logger),
		Stylist:    ai.NewChatStylist(cfg.Stylist.APIKey, cfg.Stylist.BaseURL, cfg.Stylist.Model),
		Classifier: ai.NewGeminiClassifier(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.Model, cfg.Vision.Timeout),
		Publisher:  publisher,
		Logger:     logger,
		ImageDir:   imageDir,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}
