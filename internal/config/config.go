package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Weather  WeatherConfig
	Stylist  AIConfig
	Vision   AIConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	MaxRequests     int
	RequestTimeout  time.Duration
	BodyLimit       int
	Environment     string
}

// DatabaseConfig selects the store. An empty URL runs on the in-memory store.
type DatabaseConfig struct {
	URL      string
	SeedDemo bool
}

// KafkaConfig configures the domain event producer. An empty broker disables it.
type KafkaConfig struct {
	Broker       string
	Topic        string
	RetryMax     int
	RetryBackoff time.Duration
}

// RedisConfig configures the weather cache. An empty address disables it.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	WeatherCacheTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type StorageConfig struct {
	Backend     string
	ImageDir    string
	MaxSize     int64
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PublicURL string
	S3AccessKey string
	S3SecretKey string
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AIConfig is shared by the stylist and the vision classifier.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            loadEnv("PORT", ":5000"),
			ShutdownTimeout: time.Duration(loadEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 5)) * time.Second,
			MaxRequests:     loadEnvAsInt("SERVER_MAX_REQUESTS", 100),
			RequestTimeout:  time.Duration(loadEnvAsInt("SERVER_REQUEST_TIMEOUT", 60)) * time.Second,
			BodyLimit:       loadEnvAsInt("SERVER_BODY_LIMIT", 12*1024*1024),
			Environment:     loadEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:      loadEnv("DATABASE_URL", ""),
			SeedDemo: loadEnvAsBool("SEED_DEMO", true),
		},
		Kafka: KafkaConfig{
			Broker:       loadEnv("KAFKA_BROKER", ""),
			Topic:        loadEnv("KAFKA_TOPIC", "wardrobe-events"),
			RetryMax:     loadEnvAsInt("KAFKA_RETRY_MAX", 5),
			RetryBackoff: time.Duration(loadEnvAsInt("KAFKA_RETRY_BACKOFF", 500)) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:            loadEnv("REDIS_ADDR", ""),
			Password:        loadEnv("REDIS_PASSWORD", ""),
			DB:              loadEnvAsInt("REDIS_DB", 0),
			WeatherCacheTTL: time.Duration(loadEnvAsInt("WEATHER_CACHE_TTL", 600)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:     loadEnv("JWT_SECRET", "ankhara-secret-key"),
			Expiration: time.Duration(loadEnvAsInt("JWT_EXPIRATION", 24)) * time.Hour,
		},
		Storage: StorageConfig{
			Backend:     loadEnv("STORAGE_BACKEND", "local"),
			ImageDir:    loadEnv("STORAGE_IMAGE_DIR", "./uploads"),
			MaxSize:     loadEnvAsInt64("STORAGE_MAX_SIZE", 10485760), // 10MB
			S3Bucket:    loadEnv("S3_BUCKET", ""),
			S3Region:    loadEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  loadEnv("S3_ENDPOINT", ""),
			S3PublicURL: loadEnv("S3_PUBLIC_URL", ""),
			S3AccessKey: loadEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: loadEnv("S3_SECRET_KEY", ""),
		},
		Weather: WeatherConfig{
			APIKey:  loadEnv("WEATHER_API_KEY", ""),
			BaseURL: loadEnv("WEATHER_BASE_URL", "http://api.weatherstack.com"),
			Timeout: time.Duration(loadEnvAsInt("WEATHER_TIMEOUT", 5)) * time.Second,
		},
		Stylist: AIConfig{
			APIKey:  loadEnv("STYLIST_API_KEY", ""),
			BaseURL: loadEnv("STYLIST_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   loadEnv("STYLIST_MODEL", "llama-3.3-70b-versatile"),
			Timeout: time.Duration(loadEnvAsInt("STYLIST_TIMEOUT", 30)) * time.Second,
		},
		Vision: AIConfig{
			APIKey:  loadEnv("VISION_API_KEY", ""),
			BaseURL: loadEnv("VISION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:   loadEnv("VISION_MODEL", "gemini-2.0-flash"),
			Timeout: time.Duration(loadEnvAsInt("VISION_TIMEOUT", 30)) * time.Second,
		},
	}
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsInt64(key string, defaultVal int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
