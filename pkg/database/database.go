package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Clients holds the optional backing services. DB is nil when the API runs
// on the in-memory store and Redis is nil when weather caching is off.
type Clients struct {
	DB    *sqlx.DB
	Redis *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewClients(ctx context.Context, dbURL string, redisOpts RedisOptions) (*Clients, error) {
	clients := &Clients{}

	if dbURL != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		clients.DB = db
	}

	if redisOpts.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisOpts.Addr,
			Password: redisOpts.Password,
			DB:       redisOpts.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			clients.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		clients.Redis = redisClient
	}

	return clients, nil
}

var schema = []struct {
	table string
	ddl   string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		tier TEXT NOT NULL DEFAULT 'freemium',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`},
	{"user_profiles", `CREATE TABLE IF NOT EXISTS user_profiles (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
		morphology TEXT NOT NULL,
		skin_tone TEXT NOT NULL,
		preferred_styles TEXT[] NOT NULL DEFAULT '{}',
		size TEXT NOT NULL,
		color_palette TEXT[] NOT NULL DEFAULT '{}',
		restrictions TEXT[] NOT NULL DEFAULT '{}'
	);`},
	{"clothing_items", `CREATE TABLE IF NOT EXISTS clothing_items (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		color TEXT NOT NULL,
		material TEXT NOT NULL,
		formality INTEGER NOT NULL DEFAULT 3,
		image_path TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`},
	{"outfit_recommendations", `CREATE TABLE IF NOT EXISTS outfit_recommendations (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		color_palette TEXT[] NOT NULL DEFAULT '{}',
		justification TEXT NOT NULL,
		weather_context JSONB,
		event_type TEXT,
		is_favorite BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`},
	{"daily_usage", `CREATE TABLE IF NOT EXISTS daily_usage (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		recommendations_count INTEGER NOT NULL DEFAULT 0,
		UNIQUE (user_id, date)
	);`},
}

// CreateTables creates the schema if it does not exist yet.
func (c *Clients) CreateTables(ctx context.Context) error {
	for _, t := range schema {
		if _, err := c.DB.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.table, err)
		}
	}

	slog.Info("✅ Database tables are ready!")
	return nil
}

func (c *Clients) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
