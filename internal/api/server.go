package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v3"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/auth"
	"github.com/illegalcall/wardrobe/internal/config"
	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/metrics"
	"github.com/illegalcall/wardrobe/internal/recommendation"
	"github.com/illegalcall/wardrobe/internal/storage"
	"github.com/illegalcall/wardrobe/internal/store"
)

// Deps are the collaborators the server is built from.
type Deps struct {
	Store      store.Store
	Storage    storage.Storage
	Weather    recommendation.WeatherService
	Stylist    ai.Stylist
	Classifier ai.Classifier
	Publisher  events.Publisher
	Logger     *slog.Logger
	// ImageDir is served under /images when set.
	ImageDir string
}

type Server struct {
	app         *fiber.App
	cfg         *config.Config
	store       store.Store
	storage     storage.Storage
	weather     recommendation.WeatherService
	classifier  ai.Classifier
	recommender *recommendation.Service
	publisher   events.Publisher
	issuer      *auth.Issuer
	validate    *validator.Validate
	logger      *slog.Logger
	imageDir    string
	now         func() time.Time
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: errorHandler(deps.Logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())
	if cfg.Server.MaxRequests > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.MaxRequests,
			Expiration: cfg.Server.RequestTimeout,
		}))
	}

	server := &Server{
		app:         app,
		cfg:         cfg,
		store:       deps.Store,
		storage:     deps.Storage,
		weather:     deps.Weather,
		classifier:  deps.Classifier,
		recommender: recommendation.NewService(deps.Store, deps.Weather, deps.Stylist, cfg.Stylist.Timeout, deps.Publisher, deps.Logger),
		publisher:   deps.Publisher,
		issuer:      auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expiration),
		validate:    newValidator(),
		logger:      deps.Logger,
		imageDir:    deps.ImageDir,
		now:         time.Now,
	}

	// Routes
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/metrics", metrics.Handler())
	if s.imageDir != "" {
		s.app.Static("/images", s.imageDir, fiber.Static{MaxAge: 31536000})
	}

	api := s.app.Group("/api")

	// Public routes
	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)
	api.Get("/weather/:location", cache.New(cache.Config{
		Expiration:   10 * time.Minute,
		CacheControl: true,
	}), s.handleWeather)
	api.Post("/analyze-clothing", s.handleAnalyzeClothing)

	// Protected routes
	protected := api.Group("", jwtware.New(jwtware.Config{
		SigningKey:   []byte(s.cfg.JWT.Secret),
		ErrorHandler: jwtErrorHandler,
	}))
	protected.Get("/user/profile", s.handleGetProfile)
	protected.Post("/user/profile", s.handleSaveProfile)
	protected.Get("/user/clothing", s.handleListClothing)
	protected.Post("/user/clothing", s.handleCreateClothing)
	protected.Delete("/user/clothing/:id", s.handleDeleteClothing)
	protected.Get("/user/quota", s.handleQuota)
	protected.Post("/recommendations", s.handleGenerateRecommendations)
	protected.Get("/recommendations", s.handleListRecommendations)
	protected.Post("/recommendations/:id/favorite", s.handleToggleFavorite)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
