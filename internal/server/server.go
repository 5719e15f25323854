package server

import (
	"github.com/KhawajaJ/territorycycle/internal/auth"
	"github.com/KhawajaJ/territorycycle/internal/config"
	"github.com/KhawajaJ/territorycycle/internal/ride"
	"github.com/KhawajaJ/territorycycle/internal/session"
	"github.com/KhawajaJ/territorycycle/internal/stream"
	"github.com/KhawajaJ/territorycycle/internal/territory"
	"github.com/KhawajaJ/territorycycle/internal/unlock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	rides := ride.NewService(s.DB)
	unlocks := unlock.NewService(rides, s.Redis, s.Cfg.UnlockWindowDays, s.Cfg.UnlockThreshold)
	sessions := session.NewManager(rides, s.Stream, s.Cfg.MaxAccuracyM, s.Cfg.MinRidePoints)
	tiles := territory.NewService(s.DB, rides, unlocks, s.Stream)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	session.RegisterRoutes(s.App.Group("/sessions"), sessions, jwtMiddleware)
	ride.RegisterRoutes(s.App.Group("/rides"), rides, jwtMiddleware)
	unlock.RegisterRoutes(s.App.Group("/unlocks"), unlocks, jwtMiddleware)
	territory.RegisterRoutes(s.App.Group("/territory"), tiles, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
