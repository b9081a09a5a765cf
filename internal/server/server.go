package server

import (
	"errors"
	"net/url"
	"time"

	"github.com/suranovab/hw05-final/internal/auth"
	"github.com/suranovab/hw05-final/internal/cache"
	"github.com/suranovab/hw05-final/internal/config"
	"github.com/suranovab/hw05-final/internal/follow"
	"github.com/suranovab/hw05-final/internal/groups"
	"github.com/suranovab/hw05-final/internal/posts"
	"github.com/suranovab/hw05-final/internal/shared/apperr"
	"github.com/suranovab/hw05-final/internal/storage"
	"github.com/suranovab/hw05-final/internal/stream"
	"github.com/suranovab/hw05-final/internal/web"

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
	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: errorHandler,
	})
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

	s.App.Use(auth.LoadViewer(s.Cfg.JWTSecret))
	requireLogin := auth.RequireLogin()

	groupSvc := groups.NewService(s.DB)
	postSvc := posts.NewService(s.DB, groupSvc, s.Stream)

	indexCache := cache.New(s.Redis, time.Duration(s.Cfg.IndexCacheSeconds)*time.Second)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	groups.RegisterRoutes(s.App.Group("/groups"), groupSvc, requireLogin)
	posts.RegisterRoutes(s.App, postSvc, requireLogin, indexCache)
	follow.RegisterRoutes(s.App, follow.NewService(s.DB), requireLogin)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), requireLogin)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	// everything else gets the custom not-found page
	s.App.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{})
	}
	if errors.Is(err, apperr.ErrUnauthorized) {
		return c.Redirect("/auth/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}
	return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
}
