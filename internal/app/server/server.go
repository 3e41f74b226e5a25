package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tinylink-io/linklite/internal/app/repository"
	"github.com/tinylink-io/linklite/internal/app/service"
	"github.com/tinylink-io/linklite/internal/http/cache"
	inthttp "github.com/tinylink-io/linklite/internal/http/handler"
	"github.com/tinylink-io/linklite/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server needs.
type Dependencies struct {
	Logger         *zap.Logger
	Postgres       *pgxpool.Pool
	Redis          *redis.Client
	Links          repository.LinkRepository
	Users          repository.UserRepository
	Sessions       *service.SessionService
	ClickPublisher *service.ClickPublisher
	Codes          *cache.CodeFilter
	HomeURL        string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates the HTTP server with its middleware chain and routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{app: app, deps: deps}
	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())
	if s.deps.Redis != nil {
		s.app.Use(middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger))
	}
}

func (s *Server) registerRoutes() {
	linkService := service.NewLinkService(s.deps.Links)
	resolver := service.NewResolver(s.deps.Links, s.deps.Logger)
	authService := service.NewAuthService(s.deps.Users, s.deps.Sessions)

	authHandler := inthttp.NewAuthHandler(inthttp.AuthDeps{
		Logger: s.deps.Logger,
		Auth:   authService,
	})
	authHandler.Register(s.app)

	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:      s.deps.Logger,
		LinkService: linkService,
		Sessions:    s.deps.Sessions,
		Codes:       s.deps.Codes,
	})
	apiHandler.Register(s.app)

	// The catch-all /:code route goes last.
	redirectHandler := inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:         s.deps.Logger,
		Resolver:       resolver,
		Codes:          s.deps.Codes,
		ClickPublisher: s.deps.ClickPublisher,
		Postgres:       s.deps.Postgres,
		HomeURL:        s.deps.HomeURL,
	})
	redirectHandler.Register(s.app)
}
