// Package server assembles the HTTP application: services, handlers,
// middleware and routes over a database, media store and event publisher.
package server

import (
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/routes"
	"github.com/vidtube/backend/internal/services"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type Deps struct {
	DB     *gorm.DB
	Media  media.Store
	Events events.Publisher

	// Optional.
	LimiterStorage fiber.Storage
	TracerProvider trace.TracerProvider
	Metrics        *middleware.Metrics
	Sentry         bool
	AccessLog      bool
}

func New(cfg *config.Config, deps Deps) *fiber.App {
	var engineOpts []query.Option
	if deps.TracerProvider != nil {
		engineOpts = append(engineOpts, query.WithTracerProvider(deps.TracerProvider))
	}
	engine := query.New(deps.DB, engineOpts...)
	publisher := deps.Events
	if publisher == nil {
		publisher = events.Noop{}
	}

	// Services
	tokens := services.NewTokenService(cfg)
	authService := services.NewAuthService(deps.DB, tokens, deps.Media, publisher)
	userService := services.NewUserService(deps.DB, engine, deps.Media)
	videoService := services.NewVideoService(deps.DB, engine, deps.Media, publisher)

	// Handlers
	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, tokens, cfg.CookieSecure),
		Users:         handlers.NewUserHandler(userService),
		Videos:        handlers.NewVideoHandler(videoService),
		Comments:      handlers.NewCommentHandler(services.NewCommentService(deps.DB, engine)),
		Tweets:        handlers.NewTweetHandler(services.NewTweetService(deps.DB, engine)),
		Likes:         handlers.NewLikeHandler(services.NewLikeService(deps.DB, engine)),
		Playlists:     handlers.NewPlaylistHandler(services.NewPlaylistService(deps.DB, engine)),
		Subscriptions: handlers.NewSubscriptionHandler(services.NewSubscriptionService(deps.DB, engine, publisher)),
		Dashboard:     handlers.NewDashboardHandler(services.NewDashboardService(deps.DB, engine)),
		Health:        handlers.NewHealthHandler(deps.DB),
	}

	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 512
	}
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	if deps.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, h, routes.Options{
		Tokens:         tokens,
		UserService:    userService,
		Metrics:        deps.Metrics,
		LimiterStorage: deps.LimiterStorage,
	})

	slog.Debug("http application assembled", "body_limit_mb", bodyLimit)
	return app
}
