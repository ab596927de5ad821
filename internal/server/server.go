// Package server hosts the Driver API's HTTP admin surface (SPEC_FULL.md
// §2/§6): operator-facing endpoints that call a dynasty's Season Cycle
// Controller instead of the Driver API's direct Go call signature.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/mrab54/gridiron-dynasty/internal/config"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/season"
)

// Server represents the HTTP server.
type Server struct {
	app      *fiber.App
	config   *config.Config
	db       *database.DB
	registry *season.Registry
}

// New creates a new server instance over an already-loaded dynasty
// registry and database handle.
func New(cfg *config.Config, db *database.DB, registry *season.Registry) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               "Gridiron Dynasty Season Engine",
		DisableStartupMessage: cfg.Server.Environment == "production",
		ServerHeader:          "Gridiron-Season-Engine",
		StrictRouting:         true,
		CaseSensitive:         true,
		Immutable:             true,
		UnescapePath:          true,
		BodyLimit:             4 * 1024 * 1024, // 4MB
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		Concurrency:           256 * 1024,
		ErrorHandler:          customErrorHandler,
	})

	setupMiddleware(app, cfg)

	s := &Server{
		app:      app,
		config:   cfg,
		db:       db,
		registry: registry,
	}

	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures all middleware.
func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Server.Environment == "development",
	}))

	app.Use(requestid.New())

	if cfg.Server.Environment == "development" {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
			TimeFormat: "15:04:05.000",
		}))
	} else {
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			log.Info().
				Str("request_id", c.Locals("requestid").(string)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", c.Response().StatusCode()).
				Dur("latency", time.Since(start)).
				Str("ip", c.IP()).
				Msg("HTTP request")
			return err
		})
	}

	if cfg.Server.Environment == "development" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		}))
	}

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/ready", s.handleReady)

	api := s.app.Group("/api/v1")

	dynasties := api.Group("/dynasties/:dynastyId")
	dynasties.Post("/advance-day", s.handleAdvanceDay)
	dynasties.Post("/advance-week", s.handleAdvanceWeek)
	dynasties.Get("/standings", s.handleStandings)
	dynasties.Get("/playoff-bracket", s.handlePlayoffBracket)
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	log.Info().
		Str("address", addr).
		Str("environment", s.config.Server.Environment).
		Msg("starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler handles errors in a consistent way.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Error().
		Err(err).
		Str("request_id", c.Locals("requestid").(string)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("request error")

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"message": message,
			"code":    code,
		},
		"request_id": c.Locals("requestid"),
	})
}
