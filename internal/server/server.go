package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holidaymanager"
)

// Server is the HTTP API of the holiday calendar
type Server struct {
	app      *fiber.App
	config   *config.Config
	manager  *holidaymanager.Manager
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates the HTTP server and registers its routes
func New(cfg *config.Config, manager *holidaymanager.Manager, logger *zap.Logger) *Server {
	s := &Server{
		config:   cfg,
		manager:  manager,
		validate: validator.New(),
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "holiday-calendar",
		ReadTimeout:           cfg.Server.GetReadTimeout(),
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.requestLogger())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")
	api.Get("/holidays", s.handleHolidays)
	api.Get("/calendar", s.handleCalendar)
	api.Get("/calendar.ics", s.handleCalendarICS)

	auth := s.adminAuth()
	api.Get("/get-all-holidays", auth, s.handleGetAll)
	api.Post("/scrape-holidays", auth, s.handleScrape)
	api.Post("/save-approved-holidays", auth, s.handleSave)
	api.Post("/update-holiday", auth, s.handleUpdate)
	api.Post("/bulk-update-holidays", auth, s.handleBulkUpdate)
	api.Post("/translate-holidays", auth, s.handleTranslate)
	api.Post("/delete-holidays", auth, s.handleDelete)
	api.Post("/delete-all-holidays", auth, s.handleDeleteAll)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown
func (s *Server) Listen() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.config.Server.Addr))
	return s.app.Listen(s.config.Server.Addr)
}

// Shutdown stops accepting connections and waits for active requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
