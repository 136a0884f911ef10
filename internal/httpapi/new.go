package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the minutes pipeline over HTTP
type Server struct {
	app      *fiber.App
	runner   Runner
	validate *validator.Validate
	logger   logger.Logger
}

// New builds the fiber app. bodyLimit caps the request size in bytes; zero
// keeps fiber's default.
func New(runner Runner, gatherer prometheus.Gatherer, log logger.Logger, bodyLimit int) *Server {
	s := &Server{
		runner:   runner,
		validate: validator.New(),
		logger:   log,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestLogger())

	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := s.app.Group("/v1")
	v1.Post("/minutes", s.createMinutes)

	return s
}

// App exposes the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}
