// Package httpapi exposes the ingestion pipeline over HTTP.
package httpapi

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

// Server wraps the Fiber app and the pipeline it fronts.
type Server struct {
	App      *fiber.App
	pipeline *bankfeed.Pipeline
	store    store.Store
	log      *logrus.Logger
}

// New creates a server with middleware and routes configured.
func New(pipeline *bankfeed.Pipeline, st store.Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return jsonError(c, code, message)
		},
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		pipeline: pipeline,
		store:    st,
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.App.Get("/health", s.health)
	s.App.Get("/debug/detect", s.detect)
	s.App.Post("/ingest", s.ingest)
	s.App.Get("/banks", s.banks)
	s.App.Get("/data/status", s.dataStatus)
	s.App.Get("/data/export", s.dataExport)
	s.App.Delete("/data/clear", s.dataClear)
}

// Start listens on addr until the server shuts down.
func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("starting http server")
	return s.App.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
