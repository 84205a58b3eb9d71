package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hacksoc/calendar-api/internal/models"
	"github.com/hacksoc/calendar-api/pkg/calendar"
)

// EventSource is the upstream feed as seen by the HTTP layer.
// *calendar.Manager satisfies it.
type EventSource interface {
	Raw(ctx context.Context) (*calendar.RawDocument, error)
	Events(ctx context.Context) ([]models.Event, error)
	HealthCheck(ctx context.Context) (*calendar.Calendar, error)
}

// Options tune the HTTP layer
type Options struct {
	// WeekStart is the first column of calendar grids
	WeekStart time.Weekday
	// Provider is reported by the health endpoint
	Provider string
}

// Server serves the calendar views over HTTP
type Server struct {
	source  EventSource
	options Options
	logger  *slog.Logger
	router  *gin.Engine
}

// New creates a server with its routes registered
func New(source EventSource, options Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		source:  source,
		options: options,
		logger:  logger,
		router:  gin.New(),
	}

	s.router.Use(
		requestID(),
		recovery(logger),
		cors(),
		accessLog(logger),
	)

	s.router.GET("/json", s.handleRaw)
	s.router.GET("/events/:year/:month", s.handleMonthEvents)
	s.router.GET("/events/:year/:month/calendar", s.handleMonthCalendar)
	s.router.GET("/health", s.handleHealth)

	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}
