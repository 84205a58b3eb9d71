package server

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hacksoc/calendar-api/pkg/calendar"
)

var numeric = regexp.MustCompile(`^\d+$`)

const defaultContentType = "application/json"

func errorBody(message string) gin.H {
	return gin.H{"error": message}
}

// parseYearMonth reads the :year and :month path parameters. Both must be
// plain digit strings that fit in an int.
func parseYearMonth(c *gin.Context) (int, time.Month, bool) {
	yearParam, monthParam := c.Param("year"), c.Param("month")
	if !numeric.MatchString(yearParam) || !numeric.MatchString(monthParam) {
		return 0, 0, false
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil {
		return 0, 0, false
	}

	return year, time.Month(month), true
}

func (s *Server) upstreamFailed(c *gin.Context, err error) {
	s.logger.Error("Failed to fetch calendar",
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
		"error", err)
	c.JSON(http.StatusBadGateway, errorBody("failed to fetch calendar"))
}

// handleRaw passes the upstream document through unmodified
func (s *Server) handleRaw(c *gin.Context) {
	doc, err := s.source.Raw(c.Request.Context())
	if err != nil {
		s.upstreamFailed(c, err)
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	c.Data(http.StatusOK, contentType, doc.Body)
}

func (s *Server) handleMonthEvents(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody("provide numbers"))
		return
	}

	events, err := s.source.Events(c.Request.Context())
	if err != nil {
		s.upstreamFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, calendar.ToViews(calendar.SelectMonth(events, year, month)))
}

func (s *Server) handleMonthCalendar(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody("provide numbers"))
		return
	}

	events, err := s.source.Events(c.Request.Context())
	if err != nil {
		s.upstreamFailed(c, err)
		return
	}

	window := calendar.SelectSurrounding(events, year, month)
	grid, err := calendar.BuildGridWithWeekStart(year, month, s.options.WeekStart, window)
	if errors.Is(err, calendar.ErrInvalidMonth) {
		c.JSON(http.StatusBadRequest, errorBody("invalid month"))
		return
	}
	if err != nil {
		s.logger.Error("Failed to build calendar grid", "year", year, "month", int(month), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
		return
	}

	c.JSON(http.StatusOK, calendar.ToCalendarView(grid))
}

func (s *Server) handleHealth(c *gin.Context) {
	cal, err := s.source.HealthCheck(c.Request.Context())
	if err != nil {
		s.logger.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"provider": s.options.Provider,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.options.Provider,
		"calendar": cal,
	})
}
