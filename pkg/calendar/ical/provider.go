package ical

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
	calendarPkg "github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/retry"
)

const defaultTimeout = 30 * time.Second

// Provider reads a published iCalendar feed using the arran4/golang-ical library
type Provider struct {
	name     string
	url      string
	username string
	password string
	client   *http.Client
	logger   *slog.Logger
	retryer  *retry.Retryer
}

// NewProvider creates a new iCal provider
func NewProvider() *Provider {
	logger := slog.Default()

	return &Provider{
		name: "iCal",
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:  logger,
		retryer: retry.NewRetryer(nil, logger),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.name
}

// Type returns the provider type identifier
func (p *Provider) Type() string {
	return "ical"
}

// SetLogger sets the logger for this provider
func (p *Provider) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// SetRetryer replaces the retry policy used for feed fetches
func (p *Provider) SetRetryer(retryer *retry.Retryer) {
	if retryer != nil {
		p.retryer = retryer
	}
}

// Initialize sets up the iCal provider with the feed URL and optional basic
// auth credentials
func (p *Provider) Initialize(ctx context.Context, source calendarPkg.Source) error {
	if source.URL == "" {
		return fmt.Errorf("iCal URL is required")
	}

	p.url = source.URL
	p.username = source.Username
	p.password = source.Password
	if source.Timeout > 0 {
		p.client.Timeout = source.Timeout
	}

	p.logger.Info("Initialized iCal provider",
		"url", p.url,
		"basic_auth", p.username != "")
	return nil
}

// FetchRaw retrieves the feed document with retry logic
func (p *Provider) FetchRaw(ctx context.Context) (*calendarPkg.RawDocument, error) {
	if p.url == "" {
		return nil, fmt.Errorf("iCal provider not initialized")
	}

	doc, err := retry.DoWithResult(ctx, p.retryer, func() (*calendarPkg.RawDocument, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "text/calendar,application/calendar")
		req.Header.Set("User-Agent", "calendar-api/1.0")
		if p.username != "" {
			req.SetBasicAuth(p.username, p.password)
		}

		p.logger.Debug("Fetching iCal data", "url", p.url)

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			p.logger.Warn("HTTP error when fetching iCal data",
				"url", p.url,
				"status_code", resp.StatusCode,
				"status", resp.Status)
			return nil, retry.NewHTTPError(resp.StatusCode, resp.Status, p.url)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		p.logger.Debug("Successfully fetched iCal data",
			"url", p.url,
			"content_length", len(body))

		return &calendarPkg.RawDocument{
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch iCal data: %w", err)
	}

	return doc, nil
}

// ParseEvents converts a fetched iCalendar document into events
func (p *Provider) ParseEvents(doc *calendarPkg.RawDocument) ([]models.Event, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to parse")
	}
	return ParseICalData(doc.Body, p.url, p.logger)
}

// Describe fetches the feed and reports its calendar name, if it publishes one
func (p *Provider) Describe(ctx context.Context) (*calendarPkg.Calendar, error) {
	doc, err := p.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	name, description, timeZone, err := calendarProperties(doc.Body)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "iCal Calendar"
	}

	return &calendarPkg.Calendar{
		ID:          p.url,
		Name:        name,
		Description: description,
		TimeZone:    timeZone,
	}, nil
}

// IsHealthy performs a health check by attempting to fetch calendar data
func (p *Provider) IsHealthy(ctx context.Context) error {
	if _, err := p.FetchRaw(ctx); err != nil {
		return fmt.Errorf("iCal health check failed: %w", err)
	}
	return nil
}

// Close cleans up resources
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
