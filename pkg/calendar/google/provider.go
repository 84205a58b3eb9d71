package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/hacksoc/calendar-api/internal/models"
	calendarPkg "github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/retry"
)

const (
	// DefaultBaseURL is the Google Calendar v3 REST root
	DefaultBaseURL = "https://www.googleapis.com/calendar/v3/"

	defaultMaxResults = 2500
	defaultTimeout    = 30 * time.Second
)

// Provider reads a single Google Calendar's events list
type Provider struct {
	name       string
	calendarID string
	apiKey     string
	baseURL    string
	maxResults int64
	client     *http.Client
	service    *calendar.Service
	logger     *slog.Logger
	retryer    *retry.Retryer
}

// NewProvider creates a new Google Calendar provider
func NewProvider() *Provider {
	logger := slog.Default()
	return &Provider{
		name:    "Google Calendar",
		logger:  logger,
		retryer: retry.NewRetryer(nil, logger),
	}
}

// Name returns the human-readable name of the provider
func (p *Provider) Name() string {
	return p.name
}

// Type returns the provider type identifier
func (p *Provider) Type() string {
	return "google"
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

// Initialize sets up the Google Calendar provider. Authentication uses the
// service account credentials file when one is given, the API key otherwise.
func (p *Provider) Initialize(ctx context.Context, source calendarPkg.Source) error {
	if source.CalendarID == "" {
		return fmt.Errorf("calendar ID is required")
	}
	if source.APIKey == "" && source.CredentialsFile == "" {
		return fmt.Errorf("an API key or credentials file is required")
	}

	timeout := source.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	p.calendarID = source.CalendarID
	p.maxResults = source.MaxResults
	if p.maxResults <= 0 {
		p.maxResults = defaultMaxResults
	}

	p.baseURL = DefaultBaseURL
	if source.URL != "" {
		p.baseURL = strings.TrimSuffix(source.URL, "/") + "/"
	}

	opts := []option.ClientOption{option.WithEndpoint(p.baseURL)}
	if source.CredentialsFile != "" {
		client, err := serviceAccountClient(source.CredentialsFile, timeout)
		if err != nil {
			return err
		}
		p.client = client
		opts = append(opts, option.WithHTTPClient(client))
	} else {
		p.apiKey = source.APIKey
		p.client = &http.Client{Timeout: timeout}
		opts = append(opts, option.WithAPIKey(source.APIKey))
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("unable to create Calendar client: %w", err)
	}
	p.service = service

	p.logger.Info("Initialized Google Calendar provider",
		"calendar_id", p.calendarID,
		"auth", p.authMode())
	return nil
}

func (p *Provider) authMode() string {
	if p.apiKey != "" {
		return "api_key"
	}
	return "service_account"
}

// eventsURL builds the events list URL. withKey controls whether the API key
// is included, so the URL can be logged without it.
func (p *Provider) eventsURL(withKey bool) string {
	query := url.Values{}
	query.Set("singleEvents", "true")
	query.Set("maxResults", strconv.FormatInt(p.maxResults, 10))
	query.Set("orderBy", "startTime")
	if withKey && p.apiKey != "" {
		query.Set("key", p.apiKey)
	}
	return p.baseURL + "calendars/" + url.PathEscape(p.calendarID) + "/events?" + query.Encode()
}

// FetchRaw retrieves the events list document exactly as Google returns it
func (p *Provider) FetchRaw(ctx context.Context) (*calendarPkg.RawDocument, error) {
	if p.client == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}

	logURL := p.eventsURL(false)

	doc, err := retry.DoWithResult(ctx, p.retryer, func() (*calendarPkg.RawDocument, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.eventsURL(true), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		p.logger.Debug("Fetching Google Calendar events", "url", logURL)

		resp, err := p.client.Do(req)
		if err != nil {
			// url.Error embeds the request URL, which carries the key
			return nil, fmt.Errorf("HTTP request to %s failed: %w", logURL, unwrapURLError(err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			p.logger.Warn("HTTP error when fetching Google Calendar events",
				"url", logURL,
				"status_code", resp.StatusCode,
				"status", resp.Status)
			return nil, retry.NewHTTPError(resp.StatusCode, resp.Status, logURL)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		return &calendarPkg.RawDocument{
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events for calendar %s: %w", p.calendarID, err)
	}

	return doc, nil
}

// ParseEvents decodes an events list document. Items whose times cannot be
// read are skipped with a warning; an undecodable document is an error.
func (p *Provider) ParseEvents(doc *calendarPkg.RawDocument) ([]models.Event, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to parse")
	}

	var list calendar.Events
	if err := json.Unmarshal(doc.Body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode events list: %w", err)
	}

	events := make([]models.Event, 0, len(list.Items))
	for _, item := range list.Items {
		if item == nil || item.Status == "cancelled" {
			continue
		}
		event, err := convertEvent(item)
		if err != nil {
			p.logger.Warn("Skipping unreadable event",
				"event_id", item.Id,
				"error", err)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Describe returns the calendar's metadata
func (p *Provider) Describe(ctx context.Context) (*calendarPkg.Calendar, error) {
	if p.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}

	cal, err := p.service.Calendars.Get(p.calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar %s: %w", p.calendarID, err)
	}

	return &calendarPkg.Calendar{
		ID:          cal.Id,
		Name:        cal.Summary,
		Description: cal.Description,
		TimeZone:    cal.TimeZone,
	}, nil
}

// IsHealthy checks that the calendar is reachable with the configured credentials
func (p *Provider) IsHealthy(ctx context.Context) error {
	if p.service == nil {
		return fmt.Errorf("calendar service not initialized")
	}

	_, err := p.service.Events.List(p.calendarID).Context(ctx).MaxResults(1).Do()
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

// Close cleans up resources
func (p *Provider) Close() error {
	p.service = nil
	p.client = nil
	return nil
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
