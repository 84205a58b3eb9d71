package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

// Provider defines the interface that all calendar feed implementations must satisfy
type Provider interface {
	// Name returns the human-readable name of the calendar provider
	Name() string

	// Type returns the provider type identifier (e.g., "google", "ical")
	Type() string

	// SetLogger sets the logger used by the provider
	SetLogger(logger *slog.Logger)

	// Initialize sets up the provider for the given feed source
	Initialize(ctx context.Context, source Source) error

	// FetchRaw retrieves the upstream feed document unmodified
	FetchRaw(ctx context.Context) (*RawDocument, error)

	// ParseEvents converts a fetched document into events
	ParseEvents(doc *RawDocument) ([]models.Event, error)

	// Describe returns metadata about the feed's calendar
	Describe(ctx context.Context) (*Calendar, error)

	// IsHealthy performs a health check on the calendar provider
	IsHealthy(ctx context.Context) error

	// Close cleans up any resources used by the provider
	Close() error
}

// ProviderFactory creates calendar providers based on configuration
type ProviderFactory interface {
	// CreateProvider creates a new calendar provider instance
	CreateProvider(providerType string) (Provider, error)

	// SupportedTypes returns a list of supported provider types
	SupportedTypes() []string
}

// FetchNotifier is told about every successful upstream fetch
type FetchNotifier interface {
	PublishFetchReport(ctx context.Context, report *models.FetchReport) error
}

// Manager fronts the single configured feed provider. It holds no event
// state: every call goes to the upstream feed.
type Manager struct {
	provider Provider
	source   Source
	notifier FetchNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a manager for an initialized provider.
// notifier may be nil.
func NewManager(provider Provider, source Source, notifier FetchNotifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		provider: provider,
		source:   source,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Provider returns the underlying provider
func (m *Manager) Provider() Provider {
	return m.provider
}

// Raw fetches the upstream document without interpreting it
func (m *Manager) Raw(ctx context.Context) (*RawDocument, error) {
	m.logger.Debug("Fetching raw feed", "provider_type", m.provider.Type())

	doc, err := m.provider.FetchRaw(ctx)
	if err != nil {
		m.logger.Error("Failed to fetch raw feed",
			"provider_type", m.provider.Type(),
			"error", err)
		return nil, err
	}

	return doc, nil
}

// Events fetches the feed and parses every event in it
func (m *Manager) Events(ctx context.Context) ([]models.Event, error) {
	start := m.now()

	doc, err := m.Raw(ctx)
	if err != nil {
		return nil, err
	}

	events, err := m.provider.ParseEvents(doc)
	if err != nil {
		m.logger.Error("Failed to parse feed",
			"provider_type", m.provider.Type(),
			"bytes", len(doc.Body),
			"error", err)
		return nil, err
	}

	elapsed := m.now().Sub(start)
	m.logger.Debug("Fetched events from provider",
		"provider_type", m.provider.Type(),
		"event_count", len(events),
		"duration", elapsed)

	if m.notifier != nil {
		report := models.NewFetchReport(m.provider.Type(), m.source.ID(), len(doc.Body), len(events), start, elapsed)
		if err := m.notifier.PublishFetchReport(ctx, report); err != nil {
			// The response does not depend on the notification
			m.logger.Warn("Failed to publish fetch report", "error", err)
		}
	}

	return events, nil
}

// HealthCheck reports the provider's health and calendar metadata
func (m *Manager) HealthCheck(ctx context.Context) (*Calendar, error) {
	if err := m.provider.IsHealthy(ctx); err != nil {
		return nil, err
	}
	return m.provider.Describe(ctx)
}

// Close closes the provider
func (m *Manager) Close() error {
	return m.provider.Close()
}
