package google

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	calendarPkg "github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/retry"
)

const eventsFixture = `{
  "kind": "calendar#events",
  "summary": "HackSoc",
  "timeZone": "Europe/London",
  "items": [
    {
      "id": "talk",
      "status": "confirmed",
      "summary": "Intro to Git",
      "location": "Room 101",
      "start": {"dateTime": "2018-10-05T18:00:00Z"},
      "end": {"dateTime": "2018-10-05T20:00:00Z"}
    },
    {
      "id": "social",
      "status": "confirmed",
      "summary": "Pub social",
      "description": "Bring a friend",
      "start": {"dateTime": "2019-07-01T19:00:00+01:00"},
      "end": {"dateTime": "2019-07-01T23:00:00+01:00"}
    },
    {
      "id": "cancelled",
      "status": "cancelled",
      "start": {"dateTime": "2019-07-02T19:00:00Z"},
      "end": {"dateTime": "2019-07-02T20:00:00Z"}
    },
    {
      "id": "broken",
      "status": "confirmed",
      "summary": "No end",
      "start": {"dateTime": "2019-07-03T19:00:00Z"}
    }
  ]
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T, status int) (*httptest.Server, *http.Request) {
	t.Helper()
	var last http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		if status != http.StatusOK {
			http.Error(w, "upstream error", status)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		switch r.URL.Path {
		case "/calendars/cal1":
			w.Write([]byte(`{"id": "cal1", "summary": "HackSoc", "timeZone": "Europe/London"}`))
		default:
			w.Write([]byte(eventsFixture))
		}
	}))
	t.Cleanup(server.Close)
	return server, &last
}

func initProvider(t *testing.T, serverURL string) *Provider {
	t.Helper()
	provider := NewProvider()
	provider.SetLogger(testLogger())

	err := provider.Initialize(context.Background(), calendarPkg.Source{
		CalendarID: "cal1",
		APIKey:     "secret-key",
		URL:        serverURL,
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return provider
}

func TestProviderIdentity(t *testing.T) {
	provider := NewProvider()
	if provider.Name() != "Google Calendar" {
		t.Errorf("Expected name 'Google Calendar', got %s", provider.Name())
	}
	if provider.Type() != "google" {
		t.Errorf("Expected type 'google', got %s", provider.Type())
	}
}

func TestInitialize_Validation(t *testing.T) {
	tests := []struct {
		name    string
		source  calendarPkg.Source
		wantErr string
	}{
		{"missing calendar ID", calendarPkg.Source{APIKey: "key"}, "calendar ID"},
		{"missing credentials", calendarPkg.Source{CalendarID: "cal1"}, "API key or credentials file"},
		{"unreadable credentials", calendarPkg.Source{CalendarID: "cal1", CredentialsFile: "/nonexistent/sa.json"}, "credentials file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewProvider().Initialize(context.Background(), tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFetchRaw(t *testing.T) {
	server, last := newTestServer(t, http.StatusOK)
	provider := initProvider(t, server.URL)

	doc, err := provider.FetchRaw(context.Background())
	if err != nil {
		t.Fatalf("FetchRaw() error = %v", err)
	}

	if string(doc.Body) != eventsFixture {
		t.Error("Expected the document to be returned unmodified")
	}
	if doc.ContentType != "application/json; charset=UTF-8" {
		t.Errorf("Unexpected content type: %s", doc.ContentType)
	}

	if last.URL.Path != "/calendars/cal1/events" {
		t.Errorf("Unexpected request path: %s", last.URL.Path)
	}
	query := last.URL.Query()
	expected := map[string]string{
		"singleEvents": "true",
		"maxResults":   "2500",
		"orderBy":      "startTime",
		"key":          "secret-key",
	}
	for name, want := range expected {
		if got := query.Get(name); got != want {
			t.Errorf("Expected %s=%s, got %s", name, want, got)
		}
	}
}

func TestFetchRaw_HTTPError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusForbidden)
	provider := initProvider(t, server.URL)

	_, err := provider.FetchRaw(context.Background())
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}

	var httpErr *retry.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected HTTPError with status 403, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("API key leaked into error: %v", err)
	}
}

func TestFetchRaw_NotInitialized(t *testing.T) {
	if _, err := NewProvider().FetchRaw(context.Background()); err == nil {
		t.Error("Expected error from uninitialized provider")
	}
}

func TestParseEvents(t *testing.T) {
	provider := NewProvider()
	provider.SetLogger(testLogger())

	events, err := provider.ParseEvents(&calendarPkg.RawDocument{Body: []byte(eventsFixture)})
	if err != nil {
		t.Fatalf("ParseEvents() error = %v", err)
	}

	// cancelled and unreadable items are dropped
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].ID != "talk" || events[1].ID != "social" {
		t.Errorf("Unexpected events: %s, %s", events[0].ID, events[1].ID)
	}
	if events[0].Description != nil {
		t.Error("Expected missing description to be nil")
	}
	if events[1].Description == nil || *events[1].Description != "Bring a friend" {
		t.Errorf("Unexpected description: %v", events[1].Description)
	}
	if _, offset := events[1].StartTime.Zone(); offset != 3600 {
		t.Errorf("Expected +01:00 offset to be preserved, got %d", offset)
	}
}

func TestParseEvents_InvalidDocument(t *testing.T) {
	provider := NewProvider()

	if _, err := provider.ParseEvents(&calendarPkg.RawDocument{Body: []byte("<html>")}); err == nil {
		t.Error("Expected error for non-JSON document")
	}
	if _, err := provider.ParseEvents(nil); err == nil {
		t.Error("Expected error for nil document")
	}
}

func TestDescribeAndHealth(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK)
	provider := initProvider(t, server.URL)

	cal, err := provider.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if cal.ID != "cal1" || cal.Name != "HackSoc" || cal.TimeZone != "Europe/London" {
		t.Errorf("Unexpected calendar: %+v", cal)
	}

	if err := provider.IsHealthy(context.Background()); err != nil {
		t.Errorf("IsHealthy() error = %v", err)
	}

	if err := provider.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := provider.IsHealthy(context.Background()); err == nil {
		t.Error("Expected closed provider to be unhealthy")
	}
}
