package calendar

import (
	"time"
)

// Calendar represents metadata about a calendar
type Calendar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timezone,omitempty"`
}

// Source describes where a provider reads its feed from
type Source struct {
	CalendarID      string
	URL             string
	APIKey          string
	CredentialsFile string
	Username        string
	Password        string
	MaxResults      int64
	Timeout         time.Duration
}

// ID returns a stable identifier for the source, preferring the calendar ID
func (s Source) ID() string {
	if s.CalendarID != "" {
		return s.CalendarID
	}
	return s.URL
}

// RawDocument is an upstream feed document exactly as it was received
type RawDocument struct {
	Body        []byte
	ContentType string
}
