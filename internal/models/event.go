package models

import (
	"time"
)

// Event represents one calendar occurrence as read from the upstream feed.
// Events are built once with NewEvent and passed around by value.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MeetingLink *string   `json:"meeting_link"`
}

// NewEvent creates an Event from all of its fields at once.
// Optional text fields may be nil; start and end keep whatever
// location (UTC offset) the feed encoded.
func NewEvent(id string, summary, description, location *string, start, end time.Time, meetingLink *string) Event {
	return Event{
		ID:          id,
		Summary:     summary,
		Description: description,
		Location:    location,
		StartTime:   start,
		EndTime:     end,
		MeetingLink: meetingLink,
	}
}

// Title returns the summary or an empty string when the event has none
func (e Event) Title() string {
	if e.Summary == nil {
		return ""
	}
	return *e.Summary
}

// StartsIn reports whether the event starts in the given year and month,
// read in the start time's own offset
func (e Event) StartsIn(year int, month time.Month) bool {
	return e.StartTime.Year() == year && e.StartTime.Month() == month
}

// OptionalString returns nil for an empty string and a pointer to s otherwise
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FetchReport summarises one successful upstream feed fetch
type FetchReport struct {
	Provider   string        `json:"provider"`
	CalendarID string        `json:"calendar_id"`
	Bytes      int           `json:"bytes"`
	EventCount int           `json:"event_count"`
	FetchedAt  time.Time     `json:"fetched_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// NewFetchReport creates a FetchReport for a completed fetch
func NewFetchReport(provider, calendarID string, bytes, eventCount int, fetchedAt time.Time, duration time.Duration) *FetchReport {
	return &FetchReport{
		Provider:   provider,
		CalendarID: calendarID,
		Bytes:      bytes,
		EventCount: eventCount,
		FetchedAt:  fetchedAt,
		Duration:   duration,
	}
}
