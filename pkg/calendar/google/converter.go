package google

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/hacksoc/calendar-api/internal/models"
)

// convertEvent converts a Google Calendar event to our internal Event model.
// Fields Google leaves out of the item become nil.
func convertEvent(item *calendar.Event) (models.Event, error) {
	startTime, err := parseEventTime(item.Start)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to parse start time: %w", err)
	}

	endTime, err := parseEventTime(item.End)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	return models.NewEvent(
		item.Id,
		models.OptionalString(item.Summary),
		models.OptionalString(item.Description),
		models.OptionalString(item.Location),
		startTime,
		endTime,
		models.OptionalString(meetingLink(item)),
	), nil
}

// meetingLink returns the event's Meet link, falling back to the first video
// entry point of its conference data
func meetingLink(item *calendar.Event) string {
	if item.HangoutLink != "" {
		return item.HangoutLink
	}
	if item.ConferenceData == nil {
		return ""
	}
	for _, entry := range item.ConferenceData.EntryPoints {
		if entry != nil && entry.EntryPointType == "video" && entry.Uri != "" {
			return entry.Uri
		}
	}
	return ""
}

// parseEventTime parses Google Calendar event time (handles both dateTime and date fields).
// Timed events keep the offset Google sent.
func parseEventTime(eventTime *calendar.EventDateTime) (time.Time, error) {
	if eventTime == nil {
		return time.Time{}, fmt.Errorf("event time is nil")
	}

	if eventTime.DateTime != "" {
		t, err := time.Parse(time.RFC3339, eventTime.DateTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse datetime: %w", err)
		}
		return t, nil
	}

	// All-day events
	if eventTime.Date != "" {
		t, err := time.Parse(time.DateOnly, eventTime.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}

		if eventTime.TimeZone != "" {
			loc, err := time.LoadLocation(eventTime.TimeZone)
			if err == nil {
				t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
			}
		}

		return t, nil
	}

	return time.Time{}, fmt.Errorf("no datetime or date field found")
}
