package ical

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/hacksoc/calendar-api/internal/models"
)

// defaultDuration is applied to events that carry no DTEND
const defaultDuration = time.Hour

// ParseICalData parses an iCalendar document into events. Events that cannot
// be converted are skipped with a warning. Recurrence rules are not expanded:
// a recurring VEVENT yields its first occurrence only.
func ParseICalData(data []byte, source string, logger *slog.Logger) ([]models.Event, error) {
	if logger == nil {
		logger = slog.Default()
	}

	calendar, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse iCal data: %w", err)
	}

	vevents := calendar.Events()
	events := make([]models.Event, 0, len(vevents))
	for _, vevent := range vevents {
		event, err := ConvertVEvent(vevent)
		if err != nil {
			logger.Warn("Failed to convert iCal event",
				"error", err,
				"event_id", vevent.Id(),
				"source", source)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// ConvertVEvent converts an ics.VEvent to our internal Event model
func ConvertVEvent(vevent *ics.VEvent) (models.Event, error) {
	id := vevent.Id()
	if id == "" {
		return models.Event{}, fmt.Errorf("event missing UID")
	}

	startTime, err := vevent.GetStartAt()
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to parse start time: %w", err)
	}

	endTime, err := vevent.GetEndAt()
	if err != nil {
		endTime = startTime.Add(defaultDuration)
	}

	return models.NewEvent(
		id,
		propertyValue(vevent, ics.ComponentPropertySummary),
		propertyValue(vevent, ics.ComponentPropertyDescription),
		propertyValue(vevent, ics.ComponentPropertyLocation),
		startTime,
		endTime,
		propertyValue(vevent, ics.ComponentPropertyUrl),
	), nil
}

func propertyValue(vevent *ics.VEvent, property ics.ComponentProperty) *string {
	prop := vevent.GetProperty(property)
	if prop == nil {
		return nil
	}
	return models.OptionalString(prop.Value)
}

// calendarProperties reads the X-WR-* naming properties some publishers
// attach to the VCALENDAR
func calendarProperties(data []byte) (name, description, timeZone string, err error) {
	calendar, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse iCal data: %w", err)
	}

	for _, prop := range calendar.CalendarProperties {
		switch prop.IANAToken {
		case "X-WR-CALNAME":
			name = prop.Value
		case "X-WR-CALDESC":
			description = prop.Value
		case "X-WR-TIMEZONE":
			timeZone = prop.Value
		}
	}
	return name, description, timeZone, nil
}
