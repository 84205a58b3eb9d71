package calendar

import (
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func testEvent(id, summary string, start, end time.Time) models.Event {
	return models.NewEvent(id, models.OptionalString(summary), nil, nil, start, end, nil)
}

// sampleEvents is a feed spanning May 2019 to January 2020, deliberately
// not in start order
func sampleEvents() []models.Event {
	return []models.Event{
		testEvent("june", "Event in June", utc(2019, time.June, 14, 17), utc(2019, time.June, 14, 18)),
		testEvent("may", "Event in May", utc(2019, time.May, 21, 13), utc(2019, time.May, 21, 14)),
		testEvent("july2", "Event in July 2", utc(2019, time.July, 5, 14), utc(2019, time.July, 5, 15)),
		testEvent("july1", "Event in July 1", utc(2019, time.July, 1, 12), utc(2019, time.July, 1, 15)),
		testEvent("december", "Event in December", utc(2019, time.December, 15, 12), utc(2019, time.December, 15, 15)),
		testEvent("january", "Event in January", utc(2020, time.January, 1, 11), utc(2020, time.January, 1, 12)),
	}
}

func titles(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.Title())
	}
	return out
}
