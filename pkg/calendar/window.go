package calendar

import (
	"slices"
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

// SelectMonth returns the events starting in the given year and month,
// sorted ascending by start time. Month membership is judged in each
// event's own offset, not in UTC.
func SelectMonth(events []models.Event, year int, month time.Month) []models.Event {
	selected := make([]models.Event, 0)
	for _, event := range events {
		if event.StartsIn(year, month) {
			selected = append(selected, event)
		}
	}

	slices.SortStableFunc(selected, func(a, b models.Event) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return selected
}

// AdjacentMonths returns the months before and after year/month,
// rolling the year over at January and December
func AdjacentMonths(year int, month time.Month) (prevYear int, prevMonth time.Month, nextYear int, nextMonth time.Month) {
	prevYear, prevMonth = year, month-1
	if prevMonth < time.January {
		prevYear, prevMonth = year-1, time.December
	}

	nextYear, nextMonth = year, month+1
	if nextMonth > time.December {
		nextYear, nextMonth = year+1, time.January
	}

	return prevYear, prevMonth, nextYear, nextMonth
}

// SelectSurrounding returns the events of the month before, the month itself
// and the month after, in that order. Each block is sorted on its own; the
// result is not one global sort.
func SelectSurrounding(events []models.Event, year int, month time.Month) []models.Event {
	prevYear, prevMonth, nextYear, nextMonth := AdjacentMonths(year, month)

	selected := SelectMonth(events, prevYear, prevMonth)
	selected = append(selected, SelectMonth(events, year, month)...)
	selected = append(selected, SelectMonth(events, nextYear, nextMonth)...)

	return selected
}
