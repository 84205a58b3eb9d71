package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

// WeekStart is the first column of every calendar grid
const WeekStart = time.Monday

const (
	gridRows    = 6
	daysPerWeek = 7
)

// ErrInvalidMonth is returned when a grid is requested for a month outside 1-12
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Date is a calendar date without a time of day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// AddDays returns the date n days after d (before, for negative n)
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// Weekday returns the day of the week of d
func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

// String formats d as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(time.DateOnly, string(text))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", text, err)
	}
	*d = DateOf(t)
	return nil
}

// midnight anchors d in UTC so day arithmetic never crosses a DST change
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// GridCell is one day of a month grid
type GridCell struct {
	Date    Date
	Day     int
	InMonth bool
	Events  []models.Event
}

// ParseWeekday maps a config value such as "monday" to a time.Weekday
func ParseWeekday(name string) (time.Weekday, error) {
	if name == "" {
		return WeekStart, nil
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return WeekStart, fmt.Errorf("unknown weekday: %s", name)
}

// WeekStartOf returns the first day of the week containing d
func WeekStartOf(d Date, weekStart time.Weekday) Date {
	offset := (int(d.Weekday()) - int(weekStart) + daysPerWeek) % daysPerWeek
	return d.AddDays(-offset)
}

// BuildGrid lays out the month as rows of seven days starting on WeekStart.
// events should be the surrounding window of the month so the spill-over
// days at either end are populated too.
func BuildGrid(year int, month time.Month, events []models.Event) ([][]GridCell, error) {
	return BuildGridWithWeekStart(year, month, WeekStart, events)
}

// BuildGridWithWeekStart is BuildGrid with an explicit first day of the week
func BuildGridWithWeekStart(year int, month time.Month, weekStart time.Weekday, events []models.Event) ([][]GridCell, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	// Index events by start date; appending keeps input order per day
	byDate := make(map[Date][]models.Event)
	for _, event := range events {
		date := DateOf(event.StartTime)
		byDate[date] = append(byDate[date], event)
	}

	current := WeekStartOf(Date{Year: year, Month: month, Day: 1}, weekStart)

	rows := make([][]GridCell, gridRows)
	for r := range rows {
		row := make([]GridCell, daysPerWeek)
		for c := range row {
			dayEvents := byDate[current]
			if dayEvents == nil {
				dayEvents = []models.Event{}
			}
			row[c] = GridCell{
				Date:    current,
				Day:     current.Day,
				InMonth: current.Year == year && current.Month == month,
				Events:  dayEvents,
			}
			current = current.AddDays(1)
		}
		rows[r] = row
	}

	return TrimRows(rows), nil
}

// TrimRows drops leading and trailing rows that contain no in-month cell.
// Rows between the first and last in-month row are always kept.
func TrimRows(rows [][]GridCell) [][]GridCell {
	start, end := 0, len(rows)
	for start < end && !hasInMonth(rows[start]) {
		start++
	}
	for end > start && !hasInMonth(rows[end-1]) {
		end--
	}
	return rows[start:end]
}

func hasInMonth(row []GridCell) bool {
	for _, cell := range row {
		if cell.InMonth {
			return true
		}
	}
	return false
}
