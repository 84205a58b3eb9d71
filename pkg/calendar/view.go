package calendar

import (
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

// Layouts used for the human readable parts of an EventView
const (
	humanTimeLayout = "15:04"
	shortDateLayout = "02/01/2006"
	longDateLayout  = "Monday 2 January 2006"
)

// RawWhen holds the precise start and end instants
type RawWhen struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HumanWhen holds start and end rendered for display
type HumanWhen struct {
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	ShortStartDate string `json:"short_start_date"`
	ShortEndDate   string `json:"short_end_date"`
	LongStartDate  string `json:"long_start_date"`
	LongEndDate    string `json:"long_end_date"`
}

// EventView is the JSON shape of an event served by every endpoint
type EventView struct {
	WhenRaw     RawWhen   `json:"when_raw"`
	WhenHuman   HumanWhen `json:"when_human"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	MeetingLink *string   `json:"meeting_link"`
}

// CellView is the JSON shape of one calendar grid cell
type CellView struct {
	Date    Date        `json:"date"`
	Day     int         `json:"day"`
	InMonth bool        `json:"in_month"`
	Events  []EventView `json:"events"`
}

// ToView converts an event to its serialised form. Times are rendered
// in the event's own offset; absent text fields stay nil.
func ToView(event models.Event) EventView {
	return EventView{
		WhenRaw: RawWhen{
			Start: event.StartTime,
			End:   event.EndTime,
		},
		WhenHuman: HumanWhen{
			StartTime:      event.StartTime.Format(humanTimeLayout),
			EndTime:        event.EndTime.Format(humanTimeLayout),
			ShortStartDate: event.StartTime.Format(shortDateLayout),
			ShortEndDate:   event.EndTime.Format(shortDateLayout),
			LongStartDate:  event.StartTime.Format(longDateLayout),
			LongEndDate:    event.EndTime.Format(longDateLayout),
		},
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		MeetingLink: event.MeetingLink,
	}
}

// ToViews converts a list of events, always returning a non-nil slice
func ToViews(events []models.Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, ToView(event))
	}
	return views
}

// ToCalendarView converts grid rows to their serialised form
func ToCalendarView(rows [][]GridCell) [][]CellView {
	out := make([][]CellView, 0, len(rows))
	for _, row := range rows {
		cells := make([]CellView, 0, len(row))
		for _, cell := range row {
			cells = append(cells, CellView{
				Date:    cell.Date,
				Day:     cell.Day,
				InMonth: cell.InMonth,
				Events:  ToViews(cell.Events),
			})
		}
		out = append(out, cells)
	}
	return out
}
