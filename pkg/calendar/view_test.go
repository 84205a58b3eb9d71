package calendar

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hacksoc/calendar-api/internal/models"
)

func TestToView_HumanFields(t *testing.T) {
	event := testEvent("july1", "Event in July 1", utc(2019, time.July, 1, 12), time.Date(2019, time.July, 1, 15, 5, 0, 0, time.UTC))
	view := ToView(event)

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"start_time", view.WhenHuman.StartTime, "12:00"},
		{"end_time", view.WhenHuman.EndTime, "15:05"},
		{"short_start_date", view.WhenHuman.ShortStartDate, "01/07/2019"},
		{"short_end_date", view.WhenHuman.ShortEndDate, "01/07/2019"},
		{"long_start_date", view.WhenHuman.LongStartDate, "Monday 1 July 2019"},
		{"long_end_date", view.WhenHuman.LongEndDate, "Monday 1 July 2019"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.field, tt.want, tt.got)
		}
	}
}

func TestToView_LongDate(t *testing.T) {
	view := ToView(testEvent("december", "Event in December", utc(2019, time.December, 15, 12), utc(2019, time.December, 15, 15)))

	long := view.WhenHuman.LongStartDate
	if !strings.HasPrefix(long, "Sunday") {
		t.Errorf("Expected long date to start with weekday, got %q", long)
	}
	if !strings.Contains(long, "15") || !strings.Contains(long, "2019") {
		t.Errorf("Expected long date to contain day and year, got %q", long)
	}
	if long != "Sunday 15 December 2019" {
		t.Errorf("Expected 'Sunday 15 December 2019', got %q", long)
	}
}

func TestToView_RendersInEmbeddedOffset(t *testing.T) {
	bst := time.FixedZone("BST", 60*60)
	event := testEvent("bst", "Summer", time.Date(2019, time.June, 30, 23, 30, 0, 0, bst), time.Date(2019, time.July, 1, 0, 30, 0, 0, bst))

	view := ToView(event)
	if view.WhenHuman.StartTime != "23:30" || view.WhenHuman.ShortStartDate != "30/06/2019" {
		t.Errorf("Expected start rendered in +01:00, got %s %s", view.WhenHuman.StartTime, view.WhenHuman.ShortStartDate)
	}
	if view.WhenHuman.EndTime != "00:30" || view.WhenHuman.ShortEndDate != "01/07/2019" {
		t.Errorf("Expected end rendered in +01:00, got %s %s", view.WhenHuman.EndTime, view.WhenHuman.ShortEndDate)
	}
	if !view.WhenRaw.Start.Equal(event.StartTime) {
		t.Errorf("Expected raw start %v, got %v", event.StartTime, view.WhenRaw.Start)
	}
}

func TestToView_JSONShape(t *testing.T) {
	link := "https://meet.google.com/abc-defg-hij"
	event := models.NewEvent("x", models.OptionalString("Board Games & Cake"), nil, models.OptionalString("The Room"), utc(2018, time.October, 5, 18), utc(2018, time.October, 5, 22), &link)

	data, err := json.Marshal(ToView(event))
	if err != nil {
		t.Fatalf("Failed to marshal view: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal view: %v", err)
	}

	if decoded["summary"] != "Board Games & Cake" {
		t.Errorf("Unexpected summary: %v", decoded["summary"])
	}
	if v, ok := decoded["description"]; !ok || v != nil {
		t.Errorf("Expected description to be null, got %v (present=%v)", v, ok)
	}
	if decoded["meeting_link"] != link {
		t.Errorf("Unexpected meeting_link: %v", decoded["meeting_link"])
	}

	raw, ok := decoded["when_raw"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected when_raw object, got %T", decoded["when_raw"])
	}
	if raw["start"] != "2018-10-05T18:00:00Z" {
		t.Errorf("Unexpected raw start: %v", raw["start"])
	}

	human, ok := decoded["when_human"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected when_human object, got %T", decoded["when_human"])
	}
	for _, key := range []string{"start_time", "end_time", "short_start_date", "short_end_date", "long_start_date", "long_end_date"} {
		if _, ok := human[key]; !ok {
			t.Errorf("Expected when_human.%s", key)
		}
	}
}

func TestToViews_Empty(t *testing.T) {
	data, err := json.Marshal(ToViews(nil))
	if err != nil {
		t.Fatalf("Failed to marshal views: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected '[]', got %s", data)
	}
}

func TestToCalendarView(t *testing.T) {
	rows, err := BuildGrid(2019, time.December, SelectSurrounding(sampleEvents(), 2019, time.December))
	if err != nil {
		t.Fatalf("BuildGrid returned error: %v", err)
	}

	data, err := json.Marshal(ToCalendarView(rows))
	if err != nil {
		t.Fatalf("Failed to marshal calendar: %v", err)
	}

	var decoded [][]map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal calendar: %v", err)
	}

	if len(decoded) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(decoded))
	}

	cell := decoded[2][6]
	if cell["date"] != "2019-12-15" {
		t.Errorf("Expected date '2019-12-15', got %v", cell["date"])
	}
	if cell["day"] != float64(15) {
		t.Errorf("Expected day 15, got %v", cell["day"])
	}
	if cell["in_month"] != true {
		t.Errorf("Expected in_month true, got %v", cell["in_month"])
	}
	events, ok := cell["events"].([]interface{})
	if !ok || len(events) != 1 {
		t.Fatalf("Expected one event, got %v", cell["events"])
	}

	empty, ok := decoded[0][0]["events"].([]interface{})
	if !ok || len(empty) != 0 {
		t.Errorf("Expected empty events array, got %v", decoded[0][0]["events"])
	}
}
