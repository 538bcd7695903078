package calendar

import (
	"fmt"
	"time"

	"github.com/prodsmart/core/internal/domain/entities"
)

// DayLayout is the canonical local date format used for bucketing.
const DayLayout = "2006-01-02"

// CanonicalDate renders a timestamp as its local calendar day. All bucketing
// goes through this so that items created near midnight land on the day the
// user saw, not the UTC day.
func CanonicalDate(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// Item is a single dated entry shown on a calendar day.
type Item struct {
	Kind  string `json:"kind"` // "task", "reminder" or "lesson"
	Label string `json:"label"`
	Time  string `json:"time,omitempty"`
	Done  bool   `json:"done,omitempty"`
}

// ItemsOn collects everything that falls on the given local day. Tasks carry
// full timestamps and are reduced through CanonicalDate; reminders and
// schedules already store the canonical day string.
func ItemsOn(day string, tasks []entities.Task, reminders []entities.Reminder, schedules []entities.Schedule) []Item {
	items := []Item{}
	for _, t := range tasks {
		if CanonicalDate(t.Date) == day {
			items = append(items, Item{Kind: "task", Label: t.Text, Done: t.Completed})
		}
	}
	for _, r := range reminders {
		if r.Date == day {
			items = append(items, Item{Kind: "reminder", Label: r.Title, Time: r.Time})
		}
	}
	for _, s := range schedules {
		if s.Date == day {
			items = append(items, Item{Kind: "lesson", Label: s.Lesson, Time: s.Time, Done: s.Completed})
		}
	}
	return items
}

// Cell is one slot in the month grid. Day 0 marks a leading blank before the
// first of the month.
type Cell struct {
	Day      int    `json:"day"`
	Date     string `json:"date,omitempty"`
	IsToday  bool   `json:"isToday,omitempty"`
	HasItems bool   `json:"hasItems,omitempty"`
}

// Grid is a rendered month: a Monday-first sequence of cells.
type Grid struct {
	Year  int    `json:"year"`
	Month int    `json:"month"` // 1-12
	Title string `json:"title"` // e.g. "September 2026"
	Cells []Cell `json:"cells"`
}

// MonthGrid lays out a month Monday-first, with blank cells padding up to the
// weekday of the 1st. Days are flagged when they hold at least one task,
// reminder or lesson, and the cell matching now's local day is flagged today.
func MonthGrid(year int, month time.Month, now time.Time, tasks []entities.Task, reminders []entities.Reminder, schedules []entities.Schedule) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	today := CanonicalDate(now)

	busy := map[string]bool{}
	for _, t := range tasks {
		busy[CanonicalDate(t.Date)] = true
	}
	for _, r := range reminders {
		busy[r.Date] = true
	}
	for _, s := range schedules {
		busy[s.Date] = true
	}

	grid := Grid{
		Year:  year,
		Month: int(month),
		Title: fmt.Sprintf("%s %d", month.String(), year),
	}

	// Monday-first offset: Sunday (weekday 0) pads six blanks.
	lead := (int(first.Weekday()) + 6) % 7
	for i := 0; i < lead; i++ {
		grid.Cells = append(grid.Cells, Cell{})
	}

	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
	for d := 1; d <= daysIn; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.Local).Format(DayLayout)
		grid.Cells = append(grid.Cells, Cell{
			Day:      d,
			Date:     date,
			IsToday:  date == today,
			HasItems: busy[date],
		})
	}
	return grid
}

// DayDetail is the drill-down view of a single day.
type DayDetail struct {
	Date  string `json:"date"`
	Items []Item `json:"items"`
}

// Detail builds the per-day breakdown a calendar click surfaces.
func Detail(day string, tasks []entities.Task, reminders []entities.Reminder, schedules []entities.Schedule) DayDetail {
	return DayDetail{Date: day, Items: ItemsOn(day, tasks, reminders, schedules)}
}
