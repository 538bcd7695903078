package calendar

import (
	"testing"
	"time"

	"github.com/prodsmart/core/internal/domain/entities"
)

func TestCanonicalDateUsesLocalDay(t *testing.T) {
	local := time.Date(2026, 9, 1, 23, 45, 0, 0, time.Local)
	if got := CanonicalDate(local); got != "2026-09-01" {
		t.Errorf("CanonicalDate = %q, want 2026-09-01", got)
	}
}

func TestItemsOnBucketsBothDateKinds(t *testing.T) {
	day := "2026-09-05"
	tasks := []entities.Task{
		{Text: "on the day", Date: time.Date(2026, 9, 5, 8, 0, 0, 0, time.Local)},
		{Text: "other day", Date: time.Date(2026, 9, 6, 8, 0, 0, 0, time.Local)},
	}
	reminders := []entities.Reminder{
		{Title: "dentist", Date: day, Time: "09:30"},
		{Title: "elsewhere", Date: "2026-09-07", Time: "10:00"},
	}
	schedules := []entities.Schedule{
		{Lesson: "Go basics", Date: day, Time: "14:00"},
	}

	items := ItemsOn(day, tasks, reminders, schedules)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(items), items)
	}
	if items[0].Kind != "task" || items[0].Label != "on the day" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Kind != "reminder" || items[1].Time != "09:30" {
		t.Errorf("unexpected reminder item: %+v", items[1])
	}
	if items[2].Kind != "lesson" || items[2].Label != "Go basics" {
		t.Errorf("unexpected lesson item: %+v", items[2])
	}
}

func TestItemsOnEmptyDay(t *testing.T) {
	items := ItemsOn("2026-01-01", nil, nil, nil)
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestMonthGridMondayFirst(t *testing.T) {
	// September 2026 starts on a Tuesday: one leading blank.
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	grid := MonthGrid(2026, time.September, now, nil, nil, nil)

	if grid.Title != "September 2026" {
		t.Errorf("title = %q", grid.Title)
	}
	if grid.Cells[0].Day != 0 {
		t.Errorf("expected a leading blank, got day %d", grid.Cells[0].Day)
	}
	if grid.Cells[1].Day != 1 {
		t.Errorf("expected day 1 in second slot, got %d", grid.Cells[1].Day)
	}
	if len(grid.Cells) != 1+30 {
		t.Errorf("expected 31 cells, got %d", len(grid.Cells))
	}
	if !grid.Cells[1].IsToday {
		t.Error("expected the 1st to be flagged today")
	}
}

func TestMonthGridSundayStartPadsSix(t *testing.T) {
	// February 2026 starts on a Sunday: six leading blanks with a Monday-first week.
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	grid := MonthGrid(2026, time.February, now, nil, nil, nil)

	for i := 0; i < 6; i++ {
		if grid.Cells[i].Day != 0 {
			t.Fatalf("cell %d: expected blank, got day %d", i, grid.Cells[i].Day)
		}
	}
	if grid.Cells[6].Day != 1 {
		t.Errorf("expected day 1 in slot 6, got %d", grid.Cells[6].Day)
	}
	for _, c := range grid.Cells {
		if c.IsToday {
			t.Error("no cell should be today outside the current month")
		}
	}
}

func TestMonthGridFlagsBusyDays(t *testing.T) {
	now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	tasks := []entities.Task{{Text: "x", Date: time.Date(2026, 9, 3, 9, 0, 0, 0, time.Local)}}
	reminders := []entities.Reminder{{Title: "y", Date: "2026-09-15", Time: "08:00"}}

	grid := MonthGrid(2026, time.September, now, tasks, reminders, nil)
	for _, c := range grid.Cells {
		switch c.Date {
		case "2026-09-03", "2026-09-15":
			if !c.HasItems {
				t.Errorf("%s should be flagged busy", c.Date)
			}
		case "2026-09-04":
			if c.HasItems {
				t.Errorf("%s should not be flagged busy", c.Date)
			}
		}
	}
}

func TestDetail(t *testing.T) {
	d := Detail("2026-09-05", nil, []entities.Reminder{{Title: "r", Date: "2026-09-05", Time: "07:00"}}, nil)
	if d.Date != "2026-09-05" || len(d.Items) != 1 {
		t.Errorf("unexpected detail: %+v", d)
	}
}
