// Package views turns collection state into render-ready view models. Every
// renderer is a pure function of the collections it reads; the Dashboard
// controller owns the store references and re-renders through the change bus.
package views

import (
	"fmt"
	"time"

	"github.com/prodsmart/core/internal/calendar"
	"github.com/prodsmart/core/internal/domain/entities"
)

// TaskItem is one row of the task list.
type TaskItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// TaskList is the rendered task panel.
type TaskList struct {
	Items []TaskItem `json:"items"`
	Count int        `json:"count"`
	Empty string     `json:"empty,omitempty"`
}

// RenderTasks keeps store order (newest first) and reports the open count.
func RenderTasks(tasks []entities.Task) TaskList {
	list := TaskList{Items: []TaskItem{}}
	for _, t := range tasks {
		list.Items = append(list.Items, TaskItem{
			ID:        t.ID.String(),
			Text:      t.Text,
			Completed: t.Completed,
			Date:      calendar.CanonicalDate(t.Date),
		})
		if !t.Completed {
			list.Count++
		}
	}
	if len(list.Items) == 0 {
		list.Empty = "No tasks yet. Add one above!"
	}
	return list
}

// ReminderItem is one row of the reminder list.
type ReminderItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	When     string `json:"when"`
	Notified bool   `json:"notified"`
}

// RenderReminders formats each reminder's due instant for display; malformed
// date fields fall back to the raw strings rather than dropping the row.
func RenderReminders(reminders []entities.Reminder) []ReminderItem {
	items := []ReminderItem{}
	for _, r := range reminders {
		when := r.Date + " " + r.Time
		if due, err := r.DueAt(); err == nil {
			when = due.Format("Jan 2, 2006 at 15:04")
		}
		items = append(items, ReminderItem{
			ID:       r.ID.String(),
			Title:    r.Title,
			When:     when,
			Notified: r.Notified,
		})
	}
	return items
}

// ScheduleItem is one row of the lesson schedule list.
type ScheduleItem struct {
	ID        string `json:"id"`
	Lesson    string `json:"lesson"`
	When      string `json:"when"`
	Completed bool   `json:"completed"`
	Notified  bool   `json:"notified"`
}

func RenderSchedules(schedules []entities.Schedule) []ScheduleItem {
	items := []ScheduleItem{}
	for _, s := range schedules {
		when := s.Date + " " + s.Time
		if due, err := s.DueAt(); err == nil {
			when = due.Format("Jan 2, 2006 at 15:04")
		}
		items = append(items, ScheduleItem{
			ID:        s.ID.String(),
			Lesson:    s.Lesson,
			When:      when,
			Completed: s.Completed,
			Notified:  s.Notified,
		})
	}
	return items
}

// FeedItem is one entry of the notification feed.
type FeedItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Age         string `json:"age"`
}

// RenderFeed renders the notification feed newest-first with relative ages.
func RenderFeed(notifications []entities.Notification, now time.Time) []FeedItem {
	items := []FeedItem{}
	for _, n := range notifications {
		items = append(items, FeedItem{
			ID:          n.ID.String(),
			Title:       n.Title,
			Description: n.Description,
			Source:      string(n.Source),
			Age:         relativeAge(now.Sub(n.Timestamp)),
		})
	}
	return items
}

func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Progress is one doughnut chart: completed versus remaining.
type Progress struct {
	Label     string `json:"label"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Empty     string `json:"empty,omitempty"`
}

// RenderTaskProgress counts completed tasks for the tasks chart.
func RenderTaskProgress(tasks []entities.Task) Progress {
	p := Progress{Label: "Tasks Progress", Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total == 0 {
		p.Empty = "No tasks to track."
	}
	return p
}

// RenderLearningProgress counts completed lessons for the learning hub chart.
func RenderLearningProgress(schedules []entities.Schedule) Progress {
	p := Progress{Label: "Learning Hub Progress", Total: len(schedules)}
	for _, s := range schedules {
		if s.Completed {
			p.Completed++
		}
	}
	if p.Total == 0 {
		p.Empty = "No Learning Hub data yet."
	}
	return p
}

// CategoryEntry is one row of the category browser.
type CategoryEntry struct {
	Label  string `json:"label"`
	Status string `json:"status"`
}

// CategoryPanel is the rendered category browser for one filter.
type CategoryPanel struct {
	Category string          `json:"category"`
	Entries  []CategoryEntry `json:"entries"`
	Empty    string          `json:"empty,omitempty"`
}

// RenderCategory filters the dashboard by kind. Tasks and lessons carry a
// completion status; reminders are always "Scheduled".
func RenderCategory(category string, tasks []entities.Task, reminders []entities.Reminder, schedules []entities.Schedule) CategoryPanel {
	panel := CategoryPanel{Category: category, Entries: []CategoryEntry{}}
	switch category {
	case "tasks":
		for _, t := range tasks {
			panel.Entries = append(panel.Entries, CategoryEntry{Label: t.Text, Status: completionStatus(t.Completed)})
		}
		if len(panel.Entries) == 0 {
			panel.Empty = "No tasks found."
		}
	case "reminders":
		for _, r := range reminders {
			label := r.Title
			if label == "" {
				label = "(No title)"
			}
			panel.Entries = append(panel.Entries, CategoryEntry{Label: label, Status: "Scheduled"})
		}
		if len(panel.Entries) == 0 {
			panel.Empty = "No reminders found."
		}
	case "schedules":
		for _, s := range schedules {
			panel.Entries = append(panel.Entries, CategoryEntry{Label: s.Lesson, Status: completionStatus(s.Completed)})
		}
		if len(panel.Entries) == 0 {
			panel.Empty = "No learning schedules found."
		}
	}
	return panel
}

func completionStatus(done bool) string {
	if done {
		return "Completed"
	}
	return "Incomplete"
}
