package views

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

const upcomingLimit = 5

type Stats struct {
	Workspaces int `json:"workspaces"`
	Projects   int `json:"projects"`
	Tasks      int `json:"tasks"`
	Overdue    int `json:"overdue"`
	Done       int `json:"done"`
	InProgress int `json:"in_progress"`

	UpcomingTasks  []model.Task  `json:"upcoming_tasks"`
	UpcomingEvents []model.Event `json:"upcoming_events"`
}

// Dashboard summarizes the document as of now. Upcoming tasks are
// unfinished and due within the next seven days; upcoming events start no
// earlier than now.
func Dashboard(doc model.Document, now time.Time) Stats {
	today := civil.DateOf(now)
	stats := Stats{
		Workspaces: len(doc.Workspaces),
		Projects:   len(doc.Projects),
		Tasks:      len(doc.Tasks),
	}

	horizon := today.AddDays(7)
	upcoming := make([]model.Task, 0)
	for _, task := range doc.Tasks {
		switch task.Status {
		case model.TaskOverdue:
			stats.Overdue++
		case model.TaskDone:
			stats.Done++
		case model.TaskInProgress:
			stats.InProgress++
		case model.TaskNotStarted, model.TaskTodo, model.TaskHold:
		}
		if task.DueDate == nil || task.Status == model.TaskDone {
			continue
		}
		if within(*task.DueDate, today, horizon) {
			upcoming = append(upcoming, task)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})
	stats.UpcomingTasks = upcoming[:min(len(upcoming), upcomingLimit)]

	events := make([]model.Event, 0)
	for _, event := range doc.Events {
		if !event.StartDateTime.Before(now) {
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDateTime.Before(events[j].StartDateTime)
	})
	stats.UpcomingEvents = events[:min(len(events), upcomingLimit)]

	return stats
}
