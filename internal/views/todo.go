package views

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

type Period string

const (
	PeriodAll      Period = "all"
	PeriodDaily    Period = "daily"
	PeriodWeekly   Period = "weekly"
	PeriodMonthly  Period = "monthly"
	PeriodPersonal Period = "personal"
)

var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodPersonal, PeriodAll}

func ParsePeriod(value string) (Period, error) {
	switch period := Period(strings.TrimSpace(strings.ToLower(value))); period {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodPersonal:
		return period, nil
	}
	return "", fmt.Errorf("unknown period %q", value)
}

// PersonalLabel is the project name shown for personal tasks.
const PersonalLabel = "Personal"

// TodoItem merges project tasks and personal tasks into one list.
type TodoItem struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
	Priority    model.Priority   `json:"priority"`
	DueDate     *civil.Date      `json:"due_date"`
	Personal    bool             `json:"personal"`
	ProjectID   string           `json:"project_id"`
	ProjectName string           `json:"project_name"`
}

// TodoFilter narrows a to-do list; nil fields match everything.
type TodoFilter struct {
	Status   *model.TaskStatus
	Priority *model.Priority
}

func (f TodoFilter) matches(item TodoItem) bool {
	if f.Status != nil && item.Status != *f.Status {
		return false
	}
	if f.Priority != nil && item.Priority != *f.Priority {
		return false
	}
	return true
}

func TodoItems(doc model.Document) []TodoItem {
	items := make([]TodoItem, 0, len(doc.Tasks)+len(doc.PersonalTasks))
	for _, task := range doc.Tasks {
		name := ""
		if project, ok := FindProject(doc, task.ProjectID); ok {
			name = project.Name
		}
		items = append(items, TodoItem{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			ProjectID:   task.ProjectID,
			ProjectName: name,
		})
	}
	for _, task := range doc.PersonalTasks {
		items = append(items, TodoItem{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			Personal:    true,
			ProjectName: PersonalLabel,
		})
	}
	return items
}

func inPeriod(item TodoItem, period Period, today civil.Date) bool {
	switch period {
	case PeriodAll:
		return true
	case PeriodPersonal:
		return item.Personal
	case PeriodDaily:
		return item.DueDate != nil && *item.DueDate == today
	case PeriodWeekly:
		return item.DueDate != nil && within(*item.DueDate, WeekStart(today), WeekEnd(today))
	case PeriodMonthly:
		return item.DueDate != nil && within(*item.DueDate, MonthStart(today), MonthEnd(today))
	}
	return false
}

// FilterTodos keeps the items in period that match filter, ordered by
// priority (high first). Within a priority, dated items are ordered by due
// date among the slots they already occupy; undated items do not move.
func FilterTodos(items []TodoItem, period Period, filter TodoFilter, today civil.Date) []TodoItem {
	result := make([]TodoItem, 0, len(items))
	for _, item := range items {
		if inPeriod(item, period, today) && filter.matches(item) {
			result = append(result, item)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority.Rank() < result[j].Priority.Rank()
	})

	for start := 0; start < len(result); {
		end := start
		for end < len(result) && result[end].Priority.Rank() == result[start].Priority.Rank() {
			end++
		}
		sortDatedSlots(result[start:end])
		start = end
	}
	return result
}

func sortDatedSlots(group []TodoItem) {
	slots := make([]int, 0, len(group))
	dated := make([]TodoItem, 0, len(group))
	for i, item := range group {
		if item.DueDate != nil {
			slots = append(slots, i)
			dated = append(dated, item)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].DueDate.Before(*dated[j].DueDate)
	})
	for k, slot := range slots {
		group[slot] = dated[k]
	}
}

// UpcomingReminders lists unfinished items due today or tomorrow.
func UpcomingReminders(items []TodoItem, today civil.Date) []TodoItem {
	tomorrow := today.AddDays(1)
	result := make([]TodoItem, 0)
	for _, item := range items {
		if item.DueDate == nil || item.Status == model.TaskDone {
			continue
		}
		if *item.DueDate == today || *item.DueDate == tomorrow {
			result = append(result, item)
		}
	}
	return result
}
