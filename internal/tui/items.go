package tui

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

func formatDate(d *civil.Date) string {
	if d == nil {
		return views.Placeholder
	}
	return d.String()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func formatWorkspaceSummary(workspace model.Workspace, projects int) string {
	return fmt.Sprintf("%s (%d)", workspace.Name, projects)
}

func formatProjectSummary(project model.Project, tasks int) string {
	return fmt.Sprintf("%s | %s | %d tasks", project.Name, project.Status.Label(), tasks)
}

func formatTaskSummary(task model.Task, today civil.Date) string {
	status := views.EffectiveStatus(task.Status, task.DueDate, today)
	return fmt.Sprintf("%s %s | %s | %s | due %s",
		checkbox(task.Status == model.TaskDone), task.Title, status.Label(), task.Priority.Label(), formatDate(task.DueDate))
}

func formatSubtaskSummary(subtask model.Subtask) string {
	return fmt.Sprintf("%s %s", checkbox(subtask.Status == model.SubtaskDone), subtask.Title)
}

func formatTodoSummary(item views.TodoItem, today civil.Date) string {
	status := views.EffectiveStatus(item.Status, item.DueDate, today)
	return fmt.Sprintf("%s %s | %s | %s | %s | due %s",
		checkbox(item.Status == model.TaskDone), item.Title, item.ProjectName, item.Priority.Label(), status.Label(), formatDate(item.DueDate))
}

func formatEventSummary(event model.Event) string {
	return fmt.Sprintf("%s | %s | %s", event.StartDateTime.Format("15:04"), event.Title, event.EventType.Label())
}

func nextPeriod(current views.Period) views.Period {
	for i, period := range views.Periods {
		if period == current {
			return views.Periods[(i+1)%len(views.Periods)]
		}
	}
	return views.Periods[0]
}

func periodLabel(period views.Period) string {
	switch period {
	case views.PeriodAll:
		return "All"
	case views.PeriodDaily:
		return "Today"
	case views.PeriodWeekly:
		return "This week"
	case views.PeriodMonthly:
		return "This month"
	case views.PeriodPersonal:
		return "Personal"
	}
	return string(period)
}

// ganttLine draws one bar across cols character cells, one or more cells per
// window day.
func ganttLine(bar views.GanttBar, window views.GanttWindow, cols int) string {
	days := window.Len()
	if cols < days {
		cols = days
	}
	cell := cols / days
	offset := bar.Start.DaysSince(window.Start())

	var b strings.Builder
	for day := 0; day < days; day++ {
		fill := " "
		if day >= offset && day < offset+bar.Days() {
			fill = "#"
			switch {
			case day == offset && bar.ClippedStart:
				fill = "<"
			case day == offset+bar.Days()-1 && bar.ClippedEnd:
				fill = ">"
			}
		}
		b.WriteString(strings.Repeat(fill, cell))
	}
	return b.String()
}

// ganttHeader labels each window day with its day of month.
func ganttHeader(window views.GanttWindow, cols int) string {
	days := window.Days()
	if cols < len(days) {
		cols = len(days)
	}
	cell := cols / len(days)

	var b strings.Builder
	for _, day := range days {
		label := fmt.Sprintf("%d", day.Day)
		if len(label) > cell {
			label = label[len(label)-cell:]
		}
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", cell-len(label)))
	}
	return b.String()
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "~"
}

func padRight(value string, width int) string {
	runes := []rune(value)
	if len(runes) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(runes))
}

// calendarLines lists each day of the week with the items on it. Rounded
// corners close a bar with parentheses; squared ones run on with "=" into
// the neighbouring day.
func calendarLines(items []views.CalendarItem, days []civil.Date) []string {
	lines := make([]string, 0, len(days))
	for _, day := range days {
		entries := views.ItemsOn(items, day)
		parts := make([]string, 0, len(entries))
		for _, item := range entries {
			parts = append(parts, spanLabel(item.Title, views.PositionOn(item, day).Corners()))
		}
		weekday := day.In(time.UTC).Weekday().String()[:3]
		lines = append(lines, fmt.Sprintf("%s %02d-%02d: %s", weekday, int(day.Month), day.Day, strings.Join(parts, ", ")))
	}
	return lines
}

func spanLabel(title string, c views.Corners) string {
	left, right := "=", "="
	if c.TopLeft && c.BottomLeft {
		left = "("
	}
	if c.TopRight && c.BottomRight {
		right = ")"
	}
	return left + title + right
}
