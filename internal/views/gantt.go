package views

import (
	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

type WindowMode int

const (
	WindowWeek WindowMode = iota
	WindowMonth
)

func (m WindowMode) String() string {
	switch m {
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	}
	return "unknown"
}

func ParseWindowMode(value string) (WindowMode, bool) {
	switch value {
	case "week", "":
		return WindowWeek, true
	case "month":
		return WindowMonth, true
	}
	return WindowWeek, false
}

// GanttWindow is a navigable Monday-start week or calendar month.
type GanttWindow struct {
	Mode   WindowMode
	Anchor civil.Date
}

func (w GanttWindow) Start() civil.Date {
	switch w.Mode {
	case WindowMonth:
		return MonthStart(w.Anchor)
	case WindowWeek:
		return WeekStart(w.Anchor)
	}
	return w.Anchor
}

func (w GanttWindow) End() civil.Date {
	switch w.Mode {
	case WindowMonth:
		return MonthEnd(w.Anchor)
	case WindowWeek:
		return WeekEnd(w.Anchor)
	}
	return w.Anchor
}

func (w GanttWindow) Len() int {
	return w.End().DaysSince(w.Start()) + 1
}

func (w GanttWindow) Days() []civil.Date {
	return DaysBetween(w.Start(), w.End())
}

func (w GanttWindow) Next() GanttWindow {
	return w.step(1)
}

func (w GanttWindow) Prev() GanttWindow {
	return w.step(-1)
}

func (w GanttWindow) step(n int) GanttWindow {
	switch w.Mode {
	case WindowMonth:
		w.Anchor = addMonths(MonthStart(w.Anchor), n)
	case WindowWeek:
		w.Anchor = WeekStart(w.Anchor).AddDays(7 * n)
	}
	return w
}

// GanttBar is a task's span clipped to a window. Offset and Width are
// fractions of the window length.
type GanttBar struct {
	TaskID string
	Title  string
	Status model.TaskStatus

	Start civil.Date
	End   civil.Date
	// ClippedStart and ClippedEnd mark a span that continues past the
	// window edge.
	ClippedStart bool
	ClippedEnd   bool

	Offset float64
	Width  float64
}

func (b GanttBar) Days() int {
	return max(b.End.DaysSince(b.Start)+1, 1)
}

func GanttBars(tasks []model.Task, window GanttWindow) []GanttBar {
	start := window.Start()
	end := window.End()
	total := float64(window.Len())

	bars := make([]GanttBar, 0, len(tasks))
	for _, task := range tasks {
		spanStart, spanEnd, ok := TaskSpan(task)
		if !ok {
			continue
		}
		if spanEnd.Before(start) || spanStart.After(end) {
			continue
		}

		bar := GanttBar{
			TaskID:       task.ID,
			Title:        task.Title,
			Status:       task.Status,
			Start:        maxDate(spanStart, start),
			End:          minDate(spanEnd, end),
			ClippedStart: spanStart.Before(start),
			ClippedEnd:   spanEnd.After(end),
		}
		bar.Offset = float64(bar.Start.DaysSince(start)) / total
		bar.Width = float64(bar.Days()) / total
		bars = append(bars, bar)
	}
	return bars
}

// UndatedCount counts tasks that cannot appear on a timeline.
func UndatedCount(tasks []model.Task) int {
	count := 0
	for _, task := range tasks {
		if _, _, ok := TaskSpan(task); !ok {
			count++
		}
	}
	return count
}
