package views

import (
	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

type ItemKind string

const (
	KindTask  ItemKind = "task"
	KindEvent ItemKind = "event"
)

// CalendarItem is a task or event laid out as an inclusive date span.
type CalendarItem struct {
	ID    string
	Title string
	Kind  ItemKind
	Start civil.Date
	End   civil.Date

	TaskStatus model.TaskStatus
	EventType  model.EventType
}

func (i CalendarItem) Contains(date civil.Date) bool {
	return within(date, i.Start, i.End)
}

// TaskSpan returns the task's calendar span. A task with a single date
// spans that one day, as does one whose due date precedes its start; a task
// with neither date has no span.
func TaskSpan(task model.Task) (civil.Date, civil.Date, bool) {
	switch {
	case task.StartDate != nil && task.DueDate != nil:
		if task.DueDate.Before(*task.StartDate) {
			return *task.StartDate, *task.StartDate, true
		}
		return *task.StartDate, *task.DueDate, true
	case task.StartDate != nil:
		return *task.StartDate, *task.StartDate, true
	case task.DueDate != nil:
		return *task.DueDate, *task.DueDate, true
	}
	return civil.Date{}, civil.Date{}, false
}

func CalendarItems(doc model.Document) []CalendarItem {
	items := make([]CalendarItem, 0, len(doc.Tasks)+len(doc.Events))
	for _, task := range doc.Tasks {
		if !task.ShowInCalendar {
			continue
		}
		start, end, ok := TaskSpan(task)
		if !ok {
			continue
		}
		items = append(items, CalendarItem{
			ID:         task.ID,
			Title:      task.Title,
			Kind:       KindTask,
			Start:      start,
			End:        end,
			TaskStatus: task.Status,
		})
	}
	for _, event := range doc.Events {
		start := civil.DateOf(event.StartDateTime)
		end := civil.DateOf(event.EndDateTime)
		if end.Before(start) {
			end = start
		}
		items = append(items, CalendarItem{
			ID:        event.ID,
			Title:     event.Title,
			Kind:      KindEvent,
			Start:     start,
			End:       end,
			EventType: event.EventType,
		})
	}
	return items
}

func ItemsOn(items []CalendarItem, date civil.Date) []CalendarItem {
	result := make([]CalendarItem, 0)
	for _, item := range items {
		if item.Contains(date) {
			result = append(result, item)
		}
	}
	return result
}

// SpanPosition places a date cell within a multi-day bar.
type SpanPosition int

const (
	PositionSingle SpanPosition = iota
	PositionStart
	PositionMiddle
	PositionEnd
)

func (p SpanPosition) String() string {
	switch p {
	case PositionSingle:
		return "single"
	case PositionStart:
		return "start"
	case PositionMiddle:
		return "middle"
	case PositionEnd:
		return "end"
	}
	return "unknown"
}

type Corners struct {
	TopLeft     bool `json:"top_left"`
	TopRight    bool `json:"top_right"`
	BottomLeft  bool `json:"bottom_left"`
	BottomRight bool `json:"bottom_right"`
}

// Corners reports which corners of the cell are rounded so consecutive
// cells join into one bar.
func (p SpanPosition) Corners() Corners {
	switch p {
	case PositionSingle:
		return Corners{TopLeft: true, TopRight: true, BottomLeft: true, BottomRight: true}
	case PositionStart:
		return Corners{TopLeft: true, BottomLeft: true}
	case PositionEnd:
		return Corners{TopRight: true, BottomRight: true}
	case PositionMiddle:
		return Corners{}
	}
	return Corners{}
}

func PositionOn(item CalendarItem, date civil.Date) SpanPosition {
	isStart := item.Start == date
	isEnd := item.End == date
	switch {
	case isStart && isEnd:
		return PositionSingle
	case isStart:
		return PositionStart
	case isEnd:
		return PositionEnd
	}
	return PositionMiddle
}

type CalendarMode int

const (
	CalendarMonth CalendarMode = iota
	CalendarWeek
	CalendarDay
)

func (m CalendarMode) String() string {
	switch m {
	case CalendarMonth:
		return "month"
	case CalendarWeek:
		return "week"
	case CalendarDay:
		return "day"
	}
	return "unknown"
}

type CalendarWindow struct {
	Mode   CalendarMode
	Anchor civil.Date
}

func (w CalendarWindow) Next() CalendarWindow {
	return w.step(1)
}

func (w CalendarWindow) Prev() CalendarWindow {
	return w.step(-1)
}

func (w CalendarWindow) step(n int) CalendarWindow {
	switch w.Mode {
	case CalendarMonth:
		w.Anchor = addMonths(MonthStart(w.Anchor), n)
	case CalendarWeek:
		w.Anchor = w.Anchor.AddDays(7 * n)
	case CalendarDay:
		w.Anchor = w.Anchor.AddDays(n)
	}
	return w
}

// Days lists the cells shown for the window. The month view is padded to
// whole Monday-start weeks.
func (w CalendarWindow) Days() []civil.Date {
	switch w.Mode {
	case CalendarMonth:
		return DaysBetween(WeekStart(MonthStart(w.Anchor)), WeekEnd(MonthEnd(w.Anchor)))
	case CalendarWeek:
		return WeekDays(w.Anchor)
	case CalendarDay:
		return []civil.Date{w.Anchor}
	}
	return nil
}

// MonthGrid returns the Monday-start weeks covering anchor's month.
func MonthGrid(anchor civil.Date) [][]civil.Date {
	days := CalendarWindow{Mode: CalendarMonth, Anchor: anchor}.Days()
	weeks := make([][]civil.Date, 0, len(days)/7)
	for i := 0; i+7 <= len(days); i += 7 {
		weeks = append(weeks, days[i:i+7])
	}
	return weeks
}

func WeekDays(anchor civil.Date) []civil.Date {
	start := WeekStart(anchor)
	return DaysBetween(start, start.AddDays(6))
}
