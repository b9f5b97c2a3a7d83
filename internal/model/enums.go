package model

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectCompleted, ProjectArchived}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

func (s ProjectStatus) Label() string {
	switch s {
	case ProjectActive:
		return "Active"
	case ProjectCompleted:
		return "Completed"
	case ProjectArchived:
		return "Archived"
	}
	return string(s)
}

func (s *ProjectStatus) UnmarshalText(text []byte) error {
	value, err := ParseProjectStatus(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}

func ParseProjectStatus(value string) (ProjectStatus, error) {
	status := ProjectStatus(normalizeEnum(value))
	if !status.Valid() {
		return "", fmt.Errorf("unknown project status %q", value)
	}
	return status, nil
}

// TaskStatus is shared by project tasks and personal tasks. Overdue is
// derived from the due date but stored like any other status.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskHold       TaskStatus = "hold"
	TaskDone       TaskStatus = "done"
	TaskOverdue    TaskStatus = "overdue"
)

var TaskStatuses = []TaskStatus{TaskNotStarted, TaskTodo, TaskInProgress, TaskHold, TaskDone, TaskOverdue}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskTodo, TaskInProgress, TaskHold, TaskDone, TaskOverdue:
		return true
	}
	return false
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskNotStarted:
		return "Not Started"
	case TaskTodo:
		return "To Do"
	case TaskInProgress:
		return "In Progress"
	case TaskHold:
		return "On Hold"
	case TaskDone:
		return "Done"
	case TaskOverdue:
		return "Overdue"
	}
	return string(s)
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	value, err := ParseTaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(normalizeEnum(value))
	if !status.Valid() {
		return "", fmt.Errorf("unknown task status %q", value)
	}
	return status, nil
}

type SubtaskStatus string

const (
	SubtaskTodo SubtaskStatus = "todo"
	SubtaskDone SubtaskStatus = "done"
)

func (s SubtaskStatus) Valid() bool {
	switch s {
	case SubtaskTodo, SubtaskDone:
		return true
	}
	return false
}

func (s SubtaskStatus) Label() string {
	switch s {
	case SubtaskTodo:
		return "To Do"
	case SubtaskDone:
		return "Done"
	}
	return string(s)
}

func (s *SubtaskStatus) UnmarshalText(text []byte) error {
	value, err := ParseSubtaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}

func ParseSubtaskStatus(value string) (SubtaskStatus, error) {
	status := SubtaskStatus(normalizeEnum(value))
	if !status.Valid() {
		return "", fmt.Errorf("unknown subtask status %q", value)
	}
	return status, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// Rank orders priorities for sorting: high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

func (p *Priority) UnmarshalText(text []byte) error {
	value, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func ParsePriority(value string) (Priority, error) {
	priority := Priority(normalizeEnum(value))
	if !priority.Valid() {
		return "", fmt.Errorf("unknown priority %q", value)
	}
	return priority, nil
}

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

var RecurrenceTypes = []RecurrenceType{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly}

func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

func (r RecurrenceType) Label() string {
	switch r {
	case RecurrenceNone:
		return "None"
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekly:
		return "Weekly"
	case RecurrenceMonthly:
		return "Monthly"
	}
	return string(r)
}

func (r *RecurrenceType) UnmarshalText(text []byte) error {
	value, err := ParseRecurrenceType(string(text))
	if err != nil {
		return err
	}
	*r = value
	return nil
}

func ParseRecurrenceType(value string) (RecurrenceType, error) {
	recurrence := RecurrenceType(normalizeEnum(value))
	if !recurrence.Valid() {
		return "", fmt.Errorf("unknown recurrence type %q", value)
	}
	return recurrence, nil
}

type EventType string

const (
	EventMeeting  EventType = "meeting"
	EventReminder EventType = "reminder"
	EventOther    EventType = "other"
)

var EventTypes = []EventType{EventMeeting, EventReminder, EventOther}

func (e EventType) Valid() bool {
	switch e {
	case EventMeeting, EventReminder, EventOther:
		return true
	}
	return false
}

func (e EventType) Label() string {
	switch e {
	case EventMeeting:
		return "Meeting"
	case EventReminder:
		return "Reminder"
	case EventOther:
		return "Other"
	}
	return string(e)
}

func (e *EventType) UnmarshalText(text []byte) error {
	value, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*e = value
	return nil
}

func ParseEventType(value string) (EventType, error) {
	eventType := EventType(normalizeEnum(value))
	if !eventType.Valid() {
		return "", fmt.Errorf("unknown event type %q", value)
	}
	return eventType, nil
}

func normalizeEnum(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
