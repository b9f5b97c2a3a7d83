package store

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

// Nullable changes a field that may hold null. The zero value leaves the
// field alone; Set with a nil Value clears it.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](value T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &value}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) apply(target **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*target = nil
		return
	}
	value := *n.Value
	*target = &value
}

func set[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

type WorkspaceInput struct {
	Name        string
	Description string
}

type WorkspacePatch struct {
	Name        *string
	Description *string
}

type ProjectInput struct {
	WorkspaceID string
	Name        string
	Description string
	Status      model.ProjectStatus
}

type ProjectPatch struct {
	WorkspaceID *string
	Name        *string
	Description *string
	Status      *model.ProjectStatus
}

type TaskInput struct {
	ProjectID         string
	Title             string
	Description       string
	Status            model.TaskStatus
	Priority          model.Priority
	StartDate         *civil.Date
	DueDate           *civil.Date
	RecurrenceType    model.RecurrenceType
	RecurrenceEndDate *civil.Date
	ShowInCalendar    bool
}

type TaskPatch struct {
	ProjectID         *string
	Title             *string
	Description       *string
	Status            *model.TaskStatus
	Priority          *model.Priority
	StartDate         Nullable[civil.Date]
	DueDate           Nullable[civil.Date]
	RecurrenceType    *model.RecurrenceType
	RecurrenceEndDate Nullable[civil.Date]
	ShowInCalendar    *bool
	Order             *int
}

type SubtaskInput struct {
	TaskID string
	Title  string
	Status model.SubtaskStatus
}

type SubtaskPatch struct {
	Title  *string
	Status *model.SubtaskStatus
	Order  *int
}

type EventInput struct {
	ProjectID     *string
	Title         string
	Description   string
	StartDateTime time.Time
	EndDateTime   time.Time
	EventType     model.EventType
}

type EventPatch struct {
	ProjectID     Nullable[string]
	Title         *string
	Description   *string
	StartDateTime *time.Time
	EndDateTime   *time.Time
	EventType     *model.EventType
}

type PersonalTaskInput struct {
	Title       string
	Description string
	DueDate     *civil.Date
	Status      model.TaskStatus
	Priority    model.Priority
}

type PersonalTaskPatch struct {
	Title       *string
	Description *string
	DueDate     Nullable[civil.Date]
	Status      *model.TaskStatus
	Priority    *model.Priority
}

func Ptr[T any](value T) *T {
	return &value
}
