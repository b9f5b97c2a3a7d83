package web

import (
	"bytes"
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("enum", validateEnum)
}

// validateEnum accepts any closed model enum that reports a known value.
func validateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(interface{ Valid() bool })
	return ok && value.Valid()
}

// nullable tells an absent JSON field apart from an explicit null.
type nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

func (n nullable[T]) patch() store.Nullable[T] {
	return store.Nullable[T]{Set: n.Set, Value: n.Value}
}

type workspaceRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type workspacePatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

type projectRequest struct {
	WorkspaceID string              `json:"workspace_id" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status" validate:"omitempty,enum"`
}

type projectPatchRequest struct {
	WorkspaceID *string              `json:"workspace_id" validate:"omitempty,min=1"`
	Name        *string              `json:"name" validate:"omitempty,min=1"`
	Description *string              `json:"description"`
	Status      *model.ProjectStatus `json:"status" validate:"omitempty,enum"`
}

type taskRequest struct {
	ProjectID         string               `json:"project_id" validate:"required"`
	Title             string               `json:"title" validate:"required"`
	Description       string               `json:"description"`
	Status            model.TaskStatus     `json:"status" validate:"omitempty,enum"`
	Priority          model.Priority       `json:"priority" validate:"omitempty,enum"`
	StartDate         *civil.Date          `json:"start_date"`
	DueDate           *civil.Date          `json:"due_date"`
	RecurrenceType    model.RecurrenceType `json:"recurrence_type" validate:"omitempty,enum"`
	RecurrenceEndDate *civil.Date          `json:"recurrence_end_date"`
	ShowInCalendar    bool                 `json:"show_in_calendar"`
}

type taskPatchRequest struct {
	ProjectID         *string               `json:"project_id" validate:"omitempty,min=1"`
	Title             *string               `json:"title" validate:"omitempty,min=1"`
	Description       *string               `json:"description"`
	Status            *model.TaskStatus     `json:"status" validate:"omitempty,enum"`
	Priority          *model.Priority       `json:"priority" validate:"omitempty,enum"`
	StartDate         nullable[civil.Date]  `json:"start_date"`
	DueDate           nullable[civil.Date]  `json:"due_date"`
	RecurrenceType    *model.RecurrenceType `json:"recurrence_type" validate:"omitempty,enum"`
	RecurrenceEndDate nullable[civil.Date]  `json:"recurrence_end_date"`
	ShowInCalendar    *bool                 `json:"show_in_calendar"`
	Order             *int                  `json:"order" validate:"omitempty,min=1"`
}

type subtaskRequest struct {
	TaskID string              `json:"task_id" validate:"required"`
	Title  string              `json:"title" validate:"required"`
	Status model.SubtaskStatus `json:"status" validate:"omitempty,enum"`
}

type subtaskPatchRequest struct {
	Title  *string              `json:"title" validate:"omitempty,min=1"`
	Status *model.SubtaskStatus `json:"status" validate:"omitempty,enum"`
	Order  *int                 `json:"order" validate:"omitempty,min=1"`
}

type eventRequest struct {
	ProjectID     *string         `json:"project_id"`
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	StartDateTime model.DateTime  `json:"start_datetime" validate:"required"`
	EndDateTime   model.DateTime  `json:"end_datetime"`
	EventType     model.EventType `json:"event_type" validate:"omitempty,enum"`
}

type eventPatchRequest struct {
	ProjectID     nullable[string] `json:"project_id"`
	Title         *string          `json:"title" validate:"omitempty,min=1"`
	Description   *string          `json:"description"`
	StartDateTime *model.DateTime  `json:"start_datetime"`
	EndDateTime   *model.DateTime  `json:"end_datetime"`
	EventType     *model.EventType `json:"event_type" validate:"omitempty,enum"`
}

type personalTaskRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	DueDate     *civil.Date      `json:"due_date"`
	Status      model.TaskStatus `json:"status" validate:"omitempty,enum"`
	Priority    model.Priority   `json:"priority" validate:"omitempty,enum"`
}

type personalTaskPatchRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1"`
	Description *string              `json:"description"`
	DueDate     nullable[civil.Date] `json:"due_date"`
	Status      *model.TaskStatus    `json:"status" validate:"omitempty,enum"`
	Priority    *model.Priority      `json:"priority" validate:"omitempty,enum"`
}
