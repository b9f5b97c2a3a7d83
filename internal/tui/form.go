package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
)

type formKind int

const (
	formWorkspace formKind = iota
	formProject
	formTask
	formSubtask
	formPersonal
	formEvent
)

func (k formKind) String() string {
	switch k {
	case formWorkspace:
		return "Workspace"
	case formProject:
		return "Project"
	case formTask:
		return "Task"
	case formSubtask:
		return "Subtask"
	case formPersonal:
		return "Personal To-Do"
	case formEvent:
		return "Event"
	}
	return "Item"
}

// formField is a text field, or a choice field when Options is set.
type formField struct {
	Label   string
	Value   string
	Options []string
}

func (f formField) isChoice() bool {
	return len(f.Options) > 0
}

var (
	errNameRequired  = errors.New("name is required")
	errTitleRequired = errors.New("title is required")
	yesNo            = []string{"yes", "no"}
)

func enumOptions[T ~string](values []T) []string {
	options := make([]string, len(values))
	for i, value := range values {
		options[i] = string(value)
	}
	return options
}

func cycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	index := 0
	for i, option := range options {
		if option == current {
			index = i
			break
		}
	}
	index = (index + delta + len(options)) % len(options)
	return options[index]
}

func dateValue(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseDate(label, value string) (*civil.Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := civil.ParseDate(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date", label)
	}
	return &parsed, nil
}

func parseDateTime(label, value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if parsed, err := model.ParseDateTime(trimmed); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation(dateLayout, trimmed, time.Local); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s time", label)
}

func required(value string, err error) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", err
	}
	return trimmed, nil
}

const (
	workspaceName = iota
	workspaceDescription
)

func workspaceFields(workspace *model.Workspace) []formField {
	fields := []formField{{Label: "Name"}, {Label: "Description"}}
	if workspace != nil {
		fields[workspaceName].Value = workspace.Name
		fields[workspaceDescription].Value = workspace.Description
	}
	return fields
}

func parseWorkspaceFields(fields []formField) (store.WorkspaceInput, error) {
	name, err := required(fields[workspaceName].Value, errNameRequired)
	if err != nil {
		return store.WorkspaceInput{}, err
	}
	return store.WorkspaceInput{Name: name, Description: strings.TrimSpace(fields[workspaceDescription].Value)}, nil
}

const (
	projectName = iota
	projectDescription
	projectStatus
)

func projectFields(project *model.Project) []formField {
	fields := []formField{
		{Label: "Name"},
		{Label: "Description"},
		{Label: "Status", Value: string(model.ProjectActive), Options: enumOptions(model.ProjectStatuses)},
	}
	if project != nil {
		fields[projectName].Value = project.Name
		fields[projectDescription].Value = project.Description
		fields[projectStatus].Value = string(project.Status)
	}
	return fields
}

func parseProjectFields(fields []formField) (store.ProjectInput, error) {
	name, err := required(fields[projectName].Value, errNameRequired)
	if err != nil {
		return store.ProjectInput{}, err
	}
	status, err := model.ParseProjectStatus(fields[projectStatus].Value)
	if err != nil {
		return store.ProjectInput{}, err
	}
	return store.ProjectInput{
		Name:        name,
		Description: strings.TrimSpace(fields[projectDescription].Value),
		Status:      status,
	}, nil
}

const (
	taskTitle = iota
	taskDescription
	taskStatus
	taskPriority
	taskStart
	taskDue
	taskRecurrence
	taskRecurrenceEnd
	taskShowInCalendar
)

func taskFields(task *model.Task) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Status", Value: string(model.TaskNotStarted), Options: enumOptions(model.TaskStatuses)},
		{Label: "Priority", Value: string(model.PriorityMedium), Options: enumOptions(model.Priorities)},
		{Label: "Start (YYYY-MM-DD)"},
		{Label: "Due (YYYY-MM-DD)"},
		{Label: "Repeat", Value: string(model.RecurrenceNone), Options: enumOptions(model.RecurrenceTypes)},
		{Label: "Repeat until (YYYY-MM-DD)"},
		{Label: "Show in calendar", Value: "yes", Options: yesNo},
	}
	if task == nil {
		return fields
	}
	fields[taskTitle].Value = task.Title
	fields[taskDescription].Value = task.Description
	fields[taskStatus].Value = string(task.Status)
	fields[taskPriority].Value = string(task.Priority)
	fields[taskStart].Value = dateValue(task.StartDate)
	fields[taskDue].Value = dateValue(task.DueDate)
	fields[taskRecurrence].Value = string(task.RecurrenceType)
	fields[taskRecurrenceEnd].Value = dateValue(task.RecurrenceEndDate)
	if !task.ShowInCalendar {
		fields[taskShowInCalendar].Value = "no"
	}
	return fields
}

// parseTaskFields returns an input without a project; the caller sets it.
func parseTaskFields(fields []formField) (store.TaskInput, error) {
	title, err := required(fields[taskTitle].Value, errTitleRequired)
	if err != nil {
		return store.TaskInput{}, err
	}
	status, err := model.ParseTaskStatus(fields[taskStatus].Value)
	if err != nil {
		return store.TaskInput{}, err
	}
	priority, err := model.ParsePriority(fields[taskPriority].Value)
	if err != nil {
		return store.TaskInput{}, err
	}
	recurrence, err := model.ParseRecurrenceType(fields[taskRecurrence].Value)
	if err != nil {
		return store.TaskInput{}, err
	}
	start, err := parseDate("start", fields[taskStart].Value)
	if err != nil {
		return store.TaskInput{}, err
	}
	due, err := parseDate("due", fields[taskDue].Value)
	if err != nil {
		return store.TaskInput{}, err
	}
	until, err := parseDate("repeat until", fields[taskRecurrenceEnd].Value)
	if err != nil {
		return store.TaskInput{}, err
	}

	return store.TaskInput{
		Title:             title,
		Description:       strings.TrimSpace(fields[taskDescription].Value),
		Status:            status,
		Priority:          priority,
		StartDate:         start,
		DueDate:           due,
		RecurrenceType:    recurrence,
		RecurrenceEndDate: until,
		ShowInCalendar:    fields[taskShowInCalendar].Value == "yes",
	}, nil
}

func taskPatch(input store.TaskInput) store.TaskPatch {
	return store.TaskPatch{
		Title:             store.Ptr(input.Title),
		Description:       store.Ptr(input.Description),
		Status:            store.Ptr(input.Status),
		Priority:          store.Ptr(input.Priority),
		StartDate:         store.Nullable[civil.Date]{Set: true, Value: input.StartDate},
		DueDate:           store.Nullable[civil.Date]{Set: true, Value: input.DueDate},
		RecurrenceType:    store.Ptr(input.RecurrenceType),
		RecurrenceEndDate: store.Nullable[civil.Date]{Set: true, Value: input.RecurrenceEndDate},
		ShowInCalendar:    store.Ptr(input.ShowInCalendar),
	}
}

func subtaskFields(subtask *model.Subtask) []formField {
	fields := []formField{{Label: "Title"}}
	if subtask != nil {
		fields[0].Value = subtask.Title
	}
	return fields
}

func parseSubtaskFields(fields []formField) (string, error) {
	return required(fields[0].Value, errTitleRequired)
}

const (
	personalTitle = iota
	personalDescription
	personalDue
	personalStatus
	personalPriority
)

func personalFields(task *model.PersonalTask) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Due (YYYY-MM-DD)"},
		{Label: "Status", Value: string(model.TaskNotStarted), Options: enumOptions(model.TaskStatuses)},
		{Label: "Priority", Value: string(model.PriorityMedium), Options: enumOptions(model.Priorities)},
	}
	if task == nil {
		return fields
	}
	fields[personalTitle].Value = task.Title
	fields[personalDescription].Value = task.Description
	fields[personalDue].Value = dateValue(task.DueDate)
	fields[personalStatus].Value = string(task.Status)
	fields[personalPriority].Value = string(task.Priority)
	return fields
}

func parsePersonalFields(fields []formField) (store.PersonalTaskInput, error) {
	title, err := required(fields[personalTitle].Value, errTitleRequired)
	if err != nil {
		return store.PersonalTaskInput{}, err
	}
	due, err := parseDate("due", fields[personalDue].Value)
	if err != nil {
		return store.PersonalTaskInput{}, err
	}
	status, err := model.ParseTaskStatus(fields[personalStatus].Value)
	if err != nil {
		return store.PersonalTaskInput{}, err
	}
	priority, err := model.ParsePriority(fields[personalPriority].Value)
	if err != nil {
		return store.PersonalTaskInput{}, err
	}
	return store.PersonalTaskInput{
		Title:       title,
		Description: strings.TrimSpace(fields[personalDescription].Value),
		DueDate:     due,
		Status:      status,
		Priority:    priority,
	}, nil
}

const (
	eventTitle = iota
	eventDescription
	eventStart
	eventEnd
	eventType
	eventLinked
)

// eventFields offers to link the event to projectName, the selected
// project when the form opened.
func eventFields(event *model.Event, projectName string, defaultStart time.Time) []formField {
	linked := "no"
	if projectName != "" {
		linked = "yes"
	}
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Start (YYYY-MM-DD HH:MM)", Value: defaultStart.Format(dateTimeLayout)},
		{Label: "End (YYYY-MM-DD HH:MM)"},
		{Label: "Type", Value: string(model.EventMeeting), Options: enumOptions(model.EventTypes)},
		{Label: "Link to " + projectLabel(projectName), Value: linked, Options: yesNo},
	}
	if event == nil {
		return fields
	}
	fields[eventTitle].Value = event.Title
	fields[eventDescription].Value = event.Description
	fields[eventStart].Value = event.StartDateTime.Local().Format(dateTimeLayout)
	fields[eventEnd].Value = event.EndDateTime.Local().Format(dateTimeLayout)
	fields[eventType].Value = string(event.EventType)
	if event.ProjectID == nil {
		fields[eventLinked].Value = "no"
	}
	return fields
}

func projectLabel(name string) string {
	if name == "" {
		return "project"
	}
	return fmt.Sprintf("project %q", name)
}

// parseEventFields links the event to projectID when the link field says
// yes and projectID is known.
func parseEventFields(fields []formField, projectID string) (store.EventInput, error) {
	title, err := required(fields[eventTitle].Value, errTitleRequired)
	if err != nil {
		return store.EventInput{}, err
	}
	start, err := parseDateTime("start", fields[eventStart].Value)
	if err != nil {
		return store.EventInput{}, err
	}
	if start.IsZero() {
		return store.EventInput{}, errors.New("start time is required")
	}
	end, err := parseDateTime("end", fields[eventEnd].Value)
	if err != nil {
		return store.EventInput{}, err
	}
	kind, err := model.ParseEventType(fields[eventType].Value)
	if err != nil {
		return store.EventInput{}, err
	}

	input := store.EventInput{
		Title:         title,
		Description:   strings.TrimSpace(fields[eventDescription].Value),
		StartDateTime: start,
		EndDateTime:   end,
		EventType:     kind,
	}
	if fields[eventLinked].Value == "yes" && projectID != "" {
		input.ProjectID = store.Ptr(projectID)
	}
	return input, nil
}

func eventPatch(input store.EventInput) store.EventPatch {
	end := input.EndDateTime
	if end.IsZero() {
		end = input.StartDateTime
	}
	return store.EventPatch{
		ProjectID:     store.Nullable[string]{Set: true, Value: input.ProjectID},
		Title:         store.Ptr(input.Title),
		Description:   store.Ptr(input.Description),
		StartDateTime: store.Ptr(input.StartDateTime),
		EndDateTime:   store.Ptr(end),
		EventType:     store.Ptr(input.EventType),
	}
}
