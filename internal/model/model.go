package model

import (
	"time"

	"cloud.google.com/go/civil"
)

type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Project struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspace_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Task struct {
	ID                string         `json:"id"`
	ProjectID         string         `json:"project_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Status            TaskStatus     `json:"status"`
	Priority          Priority       `json:"priority"`
	StartDate         *civil.Date    `json:"start_date"`
	DueDate           *civil.Date    `json:"due_date"`
	RecurrenceType    RecurrenceType `json:"recurrence_type"`
	RecurrenceEndDate *civil.Date    `json:"recurrence_end_date"`
	ShowInCalendar    bool           `json:"show_in_calendar"`
	Order             int            `json:"order"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type Subtask struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"task_id"`
	Title     string        `json:"title"`
	Status    SubtaskStatus `json:"status"`
	Order     int           `json:"order"`
	CreatedAt time.Time     `json:"created_at"`
}

// Event is a calendar entry. ProjectID is nil for events that belong to no
// project; those survive every cascade delete.
type Event struct {
	ID            string    `json:"id"`
	ProjectID     *string   `json:"project_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDateTime time.Time `json:"start_datetime"`
	EndDateTime   time.Time `json:"end_datetime"`
	EventType     EventType `json:"event_type"`
	CreatedAt     time.Time `json:"created_at"`
}

type PersonalTask struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     *civil.Date `json:"due_date"`
	Status      TaskStatus  `json:"status"`
	Priority    Priority    `json:"priority"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// User is the persisted session record.
type User struct {
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// Document is the whole persisted state.
type Document struct {
	Workspaces    []Workspace    `json:"workspaces"`
	Projects      []Project      `json:"projects"`
	Tasks         []Task         `json:"tasks"`
	Subtasks      []Subtask      `json:"subtasks"`
	Events        []Event        `json:"events"`
	PersonalTasks []PersonalTask `json:"personalTasks"`
}

// Empty returns a document whose collections are all empty and non-nil, so
// it encodes as arrays rather than nulls.
func Empty() Document {
	return Document{
		Workspaces:    []Workspace{},
		Projects:      []Project{},
		Tasks:         []Task{},
		Subtasks:      []Subtask{},
		Events:        []Event{},
		PersonalTasks: []PersonalTask{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d Document) Normalize() Document {
	if d.Workspaces == nil {
		d.Workspaces = []Workspace{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Subtasks == nil {
		d.Subtasks = []Subtask{}
	}
	if d.Events == nil {
		d.Events = []Event{}
	}
	if d.PersonalTasks == nil {
		d.PersonalTasks = []PersonalTask{}
	}
	return d
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Workspaces:    append([]Workspace{}, d.Workspaces...),
		Projects:      append([]Project{}, d.Projects...),
		Tasks:         make([]Task, len(d.Tasks)),
		Subtasks:      append([]Subtask{}, d.Subtasks...),
		Events:        make([]Event, len(d.Events)),
		PersonalTasks: make([]PersonalTask, len(d.PersonalTasks)),
	}
	for i, task := range d.Tasks {
		out.Tasks[i] = task.Clone()
	}
	for i, event := range d.Events {
		out.Events[i] = event.Clone()
	}
	for i, task := range d.PersonalTasks {
		out.PersonalTasks[i] = task.Clone()
	}
	return out
}

func CloneDate(d *civil.Date) *civil.Date {
	if d == nil {
		return nil
	}
	value := *d
	return &value
}

func (t Task) Clone() Task {
	t.StartDate = CloneDate(t.StartDate)
	t.DueDate = CloneDate(t.DueDate)
	t.RecurrenceEndDate = CloneDate(t.RecurrenceEndDate)
	return t
}

func (e Event) Clone() Event {
	if e.ProjectID != nil {
		id := *e.ProjectID
		e.ProjectID = &id
	}
	return e
}

func (t PersonalTask) Clone() PersonalTask {
	t.DueDate = CloneDate(t.DueDate)
	return t
}
