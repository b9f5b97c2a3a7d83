package store

import (
	"github.com/Joseda-hg/lazyplan/internal/model"
)

// Zero-valued enums in inputs fall back to these defaults.
const (
	defaultProjectStatus = model.ProjectActive
	defaultTaskStatus    = model.TaskNotStarted
	defaultPriority      = model.PriorityMedium
	defaultRecurrence    = model.RecurrenceNone
	defaultSubtaskStatus = model.SubtaskTodo
	defaultEventType     = model.EventOther
)

func orDefault[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

func (s *Store) Workspace(id string) (model.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, workspace := range s.doc.Workspaces {
		if workspace.ID == id {
			return workspace, true
		}
	}
	return model.Workspace{}, false
}

func (s *Store) AddWorkspace(input WorkspaceInput) model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	workspace := model.Workspace{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.doc.Workspaces = append(s.doc.Workspaces, workspace)
	s.notify(Mutation{Entity: EntityWorkspace, Op: OpAdd, ID: workspace.ID})
	return workspace
}

func (s *Store) UpdateWorkspace(id string, patch WorkspacePatch) (model.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Workspaces {
		workspace := &s.doc.Workspaces[i]
		if workspace.ID != id {
			continue
		}
		set(&workspace.Name, patch.Name)
		set(&workspace.Description, patch.Description)
		workspace.UpdatedAt = s.timestamp()
		s.notify(Mutation{Entity: EntityWorkspace, Op: OpUpdate, ID: id})
		return *workspace, true
	}
	return model.Workspace{}, false
}

// DeleteWorkspace removes the workspace with its projects, their tasks and
// subtasks, and every event attached to one of those projects.
func (s *Store) DeleteWorkspace(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	workspaces := s.doc.Workspaces[:0:0]
	for _, workspace := range s.doc.Workspaces {
		if workspace.ID == id {
			found = true
			continue
		}
		workspaces = append(workspaces, workspace)
	}
	if !found {
		return false
	}

	var projectIDs []string
	projects := s.doc.Projects[:0:0]
	for _, project := range s.doc.Projects {
		if project.WorkspaceID == id {
			projectIDs = append(projectIDs, project.ID)
			continue
		}
		projects = append(projects, project)
	}

	s.doc.Workspaces = workspaces
	s.doc.Projects = projects
	s.removeProjectChildren(idSet(projectIDs))
	s.notify(Mutation{Entity: EntityWorkspace, Op: OpDelete, ID: id})
	return true
}

func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, project := range s.doc.Projects {
		if project.ID == id {
			return project, true
		}
	}
	return model.Project{}, false
}

// AddProject does not check that the workspace exists.
func (s *Store) AddProject(input ProjectInput) model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	project := model.Project{
		ID:          s.newID(),
		WorkspaceID: input.WorkspaceID,
		Name:        input.Name,
		Description: input.Description,
		Status:      orDefault(input.Status, defaultProjectStatus),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.doc.Projects = append(s.doc.Projects, project)
	s.notify(Mutation{Entity: EntityProject, Op: OpAdd, ID: project.ID})
	return project
}

func (s *Store) UpdateProject(id string, patch ProjectPatch) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Projects {
		project := &s.doc.Projects[i]
		if project.ID != id {
			continue
		}
		set(&project.WorkspaceID, patch.WorkspaceID)
		set(&project.Name, patch.Name)
		set(&project.Description, patch.Description)
		set(&project.Status, patch.Status)
		project.UpdatedAt = s.timestamp()
		s.notify(Mutation{Entity: EntityProject, Op: OpUpdate, ID: id})
		return *project, true
	}
	return model.Project{}, false
}

// DeleteProject removes the project, its tasks and their subtasks, and the
// events attached to it.
func (s *Store) DeleteProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	projects := s.doc.Projects[:0:0]
	for _, project := range s.doc.Projects {
		if project.ID == id {
			found = true
			continue
		}
		projects = append(projects, project)
	}
	if !found {
		return false
	}

	s.doc.Projects = projects
	s.removeProjectChildren(idSet([]string{id}))
	s.notify(Mutation{Entity: EntityProject, Op: OpDelete, ID: id})
	return true
}

func (s *Store) removeProjectChildren(projectIDs map[string]struct{}) {
	var taskIDs []string
	tasks := s.doc.Tasks[:0:0]
	for _, task := range s.doc.Tasks {
		if _, ok := projectIDs[task.ProjectID]; ok {
			taskIDs = append(taskIDs, task.ID)
			continue
		}
		tasks = append(tasks, task)
	}
	s.doc.Tasks = tasks
	s.removeSubtasksOf(idSet(taskIDs))

	events := s.doc.Events[:0:0]
	for _, event := range s.doc.Events {
		if event.ProjectID != nil {
			if _, ok := projectIDs[*event.ProjectID]; ok {
				continue
			}
		}
		events = append(events, event)
	}
	s.doc.Events = events
}

func (s *Store) removeSubtasksOf(taskIDs map[string]struct{}) {
	subtasks := s.doc.Subtasks[:0:0]
	for _, subtask := range s.doc.Subtasks {
		if _, ok := taskIDs[subtask.TaskID]; ok {
			continue
		}
		subtasks = append(subtasks, subtask)
	}
	s.doc.Subtasks = subtasks
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, task := range s.doc.Tasks {
		if task.ID == id {
			return task.Clone(), true
		}
	}
	return model.Task{}, false
}

// AddTask appends the task after its project's highest order. The project
// is not required to exist.
func (s *Store) AddTask(input TaskInput) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxOrder := 0
	for _, task := range s.doc.Tasks {
		if task.ProjectID == input.ProjectID && task.Order > maxOrder {
			maxOrder = task.Order
		}
	}

	now := s.timestamp()
	task := model.Task{
		ID:                s.newID(),
		ProjectID:         input.ProjectID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            orDefault(input.Status, defaultTaskStatus),
		Priority:          orDefault(input.Priority, defaultPriority),
		StartDate:         model.CloneDate(input.StartDate),
		DueDate:           model.CloneDate(input.DueDate),
		RecurrenceType:    orDefault(input.RecurrenceType, defaultRecurrence),
		RecurrenceEndDate: model.CloneDate(input.RecurrenceEndDate),
		ShowInCalendar:    input.ShowInCalendar,
		Order:             maxOrder + 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.doc.Tasks = append(s.doc.Tasks, task)
	s.notify(Mutation{Entity: EntityTask, Op: OpAdd, ID: task.ID})
	return task.Clone()
}

func (s *Store) UpdateTask(id string, patch TaskPatch) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Tasks {
		task := &s.doc.Tasks[i]
		if task.ID != id {
			continue
		}
		set(&task.ProjectID, patch.ProjectID)
		set(&task.Title, patch.Title)
		set(&task.Description, patch.Description)
		set(&task.Status, patch.Status)
		set(&task.Priority, patch.Priority)
		patch.StartDate.apply(&task.StartDate)
		patch.DueDate.apply(&task.DueDate)
		set(&task.RecurrenceType, patch.RecurrenceType)
		patch.RecurrenceEndDate.apply(&task.RecurrenceEndDate)
		set(&task.ShowInCalendar, patch.ShowInCalendar)
		set(&task.Order, patch.Order)
		task.UpdatedAt = s.timestamp()
		s.notify(Mutation{Entity: EntityTask, Op: OpUpdate, ID: id})
		return task.Clone(), true
	}
	return model.Task{}, false
}

// DeleteTask removes the task and its subtasks.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	tasks := s.doc.Tasks[:0:0]
	for _, task := range s.doc.Tasks {
		if task.ID == id {
			found = true
			continue
		}
		tasks = append(tasks, task)
	}
	if !found {
		return false
	}

	s.doc.Tasks = tasks
	s.removeSubtasksOf(idSet([]string{id}))
	s.notify(Mutation{Entity: EntityTask, Op: OpDelete, ID: id})
	return true
}

func (s *Store) AddSubtask(input SubtaskInput) model.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxOrder := 0
	for _, subtask := range s.doc.Subtasks {
		if subtask.TaskID == input.TaskID && subtask.Order > maxOrder {
			maxOrder = subtask.Order
		}
	}

	subtask := model.Subtask{
		ID:        s.newID(),
		TaskID:    input.TaskID,
		Title:     input.Title,
		Status:    orDefault(input.Status, defaultSubtaskStatus),
		Order:     maxOrder + 1,
		CreatedAt: s.timestamp(),
	}
	s.doc.Subtasks = append(s.doc.Subtasks, subtask)
	s.notify(Mutation{Entity: EntitySubtask, Op: OpAdd, ID: subtask.ID})
	return subtask
}

// UpdateSubtask has no updated_at to refresh.
func (s *Store) UpdateSubtask(id string, patch SubtaskPatch) (model.Subtask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Subtasks {
		subtask := &s.doc.Subtasks[i]
		if subtask.ID != id {
			continue
		}
		set(&subtask.Title, patch.Title)
		set(&subtask.Status, patch.Status)
		set(&subtask.Order, patch.Order)
		s.notify(Mutation{Entity: EntitySubtask, Op: OpUpdate, ID: id})
		return *subtask, true
	}
	return model.Subtask{}, false
}

func (s *Store) DeleteSubtask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtasks := s.doc.Subtasks[:0:0]
	for _, subtask := range s.doc.Subtasks {
		if subtask.ID != id {
			subtasks = append(subtasks, subtask)
		}
	}
	if len(subtasks) == len(s.doc.Subtasks) {
		return false
	}
	s.doc.Subtasks = subtasks
	s.notify(Mutation{Entity: EntitySubtask, Op: OpDelete, ID: id})
	return true
}

func (s *Store) AddEvent(input EventInput) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projectID *string
	if input.ProjectID != nil {
		projectID = Ptr(*input.ProjectID)
	}
	event := model.Event{
		ID:            s.newID(),
		ProjectID:     projectID,
		Title:         input.Title,
		Description:   input.Description,
		StartDateTime: input.StartDateTime,
		EndDateTime:   input.EndDateTime,
		EventType:     orDefault(input.EventType, defaultEventType),
		CreatedAt:     s.timestamp(),
	}
	if event.EndDateTime.IsZero() {
		event.EndDateTime = event.StartDateTime
	}
	s.doc.Events = append(s.doc.Events, event)
	s.notify(Mutation{Entity: EntityEvent, Op: OpAdd, ID: event.ID})
	return event.Clone()
}

func (s *Store) UpdateEvent(id string, patch EventPatch) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Events {
		event := &s.doc.Events[i]
		if event.ID != id {
			continue
		}
		patch.ProjectID.apply(&event.ProjectID)
		set(&event.Title, patch.Title)
		set(&event.Description, patch.Description)
		set(&event.StartDateTime, patch.StartDateTime)
		set(&event.EndDateTime, patch.EndDateTime)
		set(&event.EventType, patch.EventType)
		s.notify(Mutation{Entity: EntityEvent, Op: OpUpdate, ID: id})
		return event.Clone(), true
	}
	return model.Event{}, false
}

func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.doc.Events[:0:0]
	for _, event := range s.doc.Events {
		if event.ID != id {
			events = append(events, event)
		}
	}
	if len(events) == len(s.doc.Events) {
		return false
	}
	s.doc.Events = events
	s.notify(Mutation{Entity: EntityEvent, Op: OpDelete, ID: id})
	return true
}

func (s *Store) AddPersonalTask(input PersonalTaskInput) model.PersonalTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	task := model.PersonalTask{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     model.CloneDate(input.DueDate),
		Status:      orDefault(input.Status, defaultTaskStatus),
		Priority:    orDefault(input.Priority, defaultPriority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.doc.PersonalTasks = append(s.doc.PersonalTasks, task)
	s.notify(Mutation{Entity: EntityPersonalTask, Op: OpAdd, ID: task.ID})
	return task.Clone()
}

func (s *Store) UpdatePersonalTask(id string, patch PersonalTaskPatch) (model.PersonalTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.PersonalTasks {
		task := &s.doc.PersonalTasks[i]
		if task.ID != id {
			continue
		}
		set(&task.Title, patch.Title)
		set(&task.Description, patch.Description)
		patch.DueDate.apply(&task.DueDate)
		set(&task.Status, patch.Status)
		set(&task.Priority, patch.Priority)
		task.UpdatedAt = s.timestamp()
		s.notify(Mutation{Entity: EntityPersonalTask, Op: OpUpdate, ID: id})
		return task.Clone(), true
	}
	return model.PersonalTask{}, false
}

func (s *Store) DeletePersonalTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.doc.PersonalTasks[:0:0]
	for _, task := range s.doc.PersonalTasks {
		if task.ID != id {
			tasks = append(tasks, task)
		}
	}
	if len(tasks) == len(s.doc.PersonalTasks) {
		return false
	}
	s.doc.PersonalTasks = tasks
	s.notify(Mutation{Entity: EntityPersonalTask, Op: OpDelete, ID: id})
	return true
}
