package web

import (
	"net/http"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
)

func (s *Server) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot().Workspaces)
}

func (s *Server) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var req workspaceRequest
	if !decode(w, r, &req) {
		return
	}
	workspace := s.store.AddWorkspace(store.WorkspaceInput{Name: req.Name, Description: req.Description})
	writeStatus(w, http.StatusCreated, workspace)
}

func (s *Server) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req workspacePatchRequest
	if !decode(w, r, &req) {
		return
	}
	workspace, ok := s.store.UpdateWorkspace(id, store.WorkspacePatch{Name: req.Name, Description: req.Description})
	if !ok {
		notFound(w, "workspace", id)
		return
	}
	writeJSON(w, workspace)
}

func (s *Server) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteWorkspace(id) {
		notFound(w, "workspace", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) workspaceProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.ProjectsByWorkspace(r.PathValue("id")))
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot().Projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decode(w, r, &req) {
		return
	}
	project := s.store.AddProject(store.ProjectInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	writeStatus(w, http.StatusCreated, project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req projectPatchRequest
	if !decode(w, r, &req) {
		return
	}
	project, ok := s.store.UpdateProject(id, store.ProjectPatch{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if !ok {
		notFound(w, "project", id)
		return
	}
	writeJSON(w, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteProject(id) {
		notFound(w, "project", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) projectTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.TasksByProject(r.PathValue("id")))
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot().Tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}
	task := s.store.AddTask(store.TaskInput{
		ProjectID:         req.ProjectID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		StartDate:         req.StartDate,
		DueDate:           req.DueDate,
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate,
		ShowInCalendar:    req.ShowInCalendar,
	})
	writeStatus(w, http.StatusCreated, task)
}

// taskDetail is a task with its ordered subtasks.
type taskDetail struct {
	Task     model.Task      `json:"task"`
	Subtasks []model.Subtask `json:"subtasks"`
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := s.store.Task(id)
	if !ok {
		notFound(w, "task", id)
		return
	}
	writeJSON(w, taskDetail{Task: task, Subtasks: s.store.SubtasksByTask(id)})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req taskPatchRequest
	if !decode(w, r, &req) {
		return
	}
	task, ok := s.store.UpdateTask(id, store.TaskPatch{
		ProjectID:         req.ProjectID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		StartDate:         req.StartDate.patch(),
		DueDate:           req.DueDate.patch(),
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate.patch(),
		ShowInCalendar:    req.ShowInCalendar,
		Order:             req.Order,
	})
	if !ok {
		notFound(w, "task", id)
		return
	}
	writeJSON(w, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteTask(id) {
		notFound(w, "task", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) taskSubtasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.SubtasksByTask(r.PathValue("id")))
}

func (s *Server) createSubtask(w http.ResponseWriter, r *http.Request) {
	var req subtaskRequest
	if !decode(w, r, &req) {
		return
	}
	subtask := s.store.AddSubtask(store.SubtaskInput{TaskID: req.TaskID, Title: req.Title, Status: req.Status})
	writeStatus(w, http.StatusCreated, subtask)
}

func (s *Server) updateSubtask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req subtaskPatchRequest
	if !decode(w, r, &req) {
		return
	}
	subtask, ok := s.store.UpdateSubtask(id, store.SubtaskPatch{Title: req.Title, Status: req.Status, Order: req.Order})
	if !ok {
		notFound(w, "subtask", id)
		return
	}
	writeJSON(w, subtask)
}

func (s *Server) deleteSubtask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteSubtask(id) {
		notFound(w, "subtask", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot().Events)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decode(w, r, &req) {
		return
	}
	event := s.store.AddEvent(store.EventInput{
		ProjectID:     req.ProjectID,
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime.Time(),
		EndDateTime:   req.EndDateTime.Time(),
		EventType:     req.EventType,
	})
	writeStatus(w, http.StatusCreated, event)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req eventPatchRequest
	if !decode(w, r, &req) {
		return
	}
	event, ok := s.store.UpdateEvent(id, store.EventPatch{
		ProjectID:     req.ProjectID.patch(),
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime.TimePtr(),
		EndDateTime:   req.EndDateTime.TimePtr(),
		EventType:     req.EventType,
	})
	if !ok {
		notFound(w, "event", id)
		return
	}
	writeJSON(w, event)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteEvent(id) {
		notFound(w, "event", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPersonalTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot().PersonalTasks)
}

func (s *Server) createPersonalTask(w http.ResponseWriter, r *http.Request) {
	var req personalTaskRequest
	if !decode(w, r, &req) {
		return
	}
	task := s.store.AddPersonalTask(store.PersonalTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	writeStatus(w, http.StatusCreated, task)
}

func (s *Server) updatePersonalTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req personalTaskPatchRequest
	if !decode(w, r, &req) {
		return
	}
	task, ok := s.store.UpdatePersonalTask(id, store.PersonalTaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.patch(),
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if !ok {
		notFound(w, "personal task", id)
		return
	}
	writeJSON(w, task)
}

func (s *Server) deletePersonalTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeletePersonalTask(id) {
		notFound(w, "personal task", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
