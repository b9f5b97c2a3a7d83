package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Joseda-hg/lazyplan/internal/auth"
	"github.com/Joseda-hg/lazyplan/internal/metrics"
	"github.com/Joseda-hg/lazyplan/internal/store"
)

const maxBodyBytes = 1 << 20

type Server struct {
	store  *store.Store
	gate   *auth.Gate
	logger zerolog.Logger
}

func NewServer(s *store.Store, gate *auth.Gate, logger zerolog.Logger) *Server {
	return &Server{store: s, gate: gate, logger: logger.With().Str("component", "web").Logger()}
}

func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /api/workspaces", s.listWorkspaces)
	api.HandleFunc("POST /api/workspaces", s.createWorkspace)
	api.HandleFunc("PATCH /api/workspaces/{id}", s.updateWorkspace)
	api.HandleFunc("DELETE /api/workspaces/{id}", s.deleteWorkspace)
	api.HandleFunc("GET /api/workspaces/{id}/projects", s.workspaceProjects)

	api.HandleFunc("GET /api/projects", s.listProjects)
	api.HandleFunc("POST /api/projects", s.createProject)
	api.HandleFunc("PATCH /api/projects/{id}", s.updateProject)
	api.HandleFunc("DELETE /api/projects/{id}", s.deleteProject)
	api.HandleFunc("GET /api/projects/{id}/tasks", s.projectTasks)

	api.HandleFunc("GET /api/tasks", s.listTasks)
	api.HandleFunc("POST /api/tasks", s.createTask)
	api.HandleFunc("GET /api/tasks/{id}", s.getTask)
	api.HandleFunc("PATCH /api/tasks/{id}", s.updateTask)
	api.HandleFunc("DELETE /api/tasks/{id}", s.deleteTask)
	api.HandleFunc("GET /api/tasks/{id}/subtasks", s.taskSubtasks)

	api.HandleFunc("POST /api/subtasks", s.createSubtask)
	api.HandleFunc("PATCH /api/subtasks/{id}", s.updateSubtask)
	api.HandleFunc("DELETE /api/subtasks/{id}", s.deleteSubtask)

	api.HandleFunc("GET /api/events", s.listEvents)
	api.HandleFunc("POST /api/events", s.createEvent)
	api.HandleFunc("PATCH /api/events/{id}", s.updateEvent)
	api.HandleFunc("DELETE /api/events/{id}", s.deleteEvent)

	api.HandleFunc("GET /api/personal-tasks", s.listPersonalTasks)
	api.HandleFunc("POST /api/personal-tasks", s.createPersonalTask)
	api.HandleFunc("PATCH /api/personal-tasks/{id}", s.updatePersonalTask)
	api.HandleFunc("DELETE /api/personal-tasks/{id}", s.deletePersonalTask)

	api.HandleFunc("GET /api/todos", s.todos)
	api.HandleFunc("GET /api/calendar", s.calendar)
	api.HandleFunc("GET /api/gantt", s.gantt)
	api.HandleFunc("GET /api/dashboard", s.dashboard)
	api.HandleFunc("POST /api/overdue", s.recomputeOverdue)
	api.HandleFunc("GET /api/export", s.exportWorkbook)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.requireSession(api))
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/logout", s.logout)
	mux.HandleFunc("GET /api/session", s.session)
	mux.Handle("GET /metrics", metrics.Handler())

	return s.withLogging(mux)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	return hlog.NewHandler(s.logger)(access(next))
}

// requireSession rejects API calls until the demo user has logged in.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.IsAuthenticated(r.Context()) {
			writeError(w, http.StatusUnauthorized, errors.New("login required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.gate.Login(r.Context(), req.Username, req.Password) {
		writeStatus(w, http.StatusUnauthorized, map[string]bool{"ok": false})
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	user := s.gate.Current(r.Context())
	if user == nil {
		writeError(w, http.StatusNotFound, errors.New("no session"))
		return
	}
	writeJSON(w, user)
}

// decode reads a JSON body into dst and validates it, writing a 400 on
// failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	writeStatus(w, http.StatusOK, payload)
}

func writeStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeStatus(w, status, map[string]string{"error": err.Error()})
}

func notFound(w http.ResponseWriter, kind, id string) {
	writeError(w, http.StatusNotFound, fmt.Errorf("%s %q not found", kind, id))
}
