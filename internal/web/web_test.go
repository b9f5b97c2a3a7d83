package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Joseda-hg/lazyplan/internal/auth"
	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

type memorySessions struct {
	user *model.User
}

func (m *memorySessions) LoadUser(context.Context) *model.User { return m.user }
func (m *memorySessions) SaveUser(_ context.Context, user model.User) {
	m.user = &user
}
func (m *memorySessions) ClearUser(context.Context) { m.user = nil }

type harness struct {
	t       *testing.T
	store   *store.Store
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	next := 0
	s := store.New(model.Empty(),
		store.WithClock(func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }),
		store.WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%04d-xxxx", next)
		}),
	)
	gate := auth.NewGate(&memorySessions{})
	h := &harness{t: t, store: s, handler: NewServer(s, gate, zerolog.Nop()).Handler()}
	res := h.do(http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, res.Code)
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAPIRequiresLogin(t *testing.T) {
	s := store.New(model.Empty())
	handler := NewServer(s, auth.NewGate(&memorySessions{}), zerolog.Nop()).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workspaces", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"ok":false}`, rec.Body.String())
}

func TestWorkspaceLifecycle(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/workspaces", `{"name":"Office","description":"day job"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	workspace := decodeBody[model.Workspace](t, rec)
	assert.Equal(t, "Office", workspace.Name)

	rec = h.do(http.MethodPatch, "/api/workspaces/"+workspace.ID, `{"name":"HQ"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HQ", decodeBody[model.Workspace](t, rec).Name)

	rec = h.do(http.MethodGet, "/api/workspaces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Workspace](t, rec), 1)

	rec = h.do(http.MethodDelete, "/api/workspaces/"+workspace.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodDelete, "/api/workspaces/"+workspace.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"missing name", "/api/workspaces", `{"description":"x"}`},
		{"bad json", "/api/workspaces", `{"name":`},
		{"unknown field", "/api/workspaces", `{"name":"a","color":"red"}`},
		{"bad status", "/api/projects", `{"workspace_id":"w","name":"p","status":"paused"}`},
		{"bad priority", "/api/tasks", `{"project_id":"p","title":"t","priority":"urgent"}`},
		{"bad date", "/api/tasks", `{"project_id":"p","title":"t","due_date":"2024-13-01"}`},
		{"missing start", "/api/events", `{"title":"e"}`},
		{"bad start", "/api/events", `{"title":"e","start_datetime":"10/01/2024 09:00"}`},
		{"empty title", "/api/personal-tasks", `{"title":""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Empty(t, h.store.Snapshot().Workspaces)
	assert.Empty(t, h.store.Snapshot().Tasks)
}

func TestTaskPatchClearsDueDate(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/tasks",
		`{"project_id":"p","title":"Ship","start_date":"2024-01-08","due_date":"2024-01-12","show_in_calendar":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody[model.Task](t, rec)
	assert.Equal(t, 1, task.Order)

	rec = h.do(http.MethodPatch, "/api/tasks/"+task.ID, `{"due_date":null,"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[model.Task](t, rec)
	assert.Nil(t, updated.DueDate)
	require.NotNil(t, updated.StartDate)
	assert.Equal(t, "2024-01-08", updated.StartDate.String())
	assert.Equal(t, model.TaskInProgress, updated.Status)
}

func TestTaskDetailIncludesSubtasks(t *testing.T) {
	h := newHarness(t)

	task := decodeBody[model.Task](t, h.do(http.MethodPost, "/api/tasks", `{"project_id":"p","title":"Ship"}`))
	h.do(http.MethodPost, "/api/subtasks", fmt.Sprintf(`{"task_id":%q,"title":"one"}`, task.ID))
	h.do(http.MethodPost, "/api/subtasks", fmt.Sprintf(`{"task_id":%q,"title":"two"}`, task.ID))

	rec := h.do(http.MethodGet, "/api/tasks/"+task.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[taskDetail](t, rec)
	require.Len(t, detail.Subtasks, 2)
	assert.Equal(t, 2, detail.Subtasks[1].Order)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/tasks/missing", "").Code)
}

func TestEventAcceptsLocalDatetimes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/events",
		`{"title":"Standup","start_datetime":"2024-01-10T09:00","end_datetime":"2024-01-10T09:30:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decodeBody[model.Event](t, rec)
	assert.True(t, event.StartDateTime.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)))
	assert.True(t, event.EndDateTime.Equal(time.Date(2024, 1, 10, 9, 30, 0, 0, time.Local)))
	assert.Equal(t, model.EventMeeting, event.EventType)

	rec = h.do(http.MethodPatch, "/api/events/"+event.ID, `{"end_datetime":"2024-01-10T11:15"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[model.Event](t, rec)
	assert.True(t, updated.StartDateTime.Equal(event.StartDateTime), "absent start is left alone")
	assert.True(t, updated.EndDateTime.Equal(time.Date(2024, 1, 10, 11, 15, 0, 0, time.Local)))
}

func TestCalendarReportsSpanPositions(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodPost, "/api/tasks",
		`{"project_id":"p","title":"Ship","start_date":"2024-01-10","due_date":"2024-01-12","show_in_calendar":true}`)

	rec := h.do(http.MethodGet, "/api/calendar?mode=week&date=2024-01-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Mode string        `json:"mode"`
		Days []calendarDay `json:"days"`
	}](t, rec)
	assert.Equal(t, "week", body.Mode)
	require.Len(t, body.Days, 7)

	positions := map[string]string{}
	corners := map[string]views.Corners{}
	for _, day := range body.Days {
		for _, item := range day.Items {
			positions[day.Date.String()] = item.Position
			corners[day.Date.String()] = item.Corners
		}
	}
	assert.Equal(t, views.Corners{TopLeft: true, BottomLeft: true}, corners["2024-01-10"])
	assert.Equal(t, views.Corners{}, corners["2024-01-11"])
	assert.Equal(t, views.Corners{TopRight: true, BottomRight: true}, corners["2024-01-12"])
	assert.Equal(t, map[string]string{
		"2024-01-10": "start",
		"2024-01-11": "middle",
		"2024-01-12": "end",
	}, positions)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/calendar?mode=year", "").Code)
}

func TestGanttClampsToWindow(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodPost, "/api/tasks",
		`{"project_id":"p","title":"Ship","start_date":"2024-01-05","due_date":"2024-01-10"}`)
	h.do(http.MethodPost, "/api/tasks", `{"project_id":"p","title":"Someday"}`)

	rec := h.do(http.MethodGet, "/api/gantt?project=p&mode=week&anchor=2024-01-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Bars    []ganttBar `json:"bars"`
		Undated int        `json:"undated"`
	}](t, rec)
	require.Len(t, body.Bars, 1)
	assert.Equal(t, "2024-01-07", body.Bars[0].End.String())
	assert.InDelta(t, 4.0/7.0, body.Bars[0].Offset, 1e-9)
	assert.InDelta(t, 3.0/7.0, body.Bars[0].Width, 1e-9)
	assert.True(t, body.Bars[0].ClippedEnd)
	assert.Equal(t, 1, body.Undated)
}

func TestTodosFilterAndSort(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodPost, "/api/personal-tasks", `{"title":"low","priority":"low","due_date":"2024-01-10"}`)
	h.do(http.MethodPost, "/api/personal-tasks", `{"title":"high","priority":"high","due_date":"2024-01-11"}`)
	h.do(http.MethodPost, "/api/tasks", `{"project_id":"p","title":"later","priority":"high","due_date":"2024-02-01"}`)

	rec := h.do(http.MethodGet, "/api/todos?period=weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Items     []struct{ Title string } `json:"items"`
		Reminders []struct{ Title string } `json:"reminders"`
	}](t, rec)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "high", body.Items[0].Title)
	assert.Equal(t, "low", body.Items[1].Title)
	assert.Len(t, body.Reminders, 2)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/todos?period=yearly", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/todos?priority=urgent", "").Code)
}

func TestOverdueEndpoint(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodPost, "/api/tasks", `{"project_id":"p","title":"late","status":"in_progress","due_date":"2024-01-09"}`)
	h.do(http.MethodPost, "/api/tasks", `{"project_id":"p","title":"done","status":"done","due_date":"2024-01-09"}`)

	rec := h.do(http.MethodPost, "/api/overdue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"changed":1}`, rec.Body.String())
}

func TestExportDownload(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusConflict, h.do(http.MethodGet, "/api/export", "").Code)

	h.do(http.MethodPost, "/api/projects", `{"workspace_id":"w","name":"Launch"}`)
	rec := h.do(http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="lazyplan_2024-01-10.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Launch", rows[1][2])
	assert.Equal(t, "-", rows[1][1])
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/session", "").Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodPost, "/api/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/dashboard", "").Code)
}
