package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/export"
	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// dateParam reads a YYYY-MM-DD query parameter, falling back to today.
func (s *Server) dateParam(r *http.Request, name string) (civil.Date, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return s.store.Today(), nil
	}
	date, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return date, nil
}

func (s *Server) todos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period, err := views.ParsePeriod(query.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var filter views.TodoFilter
	if value := query.Get("status"); value != "" {
		status, err := model.ParseTaskStatus(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = &status
	}
	if value := query.Get("priority"); value != "" {
		priority, err := model.ParsePriority(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Priority = &priority
	}

	today := s.store.Today()
	items := views.TodoItems(s.store.Snapshot())
	writeJSON(w, struct {
		Period    views.Period     `json:"period"`
		Items     []views.TodoItem `json:"items"`
		Reminders []views.TodoItem `json:"reminders"`
	}{
		Period:    period,
		Items:     views.FilterTodos(items, period, filter, today),
		Reminders: views.UpcomingReminders(items, today),
	})
}

type calendarEntry struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Kind     string        `json:"kind"`
	Position string        `json:"position"`
	Corners  views.Corners `json:"corners"`
	Status   string        `json:"status,omitempty"`
	Type     string        `json:"event_type,omitempty"`
}

type calendarDay struct {
	Date  civil.Date      `json:"date"`
	Items []calendarEntry `json:"items"`
}

func parseCalendarMode(value string) (views.CalendarMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "month":
		return views.CalendarMonth, nil
	case "week":
		return views.CalendarWeek, nil
	case "day":
		return views.CalendarDay, nil
	}
	return 0, fmt.Errorf("unknown calendar mode %q", value)
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	anchor, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := parseCalendarMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	window := views.CalendarWindow{Mode: mode, Anchor: anchor}
	items := views.CalendarItems(s.store.Snapshot())
	days := make([]calendarDay, 0, 42)
	for _, date := range window.Days() {
		day := calendarDay{Date: date, Items: make([]calendarEntry, 0)}
		for _, item := range views.ItemsOn(items, date) {
			position := views.PositionOn(item, date)
			day.Items = append(day.Items, calendarEntry{
				ID:       item.ID,
				Title:    item.Title,
				Kind:     string(item.Kind),
				Position: position.String(),
				Corners:  position.Corners(),
				Status:   string(item.TaskStatus),
				Type:     string(item.EventType),
			})
		}
		days = append(days, day)
	}
	writeJSON(w, struct {
		Mode string        `json:"mode"`
		Days []calendarDay `json:"days"`
	}{Mode: mode.String(), Days: days})
}

type ganttBar struct {
	TaskID       string           `json:"task_id"`
	Title        string           `json:"title"`
	Status       model.TaskStatus `json:"status"`
	Start        civil.Date       `json:"start"`
	End          civil.Date       `json:"end"`
	ClippedStart bool             `json:"clipped_start"`
	ClippedEnd   bool             `json:"clipped_end"`
	Offset       float64          `json:"offset"`
	Width        float64          `json:"width"`
}

func (s *Server) gantt(w http.ResponseWriter, r *http.Request) {
	anchor, err := s.dateParam(r, "anchor")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, ok := views.ParseWindowMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown gantt mode %q", r.URL.Query().Get("mode")))
		return
	}

	tasks := s.store.Snapshot().Tasks
	if project := r.URL.Query().Get("project"); project != "" {
		tasks = s.store.TasksByProject(project)
	}

	window := views.GanttWindow{Mode: mode, Anchor: anchor}
	bars := make([]ganttBar, 0)
	for _, bar := range views.GanttBars(tasks, window) {
		bars = append(bars, ganttBar(bar))
	}
	writeJSON(w, struct {
		Start   civil.Date `json:"start"`
		End     civil.Date `json:"end"`
		Bars    []ganttBar `json:"bars"`
		Undated int        `json:"undated"`
	}{Start: window.Start(), End: window.End(), Bars: bars, Undated: views.UndatedCount(tasks)})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, views.Dashboard(s.store.Snapshot(), s.store.Now()))
}

func (s *Server) recomputeOverdue(w http.ResponseWriter, r *http.Request) {
	changed := s.store.RecomputeOverdue(s.store.Today())
	writeJSON(w, map[string]int{"changed": changed})
}

func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	if !export.HasData(doc) {
		writeError(w, http.StatusConflict, export.ErrNothingToExport)
		return
	}

	wb := export.Project(doc, export.Options{
		ProjectID: r.URL.Query().Get("project"),
		Today:     s.store.Today(),
	})
	var buf bytes.Buffer
	if err := export.Write(&buf, wb); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrNothingToExport) {
			status = http.StatusConflict
		}
		s.logger.Error().Err(err).Msg("export failed")
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(s.store.Now())))
	_, _ = w.Write(buf.Bytes())
}
