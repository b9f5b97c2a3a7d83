package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	clock := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	next := 0
	return store.New(model.Empty(),
		store.WithClock(func() time.Time { return clock }),
		store.WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}),
	)
}

func day(d int) *civil.Date {
	return &civil.Date{Year: 2024, Month: time.January, Day: d}
}

// seed creates one workspace with one project holding a task with a subtask.
func seed(s *store.Store) (model.Workspace, model.Project, model.Task) {
	workspace := s.AddWorkspace(store.WorkspaceInput{Name: "Home"})
	project := s.AddProject(store.ProjectInput{WorkspaceID: workspace.ID, Name: "Garden"})
	task := s.AddTask(store.TaskInput{ProjectID: project.ID, Title: "Plant tulips", DueDate: day(11)})
	s.AddSubtask(store.SubtaskInput{TaskID: task.ID, Title: "Buy bulbs"})
	return workspace, project, task
}

func TestDeleteWorkspaceFromPaneCascades(t *testing.T) {
	s := newTestStore(t)
	seed(s)
	s.AddWorkspace(store.WorkspaceInput{Name: "Work"})

	ui := newUI(s)
	ui.loadData()
	if len(ui.workspaces) != 2 || len(ui.projects) != 1 || len(ui.tasks) != 1 || len(ui.subtasks) != 1 {
		t.Fatalf("unexpected initial rows: %d workspaces, %d projects, %d tasks, %d subtasks",
			len(ui.workspaces), len(ui.projects), len(ui.tasks), len(ui.subtasks))
	}

	if err := ui.remove(nil, nil); err != nil {
		t.Fatalf("remove: %v", err)
	}

	doc := s.Snapshot()
	if len(doc.Workspaces) != 1 || doc.Workspaces[0].Name != "Work" {
		t.Fatalf("expected only Work to remain, got %+v", doc.Workspaces)
	}
	if len(doc.Projects) != 0 || len(doc.Tasks) != 0 || len(doc.Subtasks) != 0 {
		t.Fatalf("expected cascade, got %d projects, %d tasks, %d subtasks", len(doc.Projects), len(doc.Tasks), len(doc.Subtasks))
	}
	if ui.status != `Deleted "Home"` {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if ui.selectedWorkspace != 0 || len(ui.projects) != 0 {
		t.Fatalf("expected selection to move to the remaining workspace")
	}
}

func TestToggleDoneStates(t *testing.T) {
	s := newTestStore(t)
	_, _, task := seed(s)
	personal := s.AddPersonalTask(store.PersonalTaskInput{Title: "Call mom", DueDate: day(10)})

	t.Run("task pane", func(t *testing.T) {
		ui := newUI(s)
		ui.focus = viewTasks
		ui.loadData()
		if err := ui.toggleDone(nil, nil); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		updated, _ := s.Task(task.ID)
		if updated.Status != model.TaskDone {
			t.Fatalf("expected done, got %s", updated.Status)
		}
		if err := ui.toggleDone(nil, nil); err != nil {
			t.Fatalf("toggle back: %v", err)
		}
		updated, _ = s.Task(task.ID)
		if updated.Status != model.TaskTodo {
			t.Fatalf("expected todo, got %s", updated.Status)
		}
	})

	t.Run("details pane", func(t *testing.T) {
		ui := newUI(s)
		ui.focus = viewDetails
		ui.loadData()
		if err := ui.toggleDone(nil, nil); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		subtasks := s.SubtasksByTask(task.ID)
		if len(subtasks) != 1 || subtasks[0].Status != model.SubtaskDone {
			t.Fatalf("expected subtask done, got %+v", subtasks)
		}
	})

	t.Run("todo pane personal", func(t *testing.T) {
		ui := newUI(s)
		ui.focus = viewTodo
		ui.period = views.PeriodPersonal
		ui.loadData()
		if len(ui.todos) != 1 || ui.todos[0].ID != personal.ID {
			t.Fatalf("expected the personal to-do, got %+v", ui.todos)
		}
		if err := ui.toggleDone(nil, nil); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		doc := s.Snapshot()
		if doc.PersonalTasks[0].Status != model.TaskDone {
			t.Fatalf("expected personal to-do done, got %s", doc.PersonalTasks[0].Status)
		}
	})
}

func TestSubmitTaskForm(t *testing.T) {
	s := newTestStore(t)
	_, project, _ := seed(s)

	ui := newUI(s)
	ui.focus = viewTasks
	ui.loadData()
	if err := ui.add(nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ui.form == nil || ui.form.kind != formTask || ui.form.parentID != project.ID {
		t.Fatalf("expected a task form for %s, got %+v", project.ID, ui.form)
	}

	ui.form.fields[taskTitle].Value = "Water"
	ui.form.fields[taskPriority].Value = string(model.PriorityHigh)
	ui.form.fields[taskDue].Value = "2024-01-15"
	ui.form.fields[taskShowInCalendar].Value = "no"
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.form != nil {
		t.Fatalf("expected form to close, status %q", ui.status)
	}

	tasks := s.TasksByProject(project.ID)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	created := tasks[1]
	if created.Title != "Water" || created.Priority != model.PriorityHigh || created.ShowInCalendar {
		t.Fatalf("unexpected task %+v", created)
	}
	if created.DueDate == nil || *created.DueDate != *day(15) {
		t.Fatalf("unexpected due date %v", created.DueDate)
	}
	if created.Order != 2 {
		t.Fatalf("expected order 2, got %d", created.Order)
	}
}

func TestEditTaskFormClearsDates(t *testing.T) {
	s := newTestStore(t)
	_, _, task := seed(s)

	ui := newUI(s)
	ui.focus = viewTasks
	ui.loadData()
	if err := ui.edit(nil, nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if ui.form == nil || ui.form.id != task.ID {
		t.Fatalf("expected edit form for %s", task.ID)
	}
	if got := ui.form.fields[taskDue].Value; got != "2024-01-11" {
		t.Fatalf("expected prefilled due date, got %q", got)
	}

	ui.form.fields[taskDue].Value = ""
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	updated, _ := s.Task(task.ID)
	if updated.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", updated.DueDate)
	}
}

func TestSubmitFormKeepsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		field  int
		value  string
		status string
	}{
		{"empty title", taskTitle, "  ", "title is required"},
		{"bad due date", taskDue, "15/01/2024", "invalid due date"},
		{"bad start date", taskStart, "tomorrow", "invalid start date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			seed(s)
			ui := newUI(s)
			ui.focus = viewTasks
			ui.loadData()
			if err := ui.add(nil, nil); err != nil {
				t.Fatalf("add: %v", err)
			}
			ui.form.fields[taskTitle].Value = "Valid"
			ui.form.fields[tc.field].Value = tc.value

			if err := ui.submitForm(nil, nil); err != nil {
				t.Fatalf("submit: %v", err)
			}
			if ui.form == nil {
				t.Fatalf("expected form to stay open")
			}
			if ui.status != tc.status {
				t.Fatalf("expected status %q, got %q", tc.status, ui.status)
			}
			if got := len(s.Snapshot().Tasks); got != 1 {
				t.Fatalf("expected no new task, got %d tasks", got)
			}
		})
	}
}

func TestAddNeedsParentSelection(t *testing.T) {
	s := newTestStore(t)
	ui := newUI(s)
	ui.loadData()

	ui.focus = viewProjects
	if err := ui.add(nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ui.form != nil || ui.status != "Create a workspace first" {
		t.Fatalf("expected workspace prompt, got form %v status %q", ui.form, ui.status)
	}

	ui.focus = viewDetails
	if err := ui.addSubtask(nil, nil); err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if ui.form != nil || ui.status != "Select a task first" {
		t.Fatalf("expected task prompt, got status %q", ui.status)
	}
}

func TestEventFormLinksSelectedProject(t *testing.T) {
	s := newTestStore(t)
	_, project, _ := seed(s)

	ui := newUI(s)
	ui.focus = viewTimeline
	ui.loadData()
	if err := ui.add(nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ui.form == nil || ui.form.kind != formEvent {
		t.Fatalf("expected event form")
	}
	if got := ui.form.fields[eventLinked].Value; got != "yes" {
		t.Fatalf("expected link to default to yes, got %q", got)
	}
	if got := ui.form.fields[eventStart].Value; got != "2024-01-10 10:00" {
		t.Fatalf("expected start to default to the next hour, got %q", got)
	}

	ui.form.fields[eventTitle].Value = "Standup"
	ui.form.fields[eventStart].Value = "2024-01-11 09:30"
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	events := s.Snapshot().Events
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]
	if event.ProjectID == nil || *event.ProjectID != project.ID {
		t.Fatalf("expected event linked to %s, got %v", project.ID, event.ProjectID)
	}
	if !event.EndDateTime.Equal(event.StartDateTime) {
		t.Fatalf("expected end to default to start, got %v", event.EndDateTime)
	}
	if len(ui.events) != 1 {
		t.Fatalf("expected event in the timeline window, got %d", len(ui.events))
	}
}

func TestParseEventFieldsUnlinked(t *testing.T) {
	fields := eventFields(nil, "", time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local))
	fields[eventTitle].Value = "Dentist"
	fields[eventType].Value = string(model.EventReminder)

	input, err := parseEventFields(fields, "project-1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if input.ProjectID != nil {
		t.Fatalf("expected no project, got %v", *input.ProjectID)
	}
	if input.EventType != model.EventReminder {
		t.Fatalf("expected reminder, got %s", input.EventType)
	}

	fields[eventStart].Value = ""
	if _, err := parseEventFields(fields, ""); err == nil {
		t.Fatalf("expected missing start to fail")
	}
}

func TestMoveResetsChildSelections(t *testing.T) {
	s := newTestStore(t)
	first, _, _ := seed(s)
	second := s.AddWorkspace(store.WorkspaceInput{Name: "Work"})
	s.AddProject(store.ProjectInput{WorkspaceID: second.ID, Name: "Launch"})

	ui := newUI(s)
	ui.loadData()
	if ui.currentWorkspace().ID != first.ID {
		t.Fatalf("expected first workspace selected")
	}

	if err := ui.moveDown(nil, nil); err != nil {
		t.Fatalf("move: %v", err)
	}
	if ui.currentWorkspace().ID != second.ID {
		t.Fatalf("expected second workspace selected")
	}
	if len(ui.projects) != 1 || ui.projects[0].Name != "Launch" {
		t.Fatalf("expected Launch project, got %+v", ui.projects)
	}
	if len(ui.tasks) != 0 || ui.currentTask() != nil {
		t.Fatalf("expected no tasks for Launch")
	}

	if err := ui.moveDown(nil, nil); err != nil {
		t.Fatalf("move past end: %v", err)
	}
	if ui.selectedWorkspace != 1 {
		t.Fatalf("expected selection to stay at the end, got %d", ui.selectedWorkspace)
	}
}

func TestInputActiveBlocksActions(t *testing.T) {
	s := newTestStore(t)
	seed(s)
	ui := newUI(s)
	ui.loadData()
	ui.helpActive = true

	if err := ui.remove(nil, nil); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(s.Snapshot().Workspaces) != 1 {
		t.Fatalf("expected delete to be ignored while help is open")
	}
	if err := ui.quit(nil, nil); err == nil {
		t.Fatalf("expected quit to still work with help open")
	}
}

func TestRecomputeOverdueAction(t *testing.T) {
	s := newTestStore(t)
	workspace := s.AddWorkspace(store.WorkspaceInput{Name: "Home"})
	project := s.AddProject(store.ProjectInput{WorkspaceID: workspace.ID, Name: "Garden"})
	s.AddTask(store.TaskInput{ProjectID: project.ID, Title: "Late", DueDate: day(2)})

	ui := newUI(s)
	ui.loadData()
	if err := ui.recomputeOverdue(nil, nil); err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if ui.status != "1 items marked overdue" {
		t.Fatalf("unexpected status %q", ui.status)
	}
	if ui.tasks[0].Status != model.TaskOverdue {
		t.Fatalf("expected overdue, got %s", ui.tasks[0].Status)
	}
}

func TestReloadReplacesStoreFromDisk(t *testing.T) {
	s := newTestStore(t)
	seed(s)
	ui := newUI(s)
	ui.loadData()

	stored := model.Empty()
	stored.Workspaces = append(stored.Workspaces,
		model.Workspace{ID: "w-a", Name: "Attic"},
		model.Workspace{ID: "w-b", Name: "Basement"},
	)
	ui.load = func() model.Document { return stored }

	if err := ui.reload(nil, nil); err != nil {
		t.Fatalf("reload: %v", err)
	}
	doc := s.Snapshot()
	if len(doc.Workspaces) != 2 || len(doc.Projects) != 0 || len(doc.Tasks) != 0 {
		t.Fatalf("expected the stored document to replace memory, got %+v", doc)
	}
	if len(ui.workspaces) != 2 || ui.workspaces[0].Name != "Attic" || len(ui.projects) != 0 {
		t.Fatalf("expected panes to show the reloaded data, got %+v", ui.workspaces)
	}
	if ui.status != "Reloaded" {
		t.Fatalf("unexpected status %q", ui.status)
	}
}

func TestReloadWithoutLoaderKeepsMemory(t *testing.T) {
	s := newTestStore(t)
	seed(s)
	ui := newUI(s)

	if err := ui.reload(nil, nil); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(ui.workspaces) != 1 || len(s.Snapshot().Tasks) != 1 {
		t.Fatalf("expected in-memory data to be kept")
	}
}

func TestWindowNavigation(t *testing.T) {
	s := newTestStore(t)
	ui := newUI(s)
	ui.loadData()

	if ui.window.Start() != *day(8) {
		t.Fatalf("expected week of Jan 8, got %s", ui.window.Start())
	}
	if err := ui.nextWindow(nil, nil); err != nil {
		t.Fatalf("next: %v", err)
	}
	if ui.window.Start() != *day(15) {
		t.Fatalf("expected week of Jan 15, got %s", ui.window.Start())
	}
	if err := ui.toggleWindowMode(nil, nil); err != nil {
		t.Fatalf("mode: %v", err)
	}
	if ui.window.Start() != *day(1) || ui.window.Len() != 31 {
		t.Fatalf("expected January, got %s .. %s", ui.window.Start(), ui.window.End())
	}
}

func TestCyclePeriodWraps(t *testing.T) {
	period := views.PeriodWeekly
	seen := map[views.Period]bool{}
	for range views.Periods {
		period = nextPeriod(period)
		seen[period] = true
	}
	if period != views.PeriodWeekly || len(seen) != len(views.Periods) {
		t.Fatalf("expected a full cycle back to weekly, got %s after %d periods", period, len(seen))
	}
}

func TestCycleOption(t *testing.T) {
	options := enumOptions(model.Priorities)
	if got := cycleOption(options, "low", -1); got != options[len(options)-1] {
		t.Fatalf("expected wrap to last option, got %q", got)
	}
	if got := cycleOption(options, "unknown", 1); got != options[1] {
		t.Fatalf("expected unknown value to start from the first option, got %q", got)
	}
}

func TestGanttLine(t *testing.T) {
	window := views.GanttWindow{Mode: views.WindowWeek, Anchor: *day(10)}
	tasks := []model.Task{
		{ID: "a", Title: "Clipped", StartDate: day(12), DueDate: day(20)},
		{ID: "b", Title: "Inside", StartDate: day(9), DueDate: day(10)},
	}
	bars := views.GanttBars(tasks, window)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}

	if got := ganttLine(bars[0], window, 7); got != "    ##>" {
		t.Fatalf("unexpected clipped line %q", got)
	}
	if got := ganttLine(bars[1], window, 14); got != "  ####        " {
		t.Fatalf("unexpected wide line %q", got)
	}
	if got := ganttHeader(window, 14); got != "8 9 1011121314" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestCalendarLinesMarkSpans(t *testing.T) {
	items := []views.CalendarItem{
		{ID: "trip", Title: "Trip", Start: *day(9), End: *day(11)},
		{ID: "call", Title: "Call", Start: *day(10), End: *day(10)},
	}
	lines := calendarLines(items, views.DaysBetween(*day(8), *day(12)))
	want := []string{
		"Mon 01-08: ",
		"Tue 01-09: (Trip=",
		"Wed 01-10: =Trip=, (Call)",
		"Thu 01-11: =Trip)",
		"Fri 01-12: ",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected calendar:\n%s", strings.Join(lines, "\n"))
	}
}

func TestFormattingHelpers(t *testing.T) {
	task := model.Task{Title: "Late", Status: model.TaskTodo, Priority: model.PriorityHigh, DueDate: day(2)}
	got := formatTaskSummary(task, *day(10))
	if !strings.Contains(got, "Overdue") || !strings.HasPrefix(got, "[ ] Late") {
		t.Fatalf("unexpected task summary %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc~" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("unexpected pad %q", got)
	}
	if got := formatDate(nil); got != views.Placeholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestComputeLayoutFillsHeight(t *testing.T) {
	l := computeLayout(120, 40)
	if l.workspacesHeight+l.projectsHeight+l.tasksHeight != 40 {
		t.Fatalf("left column does not fill height: %+v", l)
	}
	if l.detailsHeight+l.todoHeight+l.timelineHeight != 40 {
		t.Fatalf("right column does not fill height: %+v", l)
	}
	if l.leftWidth < 30 {
		t.Fatalf("left column too narrow: %d", l.leftWidth)
	}
}
