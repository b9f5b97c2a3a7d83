package tui

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

const (
	viewHeader     = "header"
	viewFooter     = "footer"
	viewWorkspaces = "workspaces"
	viewProjects   = "projects"
	viewTasks      = "tasks"
	viewDetails    = "details"
	viewTodo       = "todo"
	viewTimeline   = "timeline"
	viewForm       = "form"
	viewHelp       = "help"
)

var focusOrder = []string{viewWorkspaces, viewProjects, viewTasks, viewDetails, viewTodo, viewTimeline}

type UI struct {
	store *store.Store
	gui   *gocui.Gui
	// load re-reads the persisted document on reload; nil keeps the
	// in-memory one.
	load func() model.Document

	doc   model.Document
	today civil.Date

	workspaces []model.Workspace
	projects   []model.Project
	tasks      []model.Task
	subtasks   []model.Subtask
	todos      []views.TodoItem
	events     []model.Event

	selectedWorkspace int
	selectedProject   int
	selectedTask      int
	selectedSubtask   int
	selectedTodo      int
	selectedEvent     int
	focus             string

	period       views.Period
	window       views.GanttWindow
	showCalendar bool

	form       *formState
	formEditor *formEditor
	helpActive bool
	status     string
}

type formState struct {
	kind     formKind
	id       string
	parentID string
	fields   []formField
	index    int
}

type formEditor struct {
	ui *UI
}

func newUI(s *store.Store) *UI {
	ui := &UI{
		store:  s,
		focus:  viewWorkspaces,
		period: views.PeriodWeekly,
		window: views.GanttWindow{Mode: views.WindowWeek, Anchor: s.Today()},
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

// Run starts the terminal UI on s. load, when set, is used by reload to pick
// up changes written by another process.
func Run(s *store.Store, load func() model.Document) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(s)
	ui.gui = gui
	ui.load = load
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.loadData()

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'a', u.add},
		{'e', u.edit},
		{'d', u.remove},
		{'x', u.toggleDone},
		{'s', u.addSubtask},
		{'o', u.recomputeOverdue},
		{'p', u.cyclePeriod},
		{'[', u.prevWindow},
		{']', u.nextWindow},
		{'m', u.toggleWindowMode},
		{'c', u.toggleCalendar},
		{'?', u.toggleHelp},
		{gocui.KeyTab, u.switchFocus},
		{'1', u.focusWorkspaces},
		{'2', u.focusProjects},
		{'3', u.focusTasks},
		{'4', u.focusDetails},
		{'5', u.focusTodo},
		{'6', u.focusTimeline},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, name := range focusOrder {
		for _, key := range []any{gocui.KeyArrowDown, 'j'} {
			if err := gui.SetKeybinding(name, key, gocui.ModNone, u.moveDown); err != nil {
				return err
			}
		}
		for _, key := range []any{gocui.KeyArrowUp, 'k'} {
			if err := gui.SetKeybinding(name, key, gocui.ModNone, u.moveUp); err != nil {
				return err
			}
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
		viewName := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewName, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, viewName, opts)
		}}); err != nil {
			return err
		}
	}

	formBindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyEnter, u.submitForm},
		{gocui.KeyCtrlJ, u.submitForm},
		{gocui.KeyTab, u.nextFormField},
		{gocui.KeyBacktab, u.prevFormField},
		{gocui.KeyArrowDown, u.nextFormField},
		{gocui.KeyArrowUp, u.prevFormField},
		{gocui.KeyEsc, u.cancelForm},
	}
	for _, binding := range formBindings {
		if err := gui.SetKeybinding(viewForm, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, key := range []any{gocui.KeyEsc, 'q', '?'} {
		if err := gui.SetKeybinding(viewHelp, key, gocui.ModNone, u.closeHelp); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	l := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX0 := 0
	leftX1 := leftX0 + l.leftWidth - 1
	rightX0 := leftX1 + 1
	if rightX0 >= maxX {
		rightX0 = leftX1
	}
	rightX1 := maxX - 1

	workspacesY1 := bodyTop + l.workspacesHeight - 1
	projectsY1 := workspacesY1 + l.projectsHeight
	detailsY1 := bodyTop + l.detailsHeight - 1
	todoY1 := detailsY1 + l.todoHeight

	panes := []struct {
		name           string
		title          string
		color          gocui.Attribute
		x0, y0, x1, y1 int
		highlight      bool
		render         func(*gocui.View)
	}{
		{viewWorkspaces, "1 Workspaces", gocui.ColorMagenta, leftX0, bodyTop, leftX1, workspacesY1, true, u.renderWorkspaces},
		{viewProjects, "2 Projects", gocui.ColorYellow, leftX0, workspacesY1 + 1, leftX1, projectsY1, true, u.renderProjects},
		{viewTasks, "3 Tasks", gocui.ColorRed, leftX0, projectsY1 + 1, leftX1, bodyBottom, true, u.renderTasks},
		{viewDetails, "4 Details", gocui.ColorDefault, rightX0, bodyTop, rightX1, detailsY1, false, u.renderDetails},
		{viewTodo, "5 To-Do", gocui.ColorGreen, rightX0, detailsY1 + 1, rightX1, todoY1, true, u.renderTodo},
		{viewTimeline, "6 Timeline", gocui.ColorCyan, rightX0, todoY1 + 1, rightX1, bodyBottom, false, u.renderTimeline},
	}
	for _, pane := range panes {
		view, err := gui.SetView(pane.name, pane.x0, pane.y0, pane.x1, pane.y1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		if goerrors.Is(err, gocui.ErrUnknownView) {
			view.Title = pane.title
		}
		applyViewStyle(view, u.focus == pane.name, pane.highlight)
		if u.focus != pane.name {
			view.TitleColor = pane.color
		}
		pane.render(view)
	}

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil
	return nil
}

type layout struct {
	leftWidth        int
	workspacesHeight int
	projectsHeight   int
	tasksHeight      int
	detailsHeight    int
	todoHeight       int
	timelineHeight   int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width-2, 20)
	safeHeight := max(height, 9)

	leftWidth := safeWidth * 2 / 5
	if leftWidth < 30 {
		leftWidth = 30
	}
	if leftWidth > safeWidth-20 {
		leftWidth = safeWidth / 2
	}

	workspacesHeight := max(safeHeight/4, 3)
	projectsHeight := max(safeHeight*3/10, 3)
	tasksHeight := safeHeight - workspacesHeight - projectsHeight
	if tasksHeight < 3 {
		tasksHeight = 3
		projectsHeight = max(safeHeight-workspacesHeight-tasksHeight, 3)
	}

	detailsHeight := max(safeHeight*7/20, 4)
	todoHeight := max(safeHeight*3/10, 3)
	timelineHeight := safeHeight - detailsHeight - todoHeight
	if timelineHeight < 4 {
		timelineHeight = 4
		todoHeight = max(safeHeight-detailsHeight-timelineHeight, 3)
	}

	return layout{
		leftWidth:        leftWidth,
		workspacesHeight: workspacesHeight,
		projectsHeight:   projectsHeight,
		tasksHeight:      tasksHeight,
		detailsHeight:    detailsHeight,
		todoHeight:       todoHeight,
		timelineHeight:   timelineHeight,
	}
}

// loadData rebuilds every pane's rows from a fresh snapshot and keeps the
// selections in range.
func (u *UI) loadData() {
	u.doc = u.store.Snapshot()
	u.today = u.store.Today()

	u.workspaces = u.doc.Workspaces
	u.selectedWorkspace = clampIndex(u.selectedWorkspace, len(u.workspaces))

	u.projects = nil
	if workspace := u.currentWorkspace(); workspace != nil {
		u.projects = views.ProjectsByWorkspace(u.doc.Projects, workspace.ID)
	}
	u.selectedProject = clampIndex(u.selectedProject, len(u.projects))

	u.tasks = nil
	if project := u.currentProject(); project != nil {
		u.tasks = views.TasksByProject(u.doc.Tasks, project.ID)
	}
	u.selectedTask = clampIndex(u.selectedTask, len(u.tasks))

	u.subtasks = nil
	if task := u.currentTask(); task != nil {
		u.subtasks = views.SubtasksByTask(u.doc.Subtasks, task.ID)
	}
	u.selectedSubtask = clampIndex(u.selectedSubtask, len(u.subtasks))

	u.todos = views.FilterTodos(views.TodoItems(u.doc), u.period, views.TodoFilter{}, u.today)
	u.selectedTodo = clampIndex(u.selectedTodo, len(u.todos))

	start, end := u.window.Start(), u.window.End()
	u.events = u.events[:0]
	for _, event := range u.doc.Events {
		day := civil.DateOf(event.StartDateTime)
		if !day.Before(start) && !day.After(end) {
			u.events = append(u.events, event)
		}
	}
	sort.SliceStable(u.events, func(i, j int) bool {
		return u.events[i].StartDateTime.Before(u.events[j].StartDateTime)
	})
	u.selectedEvent = clampIndex(u.selectedEvent, len(u.events))
}

func clampIndex(index, length int) int {
	if index >= length {
		index = length - 1
	}
	return max(index, 0)
}

func (u *UI) currentWorkspace() *model.Workspace {
	if u.selectedWorkspace >= 0 && u.selectedWorkspace < len(u.workspaces) {
		return &u.workspaces[u.selectedWorkspace]
	}
	return nil
}

func (u *UI) currentProject() *model.Project {
	if u.selectedProject >= 0 && u.selectedProject < len(u.projects) {
		return &u.projects[u.selectedProject]
	}
	return nil
}

func (u *UI) currentTask() *model.Task {
	if u.selectedTask >= 0 && u.selectedTask < len(u.tasks) {
		return &u.tasks[u.selectedTask]
	}
	return nil
}

func (u *UI) currentSubtask() *model.Subtask {
	if u.selectedSubtask >= 0 && u.selectedSubtask < len(u.subtasks) {
		return &u.subtasks[u.selectedSubtask]
	}
	return nil
}

func (u *UI) currentTodo() *views.TodoItem {
	if u.selectedTodo >= 0 && u.selectedTodo < len(u.todos) {
		return &u.todos[u.selectedTodo]
	}
	return nil
}

func (u *UI) currentEvent() *model.Event {
	if u.selectedEvent >= 0 && u.selectedEvent < len(u.events) {
		return &u.events[u.selectedEvent]
	}
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	stats := views.Dashboard(u.doc, u.store.Now())
	fmt.Fprintf(view, "lazyplan | %s | Workspaces: %d | Projects: %d | Tasks: %d | In progress: %d | Done: %d | Overdue: %d",
		u.today, stats.Workspaces, stats.Projects, stats.Tasks, stats.InProgress, stats.Done, stats.Overdue)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "a add | e edit | d delete | x done | s subtask | o overdue | p period | [ ] window | m week/month | c calendar")
	fmt.Fprintln(view, "tab cycle | 1-6 panes | j/k move | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func renderList(view *gocui.View, lines []string, selected int, focused bool, empty string) {
	view.Clear()
	if len(lines) == 0 {
		fmt.Fprint(view, empty)
		return
	}
	for i, line := range lines {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, line)
	}
	if focused {
		view.SetCursor(0, min(selected, len(lines)-1))
	}
}

func (u *UI) renderWorkspaces(view *gocui.View) {
	lines := make([]string, 0, len(u.workspaces))
	for _, workspace := range u.workspaces {
		lines = append(lines, formatWorkspaceSummary(workspace, len(views.ProjectsByWorkspace(u.doc.Projects, workspace.ID))))
	}
	renderList(view, lines, u.selectedWorkspace, u.focus == viewWorkspaces, "No workspaces, press a to add one")
}

func (u *UI) renderProjects(view *gocui.View) {
	lines := make([]string, 0, len(u.projects))
	for _, project := range u.projects {
		lines = append(lines, formatProjectSummary(project, views.CountTasks(u.doc.Tasks, project.ID)))
	}
	renderList(view, lines, u.selectedProject, u.focus == viewProjects, "No projects")
}

func (u *UI) renderTasks(view *gocui.View) {
	lines := make([]string, 0, len(u.tasks))
	for _, task := range u.tasks {
		lines = append(lines, formatTaskSummary(task, u.today))
	}
	renderList(view, lines, u.selectedTask, u.focus == viewTasks, "No tasks")
}

func (u *UI) renderDetails(view *gocui.View) {
	view.Clear()
	task := u.currentTask()
	if task == nil {
		fmt.Fprint(view, "No task selected")
		return
	}

	status := views.EffectiveStatus(task.Status, task.DueDate, u.today)
	lines := []string{
		task.Title,
		fmt.Sprintf("Project: %s", views.ProjectName(u.doc, task.ProjectID)),
		fmt.Sprintf("Status: %s | Priority: %s", status.Label(), task.Priority.Label()),
		fmt.Sprintf("Dates: %s .. %s", formatDate(task.StartDate), formatDate(task.DueDate)),
		fmt.Sprintf("Repeat: %s until %s | Calendar: %t", task.RecurrenceType.Label(), formatDate(task.RecurrenceEndDate), task.ShowInCalendar),
	}
	if description := strings.TrimSpace(task.Description); description != "" {
		lines = append(lines, "", description)
	}

	done := 0
	for _, subtask := range u.subtasks {
		if subtask.Status == model.SubtaskDone {
			done++
		}
	}
	lines = append(lines, "", fmt.Sprintf("Subtasks %d/%d:", done, len(u.subtasks)))
	for i, subtask := range u.subtasks {
		prefix := " "
		if i == u.selectedSubtask && u.focus == viewDetails {
			prefix = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %s", prefix, formatSubtaskSummary(subtask)))
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) renderTodo(view *gocui.View) {
	view.Title = fmt.Sprintf("5 To-Do: %s", periodLabel(u.period))
	lines := make([]string, 0, len(u.todos))
	for _, item := range u.todos {
		lines = append(lines, formatTodoSummary(item, u.today))
	}
	renderList(view, lines, u.selectedTodo, u.focus == viewTodo, "Nothing to do")
}

func (u *UI) renderTimeline(view *gocui.View) {
	view.Clear()
	x0, _, x1, _ := view.Dimensions()
	width := max(x1-x0-1, 1)
	start, end := u.window.Start(), u.window.End()

	if u.showCalendar {
		view.Title = fmt.Sprintf("6 Calendar %s .. %s", start, end)
		days := views.DaysBetween(start, end)
		for _, line := range calendarLines(views.CalendarItems(u.doc), days) {
			fmt.Fprintln(view, truncate(line, width))
		}
		fmt.Fprintln(view, "Events:")
		for i, event := range u.events {
			prefix := " "
			if i == u.selectedEvent && u.focus == viewTimeline {
				prefix = ">"
			}
			fmt.Fprintf(view, "%s %s %s\n", prefix, civil.DateOf(event.StartDateTime), formatEventSummary(event))
		}
		return
	}

	view.Title = fmt.Sprintf("6 Gantt %s .. %s", start, end)
	tasks := u.tasks
	if u.currentProject() == nil {
		tasks = u.doc.Tasks
	}
	labelWidth := min(20, max(width/3, 6))
	cols := max(width-labelWidth-1, u.window.Len())
	fmt.Fprintln(view, padRight("", labelWidth)+" "+ganttHeader(u.window, cols))
	for _, bar := range views.GanttBars(tasks, u.window) {
		fmt.Fprintln(view, padRight(truncate(bar.Title, labelWidth), labelWidth)+" "+ganttLine(bar, u.window, cols))
	}
	if undated := views.UndatedCount(tasks); undated > 0 {
		fmt.Fprintf(view, "%d tasks have no dates\n", undated)
	}
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)

	switch viewName {
	case viewWorkspaces:
		u.selectedWorkspace = min(row, len(u.workspaces)-1)
	case viewProjects:
		u.selectedProject = min(row, len(u.projects)-1)
	case viewTasks:
		u.selectedTask = min(row, len(u.tasks)-1)
	case viewTodo:
		u.selectedTodo = min(row, len(u.todos)-1)
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	next := focusOrder[0]
	for i, name := range focusOrder {
		if name == u.focus {
			next = focusOrder[(i+1)%len(focusOrder)]
			break
		}
	}
	return u.setFocus(gui, next)
}

func (u *UI) focusWorkspaces(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewWorkspaces)
}

func (u *UI) focusProjects(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewProjects)
}

func (u *UI) focusTasks(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTasks)
}

func (u *UI) focusDetails(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewDetails)
}

func (u *UI) focusTodo(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTodo)
}

func (u *UI) focusTimeline(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTimeline)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
	return u.reload(gui, nil)
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	return u.move(1)
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	return u.move(-1)
}

// move shifts the focused pane's selection. Moving a parent selection
// resets the children below it.
func (u *UI) move(delta int) error {
	if u.inputActive() {
		return nil
	}
	step := func(index *int, length int) bool {
		next := *index + delta
		if next < 0 || next >= length {
			return false
		}
		*index = next
		return true
	}

	switch u.focus {
	case viewWorkspaces:
		if step(&u.selectedWorkspace, len(u.workspaces)) {
			u.selectedProject, u.selectedTask, u.selectedSubtask = 0, 0, 0
		}
	case viewProjects:
		if step(&u.selectedProject, len(u.projects)) {
			u.selectedTask, u.selectedSubtask = 0, 0
		}
	case viewTasks:
		if step(&u.selectedTask, len(u.tasks)) {
			u.selectedSubtask = 0
		}
	case viewDetails:
		step(&u.selectedSubtask, len(u.subtasks))
	case viewTodo:
		step(&u.selectedTodo, len(u.todos))
	case viewTimeline:
		step(&u.selectedEvent, len(u.events))
	}
	u.loadData()
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.load != nil {
		u.store.Replace(u.load())
		u.status = "Reloaded"
	}
	u.loadData()
	return nil
}

func (u *UI) cyclePeriod(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.period = nextPeriod(u.period)
	u.selectedTodo = 0
	u.loadData()
	return nil
}

func (u *UI) prevWindow(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.window = u.window.Prev()
	u.loadData()
	return nil
}

func (u *UI) nextWindow(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.window = u.window.Next()
	u.loadData()
	return nil
}

func (u *UI) toggleWindowMode(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.window.Mode {
	case views.WindowWeek:
		u.window.Mode = views.WindowMonth
	case views.WindowMonth:
		u.window.Mode = views.WindowWeek
	}
	u.loadData()
	return nil
}

func (u *UI) toggleCalendar(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.showCalendar = !u.showCalendar
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	u.restoreFocus(gui, viewHelp)
	return nil
}

func (u *UI) restoreFocus(gui *gocui.Gui, overlay string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(overlay)
	_, _ = gui.SetCurrentView(u.focus)
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(64, maxX/2)
	height := 22
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(len(u.form.fields)+3, max(8, maxY-2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	if u.form.id == "" {
		view.Title = "New " + u.form.kind.String()
	} else {
		view.Title = "Edit " + u.form.kind.String()
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		label := field.Label
		if field.isChoice() {
			label += " (space/←→)"
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, label, field.Value)
	}
	if u.status != "" {
		fmt.Fprintf(view, "\n%s", u.status)
	}

	field := u.form.fields[u.form.index]
	label := field.Label + ": "
	if field.isChoice() {
		label = field.Label + " (space/←→): "
	}
	cursorX := len([]rune(label)) + len([]rune(field.Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if field.isChoice() {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleOption(field.Options, field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleOption(field.Options, field.Value, -1)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	u.status = ""
	u.restoreFocus(gui, viewForm)
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab cycle panes | 1 Workspaces | 2 Projects | 3 Tasks | 4 Details | 5 To-Do | 6 Timeline",
		"  j/k or arrows move selection (subtasks in Details, events in the calendar)",
		"  mouse click to focus/select, wheel scrolls",
		"",
		"Actions (act on the focused pane):",
		"  a add | e edit | d delete (cascades to children) | x toggle done",
		"  s add subtask to the selected task",
		"  o mark past-due items overdue",
		"",
		"To-Do:",
		"  p cycle period (today, week, month, personal, all)",
		"  a in the To-Do pane adds a personal to-do",
		"",
		"Timeline:",
		"  [ / ] previous/next window | m week/month | c Gantt/calendar",
		"  a in the Timeline pane adds an event",
		"",
		"Form:",
		"  tab/arrows move between fields | space/←→ cycle choices | enter save | esc cancel",
		"",
		"Other:",
		"  r reload | ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
