package tui

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

func (u *UI) openForm(kind formKind, id, parentID string, fields []formField) {
	u.form = &formState{kind: kind, id: id, parentID: parentID, fields: fields}
	u.status = ""
}

func (u *UI) add(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	switch u.focus {
	case viewWorkspaces:
		u.openForm(formWorkspace, "", "", workspaceFields(nil))
	case viewProjects:
		workspace := u.currentWorkspace()
		if workspace == nil {
			u.status = "Create a workspace first"
			return nil
		}
		u.openForm(formProject, "", workspace.ID, projectFields(nil))
	case viewTasks:
		project := u.currentProject()
		if project == nil {
			u.status = "Create a project first"
			return nil
		}
		u.openForm(formTask, "", project.ID, taskFields(nil))
	case viewDetails:
		return u.addSubtask(gui, nil)
	case viewTodo:
		u.openForm(formPersonal, "", "", personalFields(nil))
	case viewTimeline:
		projectID, name := "", ""
		if project := u.currentProject(); project != nil {
			projectID, name = project.ID, project.Name
		}
		start := u.store.Now().Truncate(time.Hour).Add(time.Hour)
		u.openForm(formEvent, "", projectID, eventFields(nil, name, start))
	}
	return nil
}

func (u *UI) addSubtask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	task := u.currentTask()
	if task == nil {
		u.status = "Select a task first"
		return nil
	}
	u.openForm(formSubtask, "", task.ID, subtaskFields(nil))
	return nil
}

func (u *UI) edit(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	switch u.focus {
	case viewWorkspaces:
		if workspace := u.currentWorkspace(); workspace != nil {
			u.openForm(formWorkspace, workspace.ID, "", workspaceFields(workspace))
		}
	case viewProjects:
		if project := u.currentProject(); project != nil {
			u.openForm(formProject, project.ID, project.WorkspaceID, projectFields(project))
		}
	case viewTasks:
		if task := u.currentTask(); task != nil {
			u.openForm(formTask, task.ID, task.ProjectID, taskFields(task))
		}
	case viewDetails:
		if subtask := u.currentSubtask(); subtask != nil {
			u.openForm(formSubtask, subtask.ID, subtask.TaskID, subtaskFields(subtask))
		}
	case viewTodo:
		item := u.currentTodo()
		if item == nil {
			return nil
		}
		if item.Personal {
			for _, task := range u.doc.PersonalTasks {
				if task.ID == item.ID {
					u.openForm(formPersonal, task.ID, "", personalFields(&task))
					break
				}
			}
			return nil
		}
		if task, ok := views.FindTask(u.doc, item.ID); ok {
			u.openForm(formTask, task.ID, task.ProjectID, taskFields(&task))
		}
	case viewTimeline:
		event := u.currentEvent()
		if event == nil {
			return nil
		}
		projectID, name := "", ""
		if event.ProjectID != nil {
			projectID = *event.ProjectID
			name = views.ProjectName(u.doc, projectID)
		} else if project := u.currentProject(); project != nil {
			projectID, name = project.ID, project.Name
		}
		u.openForm(formEvent, event.ID, projectID, eventFields(event, name, event.StartDateTime))
	}
	return nil
}

func (u *UI) remove(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	var removed bool
	var label string
	switch u.focus {
	case viewWorkspaces:
		if workspace := u.currentWorkspace(); workspace != nil {
			removed, label = u.store.DeleteWorkspace(workspace.ID), workspace.Name
		}
	case viewProjects:
		if project := u.currentProject(); project != nil {
			removed, label = u.store.DeleteProject(project.ID), project.Name
		}
	case viewTasks:
		if task := u.currentTask(); task != nil {
			removed, label = u.store.DeleteTask(task.ID), task.Title
		}
	case viewDetails:
		if subtask := u.currentSubtask(); subtask != nil {
			removed, label = u.store.DeleteSubtask(subtask.ID), subtask.Title
		}
	case viewTodo:
		if item := u.currentTodo(); item != nil {
			if item.Personal {
				removed = u.store.DeletePersonalTask(item.ID)
			} else {
				removed = u.store.DeleteTask(item.ID)
			}
			label = item.Title
		}
	case viewTimeline:
		if event := u.currentEvent(); event != nil {
			removed, label = u.store.DeleteEvent(event.ID), event.Title
		}
	}

	if removed {
		u.status = fmt.Sprintf("Deleted %q", label)
	}
	u.loadData()
	return nil
}

func toggledStatus(status model.TaskStatus) model.TaskStatus {
	if status == model.TaskDone {
		return model.TaskTodo
	}
	return model.TaskDone
}

func (u *UI) toggleDone(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	switch u.focus {
	case viewTasks:
		if task := u.currentTask(); task != nil {
			u.store.UpdateTask(task.ID, store.TaskPatch{Status: store.Ptr(toggledStatus(task.Status))})
		}
	case viewDetails:
		if subtask := u.currentSubtask(); subtask != nil {
			next := model.SubtaskDone
			if subtask.Status == model.SubtaskDone {
				next = model.SubtaskTodo
			}
			u.store.UpdateSubtask(subtask.ID, store.SubtaskPatch{Status: &next})
		}
	case viewTodo:
		if item := u.currentTodo(); item != nil {
			next := toggledStatus(item.Status)
			if item.Personal {
				u.store.UpdatePersonalTask(item.ID, store.PersonalTaskPatch{Status: &next})
			} else {
				u.store.UpdateTask(item.ID, store.TaskPatch{Status: &next})
			}
		}
	}
	u.loadData()
	return nil
}

func (u *UI) recomputeOverdue(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	changed := u.store.RecomputeOverdue(u.store.Today())
	u.status = fmt.Sprintf("%d items marked overdue", changed)
	u.loadData()
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if err := u.saveForm(); err != nil {
		u.status = err.Error()
		u.renderForm(view)
		return nil
	}

	u.form = nil
	u.status = "Saved"
	u.restoreFocus(gui, viewForm)
	u.loadData()
	return nil
}

// saveForm writes the open form through the store. Edits of entities that
// vanished in the meantime report an error and keep the form open.
func (u *UI) saveForm() error {
	form := u.form
	found := true

	switch form.kind {
	case formWorkspace:
		input, err := parseWorkspaceFields(form.fields)
		if err != nil {
			return err
		}
		if form.id == "" {
			u.store.AddWorkspace(input)
			break
		}
		_, found = u.store.UpdateWorkspace(form.id, store.WorkspacePatch{Name: &input.Name, Description: &input.Description})
	case formProject:
		input, err := parseProjectFields(form.fields)
		if err != nil {
			return err
		}
		input.WorkspaceID = form.parentID
		if form.id == "" {
			u.store.AddProject(input)
			break
		}
		_, found = u.store.UpdateProject(form.id, store.ProjectPatch{Name: &input.Name, Description: &input.Description, Status: &input.Status})
	case formTask:
		input, err := parseTaskFields(form.fields)
		if err != nil {
			return err
		}
		input.ProjectID = form.parentID
		if form.id == "" {
			u.store.AddTask(input)
			break
		}
		_, found = u.store.UpdateTask(form.id, taskPatch(input))
	case formSubtask:
		title, err := parseSubtaskFields(form.fields)
		if err != nil {
			return err
		}
		if form.id == "" {
			u.store.AddSubtask(store.SubtaskInput{TaskID: form.parentID, Title: title})
			break
		}
		_, found = u.store.UpdateSubtask(form.id, store.SubtaskPatch{Title: &title})
	case formPersonal:
		input, err := parsePersonalFields(form.fields)
		if err != nil {
			return err
		}
		if form.id == "" {
			u.store.AddPersonalTask(input)
			break
		}
		_, found = u.store.UpdatePersonalTask(form.id, store.PersonalTaskPatch{
			Title:       &input.Title,
			Description: &input.Description,
			DueDate:     store.Nullable[civil.Date]{Set: true, Value: input.DueDate},
			Status:      &input.Status,
			Priority:    &input.Priority,
		})
	case formEvent:
		input, err := parseEventFields(form.fields, form.parentID)
		if err != nil {
			return err
		}
		if form.id == "" {
			u.store.AddEvent(input)
			break
		}
		_, found = u.store.UpdateEvent(form.id, eventPatch(input))
	}

	if !found {
		return fmt.Errorf("%s no longer exists", form.kind)
	}
	return nil
}
