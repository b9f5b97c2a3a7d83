package views

import (
	"cloud.google.com/go/civil"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

// ShouldBeOverdue reports whether an item with this due date and status is
// past due on today. Done items are never overdue.
func ShouldBeOverdue(due *civil.Date, status model.TaskStatus, today civil.Date) bool {
	if due == nil {
		return false
	}
	switch status {
	case model.TaskDone:
		return false
	case model.TaskNotStarted, model.TaskTodo, model.TaskInProgress, model.TaskHold, model.TaskOverdue:
		return due.Before(today)
	}
	return false
}

// EffectiveStatus is the status to display on today without touching the
// stored value.
func EffectiveStatus(status model.TaskStatus, due *civil.Date, today civil.Date) model.TaskStatus {
	if ShouldBeOverdue(due, status, today) {
		return model.TaskOverdue
	}
	return status
}

// RecomputeOverdue forces status overdue on every task and personal task
// that is past due. It never clears overdue. The returned count is the
// number of items whose stored status changed.
func RecomputeOverdue(doc model.Document, today civil.Date) (model.Document, int) {
	out := doc.Clone()
	changed := 0
	for i := range out.Tasks {
		task := &out.Tasks[i]
		if ShouldBeOverdue(task.DueDate, task.Status, today) && task.Status != model.TaskOverdue {
			task.Status = model.TaskOverdue
			changed++
		}
	}
	for i := range out.PersonalTasks {
		task := &out.PersonalTasks[i]
		if ShouldBeOverdue(task.DueDate, task.Status, today) && task.Status != model.TaskOverdue {
			task.Status = model.TaskOverdue
			changed++
		}
	}
	return out, changed
}
