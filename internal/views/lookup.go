package views

import (
	"sort"

	"github.com/Joseda-hg/lazyplan/internal/model"
)

// Placeholder stands in for a label whose referenced entity is missing.
const Placeholder = "-"

func ProjectsByWorkspace(projects []model.Project, workspaceID string) []model.Project {
	result := make([]model.Project, 0)
	for _, project := range projects {
		if project.WorkspaceID == workspaceID {
			result = append(result, project)
		}
	}
	return result
}

// TasksByProject returns the project's tasks by ascending order. Equal
// orders keep insertion order.
func TasksByProject(tasks []model.Task, projectID string) []model.Task {
	result := make([]model.Task, 0)
	for _, task := range tasks {
		if task.ProjectID == projectID {
			result = append(result, task)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result
}

func SubtasksByTask(subtasks []model.Subtask, taskID string) []model.Subtask {
	result := make([]model.Subtask, 0)
	for _, subtask := range subtasks {
		if subtask.TaskID == taskID {
			result = append(result, subtask)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result
}

func FindWorkspace(doc model.Document, id string) (model.Workspace, bool) {
	for _, workspace := range doc.Workspaces {
		if workspace.ID == id {
			return workspace, true
		}
	}
	return model.Workspace{}, false
}

func FindProject(doc model.Document, id string) (model.Project, bool) {
	for _, project := range doc.Projects {
		if project.ID == id {
			return project, true
		}
	}
	return model.Project{}, false
}

func FindTask(doc model.Document, id string) (model.Task, bool) {
	for _, task := range doc.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func WorkspaceName(doc model.Document, id string) string {
	if workspace, ok := FindWorkspace(doc, id); ok {
		return workspace.Name
	}
	return Placeholder
}

func ProjectName(doc model.Document, id string) string {
	if project, ok := FindProject(doc, id); ok {
		return project.Name
	}
	return Placeholder
}

func CountTasks(tasks []model.Task, projectID string) int {
	count := 0
	for _, task := range tasks {
		if task.ProjectID == projectID {
			count++
		}
	}
	return count
}

func CountSubtasks(subtasks []model.Subtask, taskID string) int {
	count := 0
	for _, subtask := range subtasks {
		if subtask.TaskID == taskID {
			count++
		}
	}
	return count
}
