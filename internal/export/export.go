// Package export flattens the document into spreadsheet rows and writes
// them as an .xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

var ErrNothingToExport = errors.New("nothing to export")

const (
	SheetProjects      = "Projects"
	SheetTasks         = "Tasks"
	SheetPersonalTodos = "Personal To-Dos"
	SheetEvents        = "Events"

	shortIDLen     = 8
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

type Workbook struct {
	Sheets []Sheet
}

func (wb Workbook) Sheet(name string) (Sheet, bool) {
	for _, sheet := range wb.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return Sheet{}, false
}

// Options narrow the export. An empty ProjectID exports every task.
type Options struct {
	ProjectID string
	Today     civil.Date
}

// HasData reports whether any exportable collection is non-empty.
func HasData(doc model.Document) bool {
	return len(doc.Projects) > 0 || len(doc.Tasks) > 0 || len(doc.PersonalTasks) > 0 || len(doc.Events) > 0
}

// Project builds the four sheets. Missing references and null dates become
// the placeholder rather than failing.
func Project(doc model.Document, opts Options) Workbook {
	return Workbook{Sheets: []Sheet{
		projectSheet(doc),
		taskSheet(doc, opts),
		personalSheet(doc),
		eventSheet(doc),
	}}
}

func projectSheet(doc model.Document) Sheet {
	sheet := Sheet{
		Name:    SheetProjects,
		Columns: []string{"ID", "Workspace", "Project Name", "Status", "Task Count", "Created", "Description"},
		Rows:    make([][]any, 0, len(doc.Projects)),
	}
	for _, project := range doc.Projects {
		sheet.Rows = append(sheet.Rows, []any{
			shortID(project.ID),
			views.WorkspaceName(doc, project.WorkspaceID),
			project.Name,
			project.Status.Label(),
			views.CountTasks(doc.Tasks, project.ID),
			formatTime(project.CreatedAt, dateLayout),
			project.Description,
		})
	}
	return sheet
}

func taskSheet(doc model.Document, opts Options) Sheet {
	sheet := Sheet{
		Name: SheetTasks,
		Columns: []string{
			"ID", "Project Name", "Task Name", "Description", "Status", "Priority",
			"Start Date", "Due Date", "Recurrence", "Overdue", "Subtask Count",
		},
		Rows: make([][]any, 0, len(doc.Tasks)),
	}
	for _, task := range doc.Tasks {
		if opts.ProjectID != "" && task.ProjectID != opts.ProjectID {
			continue
		}
		sheet.Rows = append(sheet.Rows, []any{
			shortID(task.ID),
			views.ProjectName(doc, task.ProjectID),
			task.Title,
			task.Description,
			task.Status.Label(),
			task.Priority.Label(),
			formatDate(task.StartDate),
			formatDate(task.DueDate),
			task.RecurrenceType.Label(),
			yesNo(views.ShouldBeOverdue(task.DueDate, task.Status, opts.Today)),
			views.CountSubtasks(doc.Subtasks, task.ID),
		})
	}
	return sheet
}

func personalSheet(doc model.Document) Sheet {
	sheet := Sheet{
		Name:    SheetPersonalTodos,
		Columns: []string{"Title", "Description", "Due Date", "Status", "Priority"},
		Rows:    make([][]any, 0, len(doc.PersonalTasks)),
	}
	for _, task := range doc.PersonalTasks {
		sheet.Rows = append(sheet.Rows, []any{
			task.Title,
			task.Description,
			formatDate(task.DueDate),
			task.Status.Label(),
			task.Priority.Label(),
		})
	}
	return sheet
}

func eventSheet(doc model.Document) Sheet {
	sheet := Sheet{
		Name:    SheetEvents,
		Columns: []string{"ID", "Title", "Description", "Type", "Start", "End", "Project"},
		Rows:    make([][]any, 0, len(doc.Events)),
	}
	for _, event := range doc.Events {
		project := views.Placeholder
		if event.ProjectID != nil {
			project = views.ProjectName(doc, *event.ProjectID)
		}
		sheet.Rows = append(sheet.Rows, []any{
			shortID(event.ID),
			event.Title,
			event.Description,
			event.EventType.Label(),
			formatTime(event.StartDateTime, dateTimeLayout),
			formatTime(event.EndDateTime, dateTimeLayout),
			project,
		})
	}
	return sheet
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func formatDate(d *civil.Date) string {
	if d == nil {
		return views.Placeholder
	}
	return d.String()
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return views.Placeholder
	}
	return t.Format(layout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FileName is the workbook name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("lazyplan_%s.xlsx", now.Format(dateLayout))
}

// Write renders the workbook as .xlsx into w.
func Write(w io.Writer, wb Workbook) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveFile writes the workbook into dir and returns the file path.
func SaveFile(dir string, wb Workbook, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	f, err := build(wb)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(dir, FileName(now))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func build(wb Workbook) (*excelize.File, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNothingToExport
	}
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	columns := make([]any, len(sheet.Columns))
	for i, column := range sheet.Columns {
		columns[i] = column
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &columns); err != nil {
		return err
	}
	if len(sheet.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
