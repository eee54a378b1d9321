package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// Task is one line of the progress display.
type Task struct {
	ID       TaskID
	Name     string
	Unit     string // noun for Count, e.g. "queries"
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error
}

// NewTask creates a pending task.
func NewTask(id TaskID, name, unit string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Unit:   unit,
		Status: StatusPending,
	}
}

// View renders the task as a single line.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	icon := StatusIcon(t.Status, spinnerFrame)

	name := taskNameStyle.Render(t.Name)
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	}
	line := fmt.Sprintf("  %s %s", icon, name)

	switch {
	case t.Status == StatusRunning && t.Progress > 0:
		line += fmt.Sprintf(" %s %d%%", prog.ViewAs(t.Progress), int(t.Progress*100))
		if t.Message != "" {
			line += " " + messageStyle.Render("("+t.Message+")")
		}
	case t.Status == StatusComplete:
		line += " " + messageStyle.Render(fmt.Sprintf("(%d %s)", t.Count, t.Unit))
	case t.Message != "":
		line += " " + messageStyle.Render(t.Message)
	}

	if t.Error != nil {
		line += " " + errorStyle.Render(t.Error.Error())
	}
	return line
}
