package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the pipeline progress display.
type Model struct {
	tasks    []Task
	spinner  spinner.Model
	progress progress.Model
	events   <-chan Event
	onCancel func()
	brief    string
	done     bool
}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTasks replaces the default task list.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// WithCancel registers a function called when the user presses Ctrl+C.
// The terminal is in raw mode while the display runs, so this is the only
// way an interrupt reaches the pipeline.
func WithCancel(cancel func()) ModelOption {
	return func(m *Model) {
		m.onCancel = cancel
	}
}

// DefaultTasks returns one task per pipeline stage.
func DefaultTasks() []Task {
	return []Task{
		NewTask(TaskPlan, "Planning queries", "queries"),
		NewTask(TaskDiscover, "Discovering profiles", "profiles"),
		NewTask(TaskEvaluate, "Scoring candidates", "scored"),
		NewTask(TaskSave, "Saving results", "new"),
	}
}

// NewModel creates a progress model fed by events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	p := progress.New(
		progress.WithScaledGradient("#5eead4", "#0f766e"),
		progress.WithWidth(25),
		progress.WithoutPercentage(),
	)

	m := Model{
		tasks:    DefaultTasks(),
		spinner:  s,
		progress: p,
		events:   events,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.onCancel != nil {
				m.onCancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case BriefEvent:
		m.brief = msg.Description
		return m, waitForEvent(m.events)

	case TaskEvent:
		var cmd tea.Cmd
		m, cmd = m.updateTask(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateTask(e TaskEvent) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		t := &m.tasks[i]
		t.Status = e.Status
		t.Message = e.Message
		if e.Count > 0 {
			t.Count = e.Count
		}
		if e.Progress > 0 {
			t.Progress = e.Progress
			cmd = m.progress.SetPercent(e.Progress)
		}
		if e.Error != nil {
			t.Error = e.Error
		}
		break
	}
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	if m.brief != "" {
		b.WriteString("  Searching for " + briefStyle.Render(m.brief) + "\n\n")
	}
	for _, task := range m.tasks {
		b.WriteString(task.View(m.spinner.View(), m.progress))
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(footerStyle.Render("\n  Press Ctrl+C to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// waitForEvent creates a command that waits for the next event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
