package tui

// TaskID identifies a pipeline step in the progress display.
type TaskID int

const (
	TaskPlan     TaskID = iota // Planning queries from the brief
	TaskDiscover               // Running queries and collecting identifiers
	TaskEvaluate               // Enriching and scoring each candidate
	TaskSave                   // Ranking and persisting qualified candidates
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // e.g. "12/20"
	Count    int     // output size once complete
	Progress float64 // 0.0 to 1.0
	Error    error
}

func (TaskEvent) isEvent() {}

// BriefEvent names the brief being searched.
type BriefEvent struct {
	Description string
}

func (BriefEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
