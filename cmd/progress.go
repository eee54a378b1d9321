package cmd

import (
	"context"
	"fmt"

	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/output"
	"github.com/spiffcs/sonar/internal/sonar"
	"github.com/spiffcs/sonar/internal/tui"
)

// tuiFlag implements pflag.Value for the tri-state --tui flag.
type tuiFlag struct {
	opts *Options
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{opts: opts}
}

func (f *tuiFlag) String() string {
	if f.opts.TUI == nil {
		return "auto"
	}
	if *f.opts.TUI {
		return "true"
	}
	return "false"
}

func (f *tuiFlag) Set(s string) error {
	switch s {
	case "true", "1", "yes":
		v := true
		f.opts.TUI = &v
	case "false", "0", "no":
		v := false
		f.opts.TUI = &v
	case "auto":
		f.opts.TUI = nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	return nil
}

func (f *tuiFlag) Type() string {
	return "bool"
}

func (f *tuiFlag) IsBoolFlag() bool {
	return true
}

// shouldUseTUI decides whether the live progress display runs. Verbose
// logging and JSON output both need a clean terminal.
func shouldUseTUI(opts *Options, format output.Format) bool {
	if opts.Verbosity > 0 || format == output.FormatJSON {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}

// searchRuntime routes pipeline progress to the TUI or to log lines.
type searchRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// start launches the TUI goroutine when enabled. cancel is invoked on Ctrl+C.
func (rt *searchRuntime) start(cancel context.CancelFunc) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events, tui.WithCancel(cancel))
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *searchRuntime) close() {
	if rt.events == nil {
		log.ProgressDone()
		return
	}
	close(rt.events)
	rt.events = nil
	if err := <-rt.tuiDone; err != nil {
		log.Debug("progress display failed", "error", err)
	}
}

func (rt *searchRuntime) brief(description string) {
	tui.SendEvent(rt.events, tui.BriefEvent{Description: description})
}

// options returns the pipeline hooks that feed this runtime.
func (rt *searchRuntime) options() []sonar.Option {
	return []sonar.Option{
		sonar.WithStageHook(rt.onStage),
		sonar.WithProgress(rt.onProgress),
	}
}

var stageTasks = map[sonar.Stage]tui.TaskID{
	sonar.StagePlan:      tui.TaskPlan,
	sonar.StageDiscover:  tui.TaskDiscover,
	sonar.StageEvaluate:  tui.TaskEvaluate,
	sonar.StageAggregate: tui.TaskSave,
}

func (rt *searchRuntime) onStage(stage sonar.Stage, done bool, count int) {
	if !rt.useTUI {
		if done {
			if stage == sonar.StageEvaluate {
				log.ProgressDone()
			}
			log.Debug("stage complete", "stage", stage, "count", count)
		}
		return
	}
	status := tui.StatusRunning
	if done {
		status = tui.StatusComplete
	}
	tui.SendTaskEvent(rt.events, stageTasks[stage], status, tui.WithCount(count))
}

func (rt *searchRuntime) onProgress(completed, total int) {
	if !rt.useTUI {
		log.Progress("Evaluating candidates %d/%d", completed, total)
		return
	}
	if total == 0 {
		return
	}
	tui.SendTaskEvent(rt.events, tui.TaskEvaluate, tui.StatusRunning,
		tui.WithMessage(fmt.Sprintf("%d/%d", completed, total)),
		tui.WithProgress(float64(completed)/float64(total)),
	)
}
