// Package tui shows a live view of the generate/build pipeline.
//
// Unlike a task grid, the steps here form a sequential pipeline: each one
// starts only after its predecessor finished. The model therefore tracks a
// single running step and tails its output, with the finished steps
// collapsing into a status list above it.
package tui

import (
	"context"
	"time"
)

// StepStatus is the lifecycle of one pipeline step.
type StepStatus int

const (
	StatusPending StepStatus = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

// Step is one unit of pipeline work. Run streams its output through
// onLine and returns an optional note ("2 errors, 1 warning") shown next
// to the finished step.
type Step struct {
	Name string
	Run  func(ctx context.Context, onLine func(string)) (note string, err error)
	// ContinueOnError lets the pipeline carry on when this step fails;
	// the build step uses it so a broken compile still opens the IDE.
	ContinueOnError bool
}

// Update is one state change emitted by the pipeline goroutine.
type Update struct {
	Step   int
	Status StepStatus
	// Line is set on output updates; Status is then the running status.
	Line    string
	HasLine bool
	Note    string
	Elapsed time.Duration
	Err     error
}

// runPipeline executes the steps in order on its own goroutine, emitting
// Updates until every step is resolved, then closes the channel. The
// first non-tolerated failure marks all remaining steps skipped.
func runPipeline(ctx context.Context, steps []Step) <-chan Update {
	updates := make(chan Update, 64)

	go func() {
		defer close(updates)

		abort := false
		for i, step := range steps {
			if abort || ctx.Err() != nil {
				updates <- Update{Step: i, Status: StatusSkipped}
				continue
			}

			updates <- Update{Step: i, Status: StatusRunning}
			start := time.Now()

			note, err := step.Run(ctx, func(line string) {
				updates <- Update{Step: i, Status: StatusRunning, Line: line, HasLine: true}
			})

			elapsed := time.Since(start)
			if err != nil {
				updates <- Update{Step: i, Status: StatusFailed, Note: note, Elapsed: elapsed, Err: err}
				if !step.ContinueOnError {
					abort = true
				}
				continue
			}
			updates <- Update{Step: i, Status: StatusSucceeded, Note: note, Elapsed: elapsed}
		}
	}()

	return updates
}

// Result collects the terminal state of each step after the pipeline
// drains, so the caller can map it to an exit code.
type Result struct {
	Statuses []StepStatus
	Errs     []error
}

// FirstError returns the first step failure, or nil.
func (r *Result) FirstError() error {
	for _, err := range r.Errs {
		if err != nil {
			return err
		}
	}
	return nil
}
