package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/uetools/ueup/internal/config"
	"github.com/uetools/ueup/internal/engine"
	"github.com/uetools/ueup/internal/ide"
	"github.com/uetools/ueup/internal/tui"
	"github.com/uetools/ueup/pkg/runner"
	"github.com/uetools/ueup/pkg/ubtlog"
)

var (
	stepHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true)
	stepFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56"))
	stepSkipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// workflow holds the state the pipeline steps share. Steps run strictly
// in order, so plain fields are enough.
type workflow struct {
	app  *app
	cfg  *config.Config
	inst *engine.Installation

	// summary is set by the build step and rendered after the pipeline
	// finishes, outside any full-screen view.
	summary *ubtlog.Summary
	// buildSkipped records a missing build script: the original behavior
	// is to warn, skip compiling, and still open the IDE.
	buildSkipped bool
}

// newWorkflow validates the config and engine root up front, so steps
// only deal with tool invocations.
func newWorkflow(a *app, cfg *config.Config) (*workflow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	inst, err := engine.Locate(cfg.EnginePath)
	if err != nil {
		return nil, err
	}
	return &workflow{app: a, cfg: cfg, inst: inst}, nil
}

// runPlan executes one engine script through the runner, streaming output
// via onLine.
func (w *workflow) runPlan(ctx context.Context, label string, plan *engine.Plan, onLine func(string)) (*runner.Result, error) {
	run := runner.New(runner.Config{OnLine: onLine, Log: w.app.log})
	return run.Run(ctx, runner.Spec{
		Label:   label,
		Command: plan.Script,
		Args:    plan.Args,
		Dir:     plan.Dir,
	})
}

// generateStep regenerates project files. A missing generator script is
// tolerated (installed engine builds ship without one); a generator that
// runs and fails aborts the pipeline with its exit code.
func (w *workflow) generateStep() tui.Step {
	return tui.Step{
		Name: "Generate project files",
		Run: func(ctx context.Context, onLine func(string)) (string, error) {
			plan, err := w.inst.GenerateProjectFiles()
			if errors.Is(err, engine.ErrScriptNotFound) {
				w.app.log.WithError(err).Warn("project file generation skipped")
				return "no generator script, skipped", nil
			}
			if err != nil {
				return "", err
			}
			_, err = w.runPlan(ctx, "generate", plan, onLine)
			return "", err
		},
	}
}

// buildStep compiles the editor target and analyzes the captured output.
// It tolerates its own failure so the pipeline can open the IDE anyway;
// callers that must propagate the exit code read workflow.summary.
func (w *workflow) buildStep() tui.Step {
	return tui.Step{
		Name:            "Build " + engine.EditorTarget(w.cfg.ProjectFile),
		ContinueOnError: true,
		Run: func(ctx context.Context, onLine func(string)) (string, error) {
			plan, err := w.inst.Build(engine.Target{
				ProjectFile: w.cfg.ProjectFile,
				Platform:    w.cfg.Platform,
				BuildConfig: w.cfg.BuildConfig,
			})
			if errors.Is(err, engine.ErrScriptNotFound) {
				w.app.log.WithError(err).Warn("build script missing, skipping compile")
				w.buildSkipped = true
				return "no build script, skipped", nil
			}
			if err != nil {
				return "", err
			}

			res, runErr := w.runPlan(ctx, "build", plan, onLine)
			w.summary = ubtlog.Analyze(res.Lines, res.ExitCode)
			return diagNote(w.summary), runErr
		},
	}
}

// riderStep discovers and launches Rider on the project, detached.
func (w *workflow) riderStep() tui.Step {
	return tui.Step{
		Name: "Open in Rider",
		Run: func(ctx context.Context, onLine func(string)) (string, error) {
			riderPath, err := ide.Discover(w.cfg.RiderPath)
			if err != nil {
				return "", err
			}
			onLine("launching " + riderPath)
			if err := ide.Launch(riderPath, w.cfg.ProjectFile); err != nil {
				return "", err
			}
			return filepath.Base(riderPath), nil
		},
	}
}

// fatalError returns the first failure from a step that does not
// tolerate errors, ignoring tolerated ones like the build step.
func fatalError(steps []tui.Step, res *tui.Result) error {
	for i, err := range res.Errs {
		if err != nil && !steps[i].ContinueOnError {
			return err
		}
	}
	return nil
}

// diagNote summarizes the diagnostic counts for a step annotation.
func diagNote(s *ubtlog.Summary) string {
	return fmt.Sprintf("%d error(s), %d warning(s)", len(s.Errors), len(s.Warnings))
}

// runSteps executes the pipeline, full-screen when --tui applies and as a
// line-oriented console run otherwise.
func (a *app) runSteps(ctx context.Context, title string, steps []tui.Step) (*tui.Result, error) {
	if a.tuiUsable() {
		return tui.Run(ctx, title, steps)
	}
	return a.runStepsPlain(ctx, steps), nil
}

// runStepsPlain is the non-TUI executor: a styled header per step, the
// streamed tool output below it (or a spinner under --quiet), and the
// same abort/continue semantics as the full-screen pipeline.
func (a *app) runStepsPlain(ctx context.Context, steps []tui.Step) *tui.Result {
	res := &tui.Result{
		Statuses: make([]tui.StepStatus, len(steps)),
		Errs:     make([]error, len(steps)),
	}

	header := stepHeaderStyle
	fail := stepFailStyle
	skip := stepSkipStyle
	if !a.colorEnabled() {
		header, fail, skip = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	abort := false
	for i, step := range steps {
		if abort || ctx.Err() != nil {
			res.Statuses[i] = tui.StatusSkipped
			fmt.Fprintln(a.stdout, skip.Render("-- "+step.Name+" (skipped)"))
			continue
		}

		fmt.Fprintln(a.stdout, header.Render("==> "+step.Name))

		onLine := func(line string) {
			fmt.Fprintln(a.stdout, line)
		}
		var spin *runner.Spinner
		if a.quiet {
			onLine = func(string) {}
			spin = runner.NewSpinner(runner.SpinnerConfig{
				Message: step.Name,
				Writer:  a.stderr,
			})
			spin.Start()
		}

		note, err := step.Run(ctx, onLine)
		if spin != nil {
			spin.Stop()
		}

		res.Errs[i] = err
		if err != nil {
			res.Statuses[i] = tui.StatusFailed
			fmt.Fprintln(a.stdout, fail.Render(fmt.Sprintf("    failed: %v", err)))
			if !step.ContinueOnError {
				abort = true
			}
			continue
		}
		res.Statuses[i] = tui.StatusSucceeded
		if note != "" {
			fmt.Fprintln(a.stdout, skip.Render("    "+note))
		}
	}
	return res
}
