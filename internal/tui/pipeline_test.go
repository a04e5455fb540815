package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain collects every update until the pipeline closes its channel.
func drain(t *testing.T, updates <-chan Update) []Update {
	t.Helper()
	var all []Update
	for u := range updates {
		all = append(all, u)
	}
	return all
}

func finalStatuses(updates []Update, n int) []StepStatus {
	statuses := make([]StepStatus, n)
	for _, u := range updates {
		if !u.HasLine {
			statuses[u.Step] = u.Status
		}
	}
	return statuses
}

func TestRunPipeline_When_AllStepsSucceed(t *testing.T) {
	t.Parallel()

	var order []string
	steps := []Step{
		{Name: "generate", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			order = append(order, "generate")
			onLine("regenerating project files")
			return "", nil
		}},
		{Name: "build", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			order = append(order, "build")
			return "0 errors", nil
		}},
	}

	updates := drain(t, runPipeline(context.Background(), steps))

	assert.Equal(t, []string{"generate", "build"}, order)
	assert.Equal(t,
		[]StepStatus{StatusSucceeded, StatusSucceeded},
		finalStatuses(updates, len(steps)))
}

func TestRunPipeline_When_FailureAbortsRemainingSteps(t *testing.T) {
	t.Parallel()

	ran := false
	steps := []Step{
		{Name: "generate", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			return "", errors.New("generator exploded")
		}},
		{Name: "build", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			ran = true
			return "", nil
		}},
	}

	updates := drain(t, runPipeline(context.Background(), steps))

	assert.False(t, ran, "step after a fatal failure must not run")
	assert.Equal(t,
		[]StepStatus{StatusFailed, StatusSkipped},
		finalStatuses(updates, len(steps)))
}

func TestRunPipeline_When_ToleratedFailureContinues(t *testing.T) {
	t.Parallel()

	buildErr := errors.New("exit code 6")
	steps := []Step{
		{Name: "build", ContinueOnError: true, Run: func(ctx context.Context, onLine func(string)) (string, error) {
			return "3 errors", buildErr
		}},
		{Name: "open rider", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			return "", nil
		}},
	}

	updates := drain(t, runPipeline(context.Background(), steps))

	assert.Equal(t,
		[]StepStatus{StatusFailed, StatusSucceeded},
		finalStatuses(updates, len(steps)))

	res := collectResult(updates, len(steps))
	require.ErrorIs(t, res.FirstError(), buildErr)
}

func TestRunPipeline_When_ContextAlreadyCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	steps := []Step{
		{Name: "build", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			ran = true
			return "", nil
		}},
	}

	updates := drain(t, runPipeline(ctx, steps))

	assert.False(t, ran, "step ran under a canceled context")
	assert.Equal(t, []StepStatus{StatusSkipped}, finalStatuses(updates, len(steps)))
}

func TestRunPipeline_When_OutputLinesForwarded(t *testing.T) {
	t.Parallel()

	steps := []Step{
		{Name: "build", Run: func(ctx context.Context, onLine func(string)) (string, error) {
			onLine("first")
			onLine("second")
			return "", nil
		}},
	}

	updates := drain(t, runPipeline(context.Background(), steps))

	var lines []string
	for _, u := range updates {
		if u.HasLine {
			lines = append(lines, u.Line)
		}
	}
	assert.Equal(t, []string{"first", "second"}, lines)
}

// collectResult mirrors what the model accumulates, without a terminal.
func collectResult(updates []Update, n int) *Result {
	res := &Result{
		Statuses: make([]StepStatus, n),
		Errs:     make([]error, n),
	}
	for _, u := range updates {
		if u.HasLine {
			continue
		}
		res.Statuses[u.Step] = u.Status
		res.Errs[u.Step] = u.Err
	}
	return res
}
