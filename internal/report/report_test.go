package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uetools/ueup/pkg/ubtlog"
)

func renderPlain(t *testing.T, s *ubtlog.Summary) string {
	t.Helper()
	var buf bytes.Buffer
	New(&buf, MonochromeStyles()).Render(s)
	return buf.String()
}

func TestRender_When_BuildSucceededClean(t *testing.T) {
	t.Parallel()

	out := renderPlain(t, &ubtlog.Summary{ExitCode: 0})

	assert.Contains(t, out, "Build succeeded")
	assert.NotContains(t, out, "Error")
	assert.NotContains(t, out, "Warning")
}

func TestRender_When_BuildFailedWithDiagnostics(t *testing.T) {
	t.Parallel()

	out := renderPlain(t, &ubtlog.Summary{
		Errors:   []string{"LogCompile: Error: C2065 undeclared identifier"},
		Warnings: []string{"LogLinker: Warning: library mismatch"},
		ExitCode: 6,
	})

	assert.Contains(t, out, "Build failed (exit code 6)")
	assert.Contains(t, out, "Errors (1)")
	assert.Contains(t, out, "LogCompile: Error: C2065 undeclared identifier")
	assert.Contains(t, out, "Warnings (1)")
	assert.Contains(t, out, "LogLinker: Warning: library mismatch")
}

// A zero exit with recorded errors still prints the error list; the
// reporter never reconciles diagnostics against the status.
func TestRender_When_SucceededButErrorsPresent(t *testing.T) {
	t.Parallel()

	out := renderPlain(t, &ubtlog.Summary{
		Errors:   []string{"LogCook: Error: asset missing"},
		ExitCode: 0,
	})

	assert.Contains(t, out, "Build succeeded")
	assert.Contains(t, out, "Errors (1)")
	assert.Contains(t, out, "LogCook: Error: asset missing")
}

func TestRender_When_ExitCodeUnknown(t *testing.T) {
	t.Parallel()

	out := renderPlain(t, &ubtlog.Summary{ExitCode: ubtlog.ExitUnknown})

	assert.Contains(t, out, "Build failed (no exit code)")
	assert.Contains(t, out, "no diagnostics recognized")
}

func TestRender_When_ManyErrorsGutterAligned(t *testing.T) {
	t.Parallel()

	errs := make([]string, 10)
	for i := range errs {
		errs[i] = "LogCompile: Error: e"
	}
	// Analyzer output is deduplicated; feed distinct texts.
	for i := range errs {
		errs[i] = errs[i] + strings.Repeat("x", i)
	}

	out := renderPlain(t, &ubtlog.Summary{Errors: errs, ExitCode: 1})

	assert.Contains(t, out, "Errors (10)")
	// Single-digit indexes are padded to line up under the two-digit one.
	assert.Contains(t, out, "   1.  ")
	assert.Contains(t, out, "  10.  ")
}

func TestRender_When_SingularSectionLabel(t *testing.T) {
	t.Parallel()

	out := renderPlain(t, &ubtlog.Summary{
		Warnings: []string{"LogA: Warning: w"},
		ExitCode: 0,
	})

	assert.Contains(t, out, "Warning (1)")
	assert.NotContains(t, out, "Warnings (1)")
}
