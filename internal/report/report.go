// Package report renders an analyzed build summary for humans.
//
// The reporter owns all presentation: status line, error list, warning
// list. It never re-derives or filters diagnostics — a build that exited
// zero still gets its errors printed, because UnrealBuildTool has been
// known to swallow failures into a clean exit.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uetools/ueup/pkg/ubtlog"
)

// Styles holds the lipgloss styles applied to each part of the report.
type Styles struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the standard report palette.
func DefaultStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// MonochromeStyles returns styles with no color or weight, for non-TTY
// output and --no-color.
func MonochromeStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Success: plain, Failure: plain, Error: plain,
		Warning: plain, Header: plain, Muted: plain,
	}
}

// titleCaser renders section labels ("error" -> "Error").
var titleCaser = cases.Title(language.English)

// Reporter writes summaries to a single destination.
type Reporter struct {
	out    io.Writer
	styles *Styles
}

// New builds a Reporter. A nil styles falls back to DefaultStyles.
func New(out io.Writer, styles *Styles) *Reporter {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Reporter{out: out, styles: styles}
}

// Render prints the status line followed by the error and warning
// sections. Sections with no entries are omitted; diagnostics are always
// shown regardless of exit status.
func (r *Reporter) Render(s *ubtlog.Summary) {
	fmt.Fprintln(r.out, r.statusLine(s))

	r.renderSection("error", s.Errors, r.styles.Error)
	r.renderSection("warning", s.Warnings, r.styles.Warning)

	if !s.Succeeded() && !s.HasDiagnostics() {
		fmt.Fprintln(r.out, r.styles.Muted.Render("no diagnostics recognized in the build output"))
	}
}

func (r *Reporter) statusLine(s *ubtlog.Summary) string {
	switch {
	case s.Succeeded():
		return r.styles.Success.Render("✓ Build succeeded")
	case s.ExitCode == ubtlog.ExitUnknown:
		return r.styles.Failure.Render("✗ Build failed (no exit code)")
	default:
		return r.styles.Failure.Render(fmt.Sprintf("✗ Build failed (exit code %d)", s.ExitCode))
	}
}

// renderSection prints one labeled diagnostic list with a right-aligned
// index gutter wide enough for the largest entry number.
func (r *Reporter) renderSection(label string, texts []string, style lipgloss.Style) {
	if len(texts) == 0 {
		return
	}

	header := fmt.Sprintf("%s (%d)", pluralLabel(label, len(texts)), len(texts))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.Header.Render(header))

	gutter := runewidth.StringWidth(fmt.Sprintf("%d", len(texts)))
	for i, text := range texts {
		idx := runewidth.FillLeft(fmt.Sprintf("%d", i+1), gutter)
		fmt.Fprintf(r.out, "  %s  %s\n", r.styles.Muted.Render(idx+"."), style.Render(text))
	}
}

func pluralLabel(label string, n int) string {
	label = titleCaser.String(label)
	if n == 1 {
		return label
	}
	return label + "s"
}
