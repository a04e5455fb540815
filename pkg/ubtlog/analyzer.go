// Package ubtlog extracts errors and warnings from UnrealBuildTool output.
//
// The analyzer is a pure function over captured output lines: it never reads
// files, runs processes, or prints. Classification happens in two passes.
// The first pass scans every line for a tagged severity keyword. The second
// pass, run only when the output carries a consolidated "Warning/Error
// Summary" block, re-scans that block with slightly broader patterns to pick
// up diagnostics the tool re-wraps when it repeats them. Both passes feed
// the same ordered, deduplicated sets, so a diagnostic that appears in the
// stream and again in the summary is reported once, at its first position.
package ubtlog

import "strings"

// ExitUnknown is the ExitCode of a summary whose process never produced an
// exit code, e.g. it was killed by a signal or failed to start.
const ExitUnknown = -1

// Summary is the result of analyzing one tool invocation.
type Summary struct {
	// Errors holds the distinct error lines in order of first occurrence,
	// with any leading "Log<Tag>: Display: " wrapper removed.
	Errors []string
	// Warnings holds the distinct warning lines, same form as Errors.
	Warnings []string
	// ExitCode is the process exit code, or ExitUnknown.
	ExitCode int
}

// Succeeded reports whether the invocation exited cleanly. Diagnostics do
// not factor in: UnrealBuildTool regularly exits 0 with warnings, and the
// caller decides how loudly to surface them.
func (s *Summary) Succeeded() bool {
	return s.ExitCode == 0
}

// HasDiagnostics reports whether any error or warning was collected.
func (s *Summary) HasDiagnostics() bool {
	return len(s.Errors) > 0 || len(s.Warnings) > 0
}

// Analyze classifies the captured output lines of a build invocation.
// It always returns a summary; unrecognized or malformed output simply
// yields empty diagnostic lists.
func Analyze(lines []string, exitCode int) *Summary {
	errs := newDiagSet()
	warns := newDiagSet()

	classifyLines(lines, errs, warns)
	if start, end, ok := summaryBounds(lines); ok {
		scanSummaryRegion(lines, start, end, errs, warns)
	}

	return &Summary{
		Errors:   errs.texts,
		Warnings: warns.texts,
		ExitCode: exitCode,
	}
}

// AnalyzeOutput splits a raw output capture into lines and analyzes them.
// Both LF and CRLF line endings are handled; UnrealBuildTool emits CRLF on
// Windows.
func AnalyzeOutput(output string, exitCode int) *Summary {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Analyze(lines, exitCode)
}

// classifyLines runs the primary pass. Error classification wins when a
// line matches both patterns.
func classifyLines(lines []string, errs, warns *diagSet) {
	for _, line := range lines {
		switch {
		case errorLine.MatchString(line):
			errs.add(line)
		case warningLine.MatchString(line):
			warns.add(line)
		}
	}
}

// scanSummaryRegion re-scans the lines strictly between the summary marker
// and its trailer. Blank lines and dashed separators are skipped; everything
// else is matched against the broadened summary patterns and merged into the
// sets collected by the primary pass.
func scanSummaryRegion(lines []string, start, end int, errs, warns *diagSet) {
	for i := start + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || separatorLine.MatchString(trimmed) {
			continue
		}
		switch {
		case summaryErrorLine.MatchString(lines[i]):
			errs.add(lines[i])
		case summaryWarningLine.MatchString(lines[i]):
			warns.add(lines[i])
		}
	}
}

// diagSet accumulates diagnostic texts, preserving first-occurrence order
// and dropping repeats. Membership covers the texts stored so far; an
// incoming line is dropped when either its raw form or its stripped form is
// already stored, so a diagnostic that appears once wrapped and once bare
// still collapses to a single entry.
type diagSet struct {
	texts []string
	seen  map[string]struct{}
}

func newDiagSet() *diagSet {
	return &diagSet{seen: make(map[string]struct{})}
}

func (s *diagSet) add(line string) {
	text := stripTagPrefix(line)
	if _, dup := s.seen[line]; dup {
		return
	}
	if _, dup := s.seen[text]; dup {
		return
	}
	s.seen[text] = struct{}{}
	s.texts = append(s.texts, text)
}
