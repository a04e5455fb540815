package ubtlog

import (
	"regexp"
	"strings"
)

var (
	// errorLine and warningLine classify raw build lines. UnrealBuildTool tags
	// every line with a log channel ("LogCompile:", "LogInit:", ...) and
	// sometimes a "Display:" verbosity marker before the severity keyword.
	errorLine   = regexp.MustCompile(`Log\w+:\s*(?:Display:\s*)?Error:`)
	warningLine = regexp.MustCompile(`Log\w+:\s*(?:Display:\s*)?Warning:`)

	// The summary block variants additionally tolerate a second nested log tag
	// in front of the keyword; the tool double-wraps lines it repeats there.
	summaryErrorLine   = regexp.MustCompile(`Log\w+:\s*(?:Display:\s*)?(?:Log\w+:\s*)?Error:`)
	summaryWarningLine = regexp.MustCompile(`Log\w+:\s*(?:Display:\s*)?(?:Log\w+:\s*)?Warning:`)

	// tagDisplayPrefix is the only wrapper stripped from a matched line: a
	// leading log tag plus the Display marker. A bare tag without "Display:"
	// stays part of the message text. The summary pass shares this
	// single-level strip even though its match patterns are broader.
	tagDisplayPrefix = regexp.MustCompile(`^Log\w+:\s*Display:\s*`)

	// summaryTrailer closes the consolidated diagnostics block, e.g.
	// "Failure - 2 error(s), 1 warning(s)".
	summaryTrailer = regexp.MustCompile(`Failure\s*-\s*\d+\s+error\(s\),\s*\d+\s+warning\(s\)`)

	// separatorLine matches the dashed rules inside the summary block.
	separatorLine = regexp.MustCompile(`^-+$`)
)

// summaryMarker opens the consolidated diagnostics block. Matched as a
// substring so suffixed variants ("Warning/Error Summary (Unique only)")
// are recognized too.
const summaryMarker = "Warning/Error Summary"

// stripTagPrefix removes a leading "Log<Tag>: Display: " wrapper from a
// matched line. Lines without the Display marker are returned unchanged.
func stripTagPrefix(line string) string {
	return tagDisplayPrefix.ReplaceAllString(line, "")
}

// summaryBounds locates the summary block, returning the line indexes of the
// marker and the first trailer at or after it. ok is false when either is
// missing, in which case the summary pass is skipped.
func summaryBounds(lines []string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if strings.Contains(line, summaryMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	for i := start; i < len(lines); i++ {
		if summaryTrailer.MatchString(lines[i]) {
			return start, i, true
		}
	}
	return 0, 0, false
}
