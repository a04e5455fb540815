package ubtlog

import "testing"

func TestStripTagPrefix(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "tag with display marker",
			line: "LogInit: Display: hello",
			want: "hello",
		},
		{
			name: "tag without display marker",
			line: "LogInit: hello",
			want: "LogInit: hello",
		},
		{
			name: "display marker without tag",
			line: "Display: hello",
			want: "Display: hello",
		},
		{
			name: "double wrapper strips one level",
			line: "LogA: Display: LogB: Display: x",
			want: "LogB: Display: x",
		},
		{
			name: "mid-line wrapper untouched",
			line: "prefix LogA: Display: x",
			want: "prefix LogA: Display: x",
		},
		{
			name: "empty line",
			line: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTagPrefix(tt.line); got != tt.want {
				t.Errorf("stripTagPrefix(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSeverityPatterns(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantError   bool
		wantWarning bool
	}{
		{
			name:      "tagged error",
			line:      "LogCompile: Error: boom",
			wantError: true,
		},
		{
			name:        "tagged warning",
			line:        "LogCompile: Warning: careful",
			wantWarning: true,
		},
		{
			name:      "display marker between tag and keyword",
			line:      "LogInit: Display: Error: boom",
			wantError: true,
		},
		{
			name:      "no space after tag colon",
			line:      "LogA:Error: tight",
			wantError: true,
		},
		{
			name:      "tag appearing mid-line",
			line:      "LogInit: Display: LogCompile: Error: Link failed",
			wantError: true,
		},
		{
			name: "bare keyword without tag",
			line: "Error: boom",
		},
		{
			name: "lowercase keyword",
			line: "LogA: error: boom",
		},
		{
			name: "summary header is not a diagnostic",
			line: "Warning/Error Summary",
		},
		{
			name: "trailer counts are not diagnostics",
			line: "Failure - 2 error(s), 1 warning(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorLine.MatchString(tt.line); got != tt.wantError {
				t.Errorf("errorLine.MatchString(%q) = %v, want %v", tt.line, got, tt.wantError)
			}
			if got := warningLine.MatchString(tt.line); got != tt.wantWarning {
				t.Errorf("warningLine.MatchString(%q) = %v, want %v", tt.line, got, tt.wantWarning)
			}
		})
	}
}

func TestSummaryPatterns_When_NestedTag(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"LogOuter: Display: LogInner: Error: boom",
		"LogOuter: LogInner: Error: boom",
	} {
		if !summaryErrorLine.MatchString(line) {
			t.Errorf("summaryErrorLine.MatchString(%q) = false, want true", line)
		}
	}

	for _, line := range []string{
		"LogOuter: Display: LogInner: Warning: careful",
		"LogOuter: LogInner: Warning: careful",
	} {
		if !summaryWarningLine.MatchString(line) {
			t.Errorf("summaryWarningLine.MatchString(%q) = false, want true", line)
		}
	}
}

func TestSummaryBounds(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{
			name: "marker then trailer",
			lines: []string{
				"noise",
				"Warning/Error Summary",
				"LogA: Error: X",
				"Failure - 1 error(s), 0 warning(s)",
				"tail",
			},
			wantStart: 1,
			wantEnd:   3,
			wantOK:    true,
		},
		{
			name: "suffixed marker text",
			lines: []string{
				"Warning/Error Summary (Unique only)",
				"Failure - 0 error(s), 0 warning(s)",
			},
			wantStart: 0,
			wantEnd:   1,
			wantOK:    true,
		},
		{
			name: "tagged trailer line",
			lines: []string{
				"Warning/Error Summary",
				"LogInit: Display: Failure - 3 error(s), 4 warning(s)",
			},
			wantStart: 0,
			wantEnd:   1,
			wantOK:    true,
		},
		{
			name: "first trailer wins",
			lines: []string{
				"Warning/Error Summary",
				"x",
				"Failure - 1 error(s), 0 warning(s)",
				"y",
				"Failure - 1 error(s), 0 warning(s)",
			},
			wantStart: 0,
			wantEnd:   2,
			wantOK:    true,
		},
		{
			name:  "no marker",
			lines: []string{"LogA: Error: X", "Failure - 1 error(s), 0 warning(s)"},
		},
		{
			name:  "marker without trailer",
			lines: []string{"Warning/Error Summary", "LogA: Error: X"},
		},
		{
			name:  "trailer only before marker",
			lines: []string{"Failure - 1 error(s), 0 warning(s)", "Warning/Error Summary"},
		},
		{
			name:  "empty input",
			lines: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := summaryBounds(tt.lines)
			if ok != tt.wantOK {
				t.Fatalf("summaryBounds() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("summaryBounds() = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
