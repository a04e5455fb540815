package runner

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Frame sets for the progress spinner.
var (
	DotFrames   = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ASCIIFrames = []string{"-", "\\", "|", "/"}
)

// SpinnerConfig configures a Spinner. Zero values fall back to dot frames
// at 80ms with no color.
type SpinnerConfig struct {
	Frames   []string
	Interval time.Duration
	Message  string
	Color    string // ANSI color sequence, empty for none
	Writer   io.Writer
}

// Spinner animates a single-line progress indicator while a tool runs.
// It redraws in place and clears its line on Stop, so it must own the
// terminal line it writes to; do not interleave it with a display echo.
type Spinner struct {
	frames   []string
	interval time.Duration
	color    string
	writer   io.Writer

	mu       sync.Mutex
	message  string
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	frameIdx int
}

func NewSpinner(cfg SpinnerConfig) *Spinner {
	frames := cfg.Frames
	if len(frames) == 0 {
		frames = DotFrames
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = 80 * time.Millisecond
	}
	return &Spinner{
		frames:   frames,
		interval: interval,
		message:  cfg.Message,
		color:    cfg.Color,
		writer:   cfg.Writer,
	}
}

// Start begins the animation. Calling Start on a running spinner is a
// no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.loop()
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh
	s.clearLine()
}

// UpdateMessage swaps the text shown next to the spinner.
func (s *Spinner) UpdateMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (s *Spinner) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.render()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frameIdx = (s.frameIdx + 1) % len(s.frames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	frame := s.frames[s.frameIdx]
	msg := s.message
	s.mu.Unlock()

	fmt.Fprint(s.writer, "\r\033[K")
	if s.color != "" {
		fmt.Fprintf(s.writer, "%s%s\033[0m %s", s.color, frame, msg)
	} else {
		fmt.Fprintf(s.writer, "%s %s", frame, msg)
	}
}

func (s *Spinner) clearLine() {
	fmt.Fprint(s.writer, "\r\033[K")
}
