package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxTailLines caps how much per-step output the model retains. The full
// capture lives with the caller; the view only needs a tail.
const maxTailLines = 500

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	outputBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#626262")).Padding(0, 1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Run executes the pipeline under a full-screen view and blocks until it
// finishes and the user dismisses the screen. The returned Result always
// covers every step; the error is only a terminal/render failure.
func Run(ctx context.Context, title string, steps []Step) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, cancel, title, steps)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		// A canceled context surfaces as a program error; the pipeline
		// result is still meaningful.
		if ctx.Err() == nil {
			return nil, fmt.Errorf("run pipeline view: %w", err)
		}
	}

	if fm, ok := final.(model); ok {
		return fm.result(), nil
	}
	return m.result(), nil
}

type stepState struct {
	status  StepStatus
	note    string
	elapsed time.Duration
	err     error
	tail    []string
}

type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	title  string
	steps  []Step
	states []*stepState

	updates  <-chan Update
	active   int
	spin     spinner.Model
	viewport viewport.Model
	ready    bool
	done     bool
}

func newModel(ctx context.Context, cancel context.CancelFunc, title string, steps []Step) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6"))

	states := make([]*stepState, len(steps))
	for i := range states {
		states[i] = &stepState{status: StatusPending}
	}

	return model{
		ctx:      ctx,
		cancel:   cancel,
		title:    title,
		steps:    steps,
		states:   states,
		updates:  runPipeline(ctx, steps),
		spin:     sp,
		viewport: viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listenUpdates())
}

type updateMsg Update
type pipelineDoneMsg struct{}

func (m model) listenUpdates() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return pipelineDoneMsg{}
		}
		return updateMsg(update)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "enter":
			if m.done {
				return m, tea.Quit
			}
		case "ctrl+c":
			m.cancel()
			if m.done {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - len(m.steps) - 6
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.ready = true
		m.refreshViewport()

	case updateMsg:
		m.apply(Update(msg))
		return m, m.listenUpdates()

	case pipelineDoneMsg:
		m.done = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) apply(u Update) {
	if u.Step < 0 || u.Step >= len(m.states) {
		return
	}
	st := m.states[u.Step]

	if u.HasLine {
		st.tail = append(st.tail, u.Line)
		if len(st.tail) > maxTailLines {
			st.tail = st.tail[len(st.tail)-maxTailLines:]
		}
		if u.Step == m.active {
			m.refreshViewport()
		}
		return
	}

	st.status = u.Status
	st.note = u.Note
	st.elapsed = u.Elapsed
	st.err = u.Err
	if u.Status == StatusRunning {
		m.active = u.Step
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	if !m.ready || m.active >= len(m.states) {
		return
	}
	m.viewport.SetContent(strings.Join(m.states[m.active].tail, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, step := range m.steps {
		b.WriteString(m.stepLine(i, step.Name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(outputBox.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.done {
		b.WriteString(helpStyle.Render("q: close"))
	} else {
		b.WriteString(helpStyle.Render("ctrl+c: cancel"))
	}
	return b.String()
}

func (m model) stepLine(i int, name string) string {
	st := m.states[i]

	var icon, line string
	switch st.status {
	case StatusRunning:
		icon = m.spin.View()
		line = fmt.Sprintf("%s %s", icon, name)
	case StatusSucceeded:
		icon = okStyle.Render("✓")
		line = fmt.Sprintf("%s %s", icon, name)
	case StatusFailed:
		icon = failStyle.Render("✗")
		line = fmt.Sprintf("%s %s", icon, name)
	case StatusSkipped:
		line = pendingStyle.Render("- " + name + " (skipped)")
		return "  " + line
	default:
		line = pendingStyle.Render("○ " + name)
		return "  " + line
	}

	if st.elapsed > 0 {
		line += noteStyle.Render(fmt.Sprintf("  %s", st.elapsed.Round(100*time.Millisecond)))
	}
	if st.note != "" {
		line += noteStyle.Render("  " + st.note)
	}
	return "  " + line
}

func (m model) result() *Result {
	res := &Result{
		Statuses: make([]StepStatus, len(m.states)),
		Errs:     make([]error, len(m.states)),
	}
	for i, st := range m.states {
		res.Statuses[i] = st.status
		res.Errs[i] = st.err
	}
	return res
}
