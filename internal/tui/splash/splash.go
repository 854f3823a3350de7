// Package splash shows start-up progress as an animated terminal screen.
//
// The model is driven entirely by tracker events forwarded from the event
// bus, so it can be tested by feeding it messages without a terminal.
package splash

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/startup"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

// DefaultWidth is the progress bar width.
const DefaultWidth = 48

// EventMsg carries a bus event into the model.
type EventMsg struct {
	Event event.Event
}

// doneMsg reports that Tracker.Start returned.
type doneMsg struct {
	err error
}

type stepLine struct {
	id    string
	name  string
	state string
	note  string
}

// Model is the bubbletea model of the splash screen.
type Model struct {
	styles   *styles.Styles
	progress progress.Model
	spinner  spinner.Model

	title   string
	percent int
	step    string
	detail  string

	order []string
	lines map[string]*stepLine

	summary   string
	done      bool
	cancelled bool
	err       error
}

// New creates a splash model titled title.
func New(title string, s *styles.Styles) *Model {
	if s == nil {
		s = styles.Active()
	}
	return &Model{
		styles: s,
		progress: progress.New(
			progress.WithSolidFill(string(s.Palette.Primary)),
			progress.WithWidth(DefaultWidth),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(s.Step(styles.StepRunning)),
		),
		title: title,
		lines: make(map[string]*stepLine),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = min(DefaultWidth, max(msg.Width-4, 10))
	case EventMsg:
		m.apply(msg.Event)
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) apply(e event.Event) {
	switch e := e.(type) {
	case event.RunStartedEvent:
		m.order = append([]string(nil), e.Order...)
		m.lines = make(map[string]*stepLine, len(e.Order))
		for _, id := range e.Order {
			m.lines[id] = &stepLine{id: id, name: id, state: styles.StepPending}
		}
	case event.StepStartedEvent:
		l := m.line(e.StepID)
		l.name = e.Name
		l.state = styles.StepRunning
	case event.StepCompletedEvent:
		l := m.line(e.StepID)
		l.state = styles.StepCompleted
		l.note = e.Duration.Round(time.Millisecond).String()
	case event.StepFailedEvent:
		l := m.line(e.StepID)
		l.state = styles.StepFailed
		l.note = e.Error()
	case event.ProgressUpdatedEvent:
		m.percent = e.Percent
		m.step = e.Step
		m.detail = e.Detail
	case event.RunCompletedEvent:
		m.summary = m.styles.Success.Render(fmt.Sprintf("Ready in %s", e.Elapsed.Round(time.Millisecond)))
	case event.RunFailedEvent:
		m.summary = m.styles.Error.Render(e.Message())
	case event.RunAbortedEvent:
		m.summary = m.styles.Error.Render(fmt.Sprintf("Start-up aborted: %v", e.Err))
	}
}

// line returns the entry for id, creating it for steps not announced by
// RunStartedEvent.
func (m *Model) line(id string) *stepLine {
	if l, ok := m.lines[id]; ok {
		return l
	}
	l := &stepLine{id: id, name: id, state: styles.StepPending}
	m.lines[id] = l
	m.order = append(m.order, id)
	return l
}

// Percent returns the last reported progress.
func (m *Model) Percent() int {
	return m.percent
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	for _, id := range m.order {
		l := m.lines[id]
		icon := styles.StepIcon(l.state)
		if l.state == styles.StepRunning && !m.done {
			icon = m.spinner.View()
		}
		b.WriteString(m.styles.Step(l.state).Render(icon))
		b.WriteString(" ")
		b.WriteString(l.name)
		if l.note != "" {
			b.WriteString(" ")
			b.WriteString(m.styles.Muted.Render("(" + l.note + ")"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(float64(m.percent) / 100))
	b.WriteString("\n")
	if m.summary != "" {
		b.WriteString(m.summary)
	} else if m.step != "" {
		b.WriteString(m.styles.Subtitle.Render(m.step + ": " + m.detail))
	}
	b.WriteString("\n")
	return b.String()
}

// Run starts tracker while showing the splash on out. Ctrl+C cancels the
// context passed to Tracker.Start. It returns Start's error, or
// context.Canceled when the user interrupted. opts are passed to the
// bubbletea program.
func Run(ctx context.Context, tracker *startup.Tracker, title string, out io.Writer, opts ...tea.ProgramOption) error {
	m := New(title, nil)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, append([]tea.ProgramOption{
		tea.WithOutput(out),
		tea.WithContext(ctx),
	}, opts...)...)

	bus := tracker.Bus()
	subID := bus.SubscribeAll(func(e event.Event) {
		p.Send(EventMsg{Event: e})
	})
	defer bus.Unsubscribe(subID)

	finished := make(chan error, 1)
	go func() {
		err := tracker.Start(runCtx)
		finished <- err
		p.Send(doneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return fmt.Errorf("splash: %w", err)
	}

	if m.cancelled {
		cancel()
		<-finished
		return context.Canceled
	}
	return m.err
}
