package splash

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/startup"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func send(m *Model, events ...event.Event) {
	for _, e := range events {
		m.Update(EventMsg{Event: e})
	}
}

func TestModel_TracksSteps(t *testing.T) {
	m := New("finboard", styles.New(nil))

	send(m,
		event.NewRunStartedEvent("run-1", []string{"config", "db"}),
		event.NewStepStartedEvent("config", "Loading configuration", "Reading config.yaml"),
		event.NewProgressUpdatedEvent(0, "Loading configuration", "Reading config.yaml"),
	)

	if m.Percent() != 0 {
		t.Errorf("Percent() = %d, want 0", m.Percent())
	}
	view := m.View()
	if !strings.Contains(view, "Loading configuration: Reading config.yaml") {
		t.Errorf("view should show the current step:\n%s", view)
	}
	if !strings.Contains(view, "○ db") {
		t.Errorf("pending step should use its id until started:\n%s", view)
	}

	send(m,
		event.NewStepCompletedEvent("config", "Reading config.yaml", 12*time.Millisecond),
		event.NewStepStartedEvent("db", "Opening database", "Connecting"),
		event.NewProgressUpdatedEvent(40, "Opening database", "Connecting"),
		event.NewStepFailedEvent("db", "Connecting", errors.New("connection refused")),
		event.NewProgressUpdatedEvent(100, "Complete", "Initialization complete"),
		event.NewRunFailedEvent("run-1", []string{"db"}, time.Second),
	)

	if m.Percent() != 100 {
		t.Errorf("Percent() = %d, want 100", m.Percent())
	}
	view = m.View()
	for _, want := range []string{
		"✓ Loading configuration (12ms)",
		"✗ Opening database (connection refused)",
		"100%",
		"Initialization completed with 1 failed steps: [db]",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_UnannouncedStep(t *testing.T) {
	m := New("finboard", nil)
	send(m, event.NewStepStartedEvent("late", "Late step", ""))

	if len(m.order) != 1 || m.lines["late"].state != styles.StepRunning {
		t.Errorf("unannounced step not tracked: order=%v", m.order)
	}
}

func TestModel_RunCompleted(t *testing.T) {
	m := New("finboard", nil)
	send(m, event.NewRunCompletedEvent("run-1", 1500*time.Millisecond))

	if !strings.Contains(m.View(), "Ready in 1.5s") {
		t.Errorf("view missing summary:\n%s", m.View())
	}
}

func TestModel_Aborted(t *testing.T) {
	m := New("finboard", nil)
	send(m, event.NewRunAbortedEvent(errors.New("dependency cycle")))

	if !strings.Contains(m.View(), "Start-up aborted: dependency cycle") {
		t.Errorf("view missing abort summary:\n%s", m.View())
	}
}

func TestModel_DoneQuits(t *testing.T) {
	m := New("finboard", nil)
	wantErr := errors.New("boom")

	_, cmd := m.Update(doneMsg{err: wantErr})
	if cmd == nil {
		t.Fatal("doneMsg should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("doneMsg should quit")
	}
	if !m.done || !errors.Is(m.err, wantErr) {
		t.Errorf("done=%v err=%v", m.done, m.err)
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := New("finboard", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.cancelled {
		t.Error("ctrl+c should cancel")
	}
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if m.View() != "" {
		t.Error("cancelled view should be empty")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := New("finboard", nil)

	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if m.progress.Width != 26 {
		t.Errorf("progress width = %d, want 26", m.progress.Width)
	}
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 10})
	if m.progress.Width != DefaultWidth {
		t.Errorf("progress width = %d, want %d", m.progress.Width, DefaultWidth)
	}
}

func TestRun(t *testing.T) {
	bus := event.NewBus(nil)
	tracker := startup.NewTracker(bus, nil)
	if err := tracker.AddStep("config", "Loading configuration", "Reading config", nil); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Run(ctx, tracker, "finboard", &out, tea.WithInput(nil), tea.WithoutSignalHandler()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res := tracker.LastResult(); res == nil || !res.Succeeded() {
		t.Errorf("LastResult() = %+v, want success", res)
	}
	if bus.SubscriptionCount() != 0 {
		t.Errorf("Run should unsubscribe, %d subscriptions left", bus.SubscriptionCount())
	}
}
