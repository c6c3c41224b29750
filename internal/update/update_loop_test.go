package update

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/palolo875/kairu/internal/session"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func testModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(setupApp(t))
	m.Now = func() time.Time { return appNow }
	return m
}

func TestGlobalKeysSwitchViews(t *testing.T) {
	m := testModel(t)

	// Capture input grabs keys until blurred.
	m, _ = step(t, m, keyMsg("esc"))

	m, _ = step(t, m, keyMsg(m.Keys.Playlist))
	if m.CurrentView != ViewPlaylist {
		t.Fatalf("expected playlist view, got %s", m.CurrentView)
	}
	m, _ = step(t, m, keyMsg(m.Keys.Weekly))
	if m.CurrentView != ViewWeekly {
		t.Fatalf("expected weekly view, got %s", m.CurrentView)
	}
	m, _ = step(t, m, keyMsg(m.Keys.Insights))
	if m.CurrentView != ViewInsights {
		t.Fatalf("expected insights view, got %s", m.CurrentView)
	}

	m, cmd := step(t, m, keyMsg(m.Keys.Quit))
	if !m.Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}

func TestCaptureEnterSavesAndUpdatesRecent(t *testing.T) {
	m := testModel(t)

	m.captureInput.SetValue("appeler Jean demain #ProjetX !! @S 💬")
	m, cmd := step(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatalf("expected capture command")
	}
	msg := cmd()
	done, ok := msg.(CaptureDoneMsg)
	if !ok {
		t.Fatalf("expected CaptureDoneMsg, got %T", msg)
	}
	if !done.Outcome.Saved {
		t.Fatalf("expected saved outcome, got %+v", done.Outcome)
	}

	m, _ = step(t, m, done)
	if len(m.Capture.Recent) != 1 {
		t.Fatalf("expected 1 recent task, got %d", len(m.Capture.Recent))
	}
	if !strings.Contains(m.Status.Text, "tâche ajoutée") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	if m.captureInput.Value() != "" {
		t.Fatalf("expected cleared capture input")
	}
}

func TestCaptureLowConfidenceConfirmFlow(t *testing.T) {
	m := testModel(t)

	m.captureInput.SetValue("ranger le garage")
	m, cmd := step(t, m, keyMsg("enter"))
	msg := cmd()
	done, ok := msg.(CaptureDoneMsg)
	if !ok || !done.Outcome.Review {
		t.Fatalf("expected review outcome, got %#v", msg)
	}

	m, _ = step(t, m, done)
	if m.Capture.Pending == nil {
		t.Fatalf("expected pending parse awaiting confirmation")
	}
	if !strings.Contains(m.Status.Text, "confiance") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}

	// A second enter on the unchanged input confirms the parse as-is.
	m, cmd = step(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatalf("expected confirm command")
	}
	confirmed, ok := cmd().(CaptureDoneMsg)
	if !ok || !confirmed.Outcome.Saved {
		t.Fatalf("expected saved outcome after confirmation, got %#v", confirmed)
	}
}

func TestPaletteWeekCommandSwitchesAndLoads(t *testing.T) {
	m := testModel(t)
	m.Palette.Active = true
	m.commandInput.SetValue("week +1")

	m, cmd := step(t, m, keyMsg("enter"))
	if m.Palette.Active {
		t.Fatalf("expected palette closed")
	}
	if m.CurrentView != ViewWeekly {
		t.Fatalf("expected weekly view, got %s", m.CurrentView)
	}
	if cmd == nil {
		t.Fatalf("expected week load command")
	}
	loaded, ok := cmd().(WeekLoadedMsg)
	if !ok {
		t.Fatalf("expected WeekLoadedMsg, got %T", cmd())
	}
	if loaded.Offset != 1 {
		t.Fatalf("expected offset 1, got %d", loaded.Offset)
	}

	m, _ = step(t, m, loaded)
	if m.Weekly.Offset != 1 {
		t.Fatalf("expected stored offset 1, got %d", m.Weekly.Offset)
	}
}

func TestPaletteRejectsUnknownCommand(t *testing.T) {
	m := testModel(t)
	m.Palette.Active = true
	m.commandInput.SetValue("frobnicate everything")

	m, cmd := step(t, m, keyMsg("enter"))
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	if cmd != nil {
		t.Fatalf("unknown command must not dispatch work")
	}
}

func TestPromptDueRecordsAndReschedules(t *testing.T) {
	m := testModel(t)
	m.Engine = session.NewEngine(4)
	m.Session = session.NewState(time.Hour)

	ev := session.PromptEvent{ID: "p-1", Kind: session.KindEnergyCheck, At: appNow}
	m, cmd := step(t, m, PromptDueMsg{Event: ev})
	if len(m.PromptLog) != 1 {
		t.Fatalf("expected prompt logged, got %d", len(m.PromptLog))
	}
	if !strings.Contains(m.Status.Text, "énergie") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	if cmd == nil {
		t.Fatalf("expected re-arm commands")
	}
	if got := m.Session.NextEnergyCheckAt(appNow); !got.Equal(appNow.Add(time.Hour)) {
		t.Fatalf("expected next check one hour later, got %v", got)
	}
}

func TestViewRendersCurrentPanel(t *testing.T) {
	m := testModel(t)
	out := m.View()
	if !strings.Contains(out, "capture") {
		t.Fatalf("expected capture panel in view output")
	}
	if !strings.Contains(out, "kairu") {
		t.Fatalf("expected header in view output")
	}
}
