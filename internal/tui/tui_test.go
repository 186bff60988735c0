package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/addprompt/internal/batch"
	"github.com/handiism/addprompt/internal/config"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppendLog(t *testing.T) {
	var logs []LogEntry
	logs = appendLog(logs, batch.ProgressEvent{Message: "hidden", Level: batch.LevelVerbose}, false)
	if len(logs) != 0 {
		t.Fatalf("verbose event kept without verbose: %v", logs)
	}

	for i := 0; i < 15; i++ {
		logs = appendLog(logs, batch.ProgressEvent{Message: fmt.Sprintf("m%d", i), Level: batch.LevelInfo}, false)
	}
	if len(logs) != maxLogs {
		t.Fatalf("len(logs) = %d, want %d", len(logs), maxLogs)
	}
	if logs[0].Message != "m5" || logs[maxLogs-1].Message != "m14" {
		t.Errorf("kept %q..%q, want the latest entries", logs[0].Message, logs[maxLogs-1].Message)
	}

	logs = appendLog(logs, batch.ProgressEvent{Message: "shown", Level: batch.LevelVerbose}, true)
	if logs[len(logs)-1].Message != "shown" {
		t.Error("verbose event dropped in verbose mode")
	}
}

func TestModel_ToggleOptions(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	for _, k := range []string{"f", "c", "v", "p"} {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}

	if !m.force || !m.continueOnError || !m.verbose {
		t.Errorf("options = force %v, continue %v, verbose %v; want all on", m.force, m.continueOnError, m.verbose)
	}
	if m.preset != "plain" {
		t.Errorf("preset = %q, want plain after one cycle", m.preset)
	}
	if m.textInput.Value() != "" {
		t.Errorf("option keys leaked into the input: %q", m.textInput.Value())
	}
	if !strings.Contains(m.View(), "[x] Overwrite existing outputs") {
		t.Error("view does not show the force option as set")
	}
}

func TestModel_KeysTypeIntoPathOnceStarted(t *testing.T) {
	m := NewModel(nil)
	m.textInput.SetValue("/data/")

	next, _ := m.Update(key("f"))
	m = next.(Model)

	if m.force {
		t.Error("f toggled force while typing a path")
	}
	if m.textInput.Value() != "/data/f" {
		t.Errorf("input = %q, want /data/f", m.textInput.Value())
	}
}

func TestNextPreset(t *testing.T) {
	names := []string{"deeplili", "plain", "night"}
	tests := []struct{ current, want string }{
		{"deeplili", "plain"},
		{"night", "deeplili"},
		{"unknown", "deeplili"},
	}
	for _, tt := range tests {
		if got := nextPreset(names, tt.current); got != tt.want {
			t.Errorf("nextPreset(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestModel_RunDone(t *testing.T) {
	report := batch.Report{Done: 2, Skipped: 1, Results: make([]batch.Result, 3)}

	m := NewModel(nil)
	m.state = StateProcessing
	next, _ := m.Update(RunDoneMsg{Report: report})
	m = next.(Model)
	if m.state != StateComplete {
		t.Fatalf("state = %v, want complete", m.state)
	}
	if !strings.Contains(m.View(), "Skipped: 1") {
		t.Error("summary box missing skipped count")
	}

	m = NewModel(nil)
	m.state = StateProcessing
	next, _ = m.Update(RunDoneMsg{Report: report, Err: batch.ErrBatchFailed})
	m = next.(Model)
	if m.state != StateError || !errors.Is(m.err, batch.ErrBatchFailed) {
		t.Errorf("state = %v, err = %v; want error state", m.state, m.err)
	}
}

func TestModel_InitError(t *testing.T) {
	m := NewModel(nil)
	m.state = StateInitializing
	next, _ := m.Update(InitDoneMsg{Err: errors.New("font not found: DejaVuSans.ttf")})
	m = next.(Model)

	if m.state != StateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if !strings.Contains(m.View(), "DejaVuSans.ttf") {
		t.Error("error view does not show the cause")
	}
}

func TestEvents_SendNeverBlocks(t *testing.T) {
	e := make(Events, 1)
	e.Send(batch.ProgressEvent{Message: "one"})
	e.Send(batch.ProgressEvent{Message: "two"})

	if got := <-e; got.Message != "one" {
		t.Errorf("got %q, want the first event", got.Message)
	}
	if len(e) != 0 {
		t.Errorf("buffer holds %d events, want 0", len(e))
	}
}

func TestProgressModel_QuitsWhenRunEnds(t *testing.T) {
	manager := batch.NewManager(config.DefaultSettings(), batch.Deps{}, nil)
	events := NewEvents()
	events.Send(batch.ProgressEvent{Message: "Created item1/output.png", Level: batch.LevelSuccess})

	m := NewProgressModel(context.Background(), manager, events, false)
	next, cmd := m.Update(RunDoneMsg{Report: batch.Report{Done: 1, Results: make([]batch.Result, 1)}})
	m = next.(ProgressModel)

	if !m.finished || cmd == nil {
		t.Fatal("model did not finish")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	view := m.View()
	if !strings.Contains(view, "1 done, 0 skipped, 0 failed") || !strings.Contains(view, "item1/output.png") {
		t.Errorf("final view missing summary or drained log:\n%s", view)
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v", m.Err())
	}
}

func TestProgressModel_CtrlCCancels(t *testing.T) {
	manager := batch.NewManager(config.DefaultSettings(), batch.Deps{}, nil)
	m := NewProgressModel(context.Background(), manager, NewEvents(), false)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.ctx.Err() == nil {
		t.Error("ctrl+c did not cancel the run context")
	}
}
