package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/addprompt/internal/batch"
)

// ProgressModel shows a progress bar and the latest events while an
// initialized Manager runs. It quits when the run ends.
type ProgressModel struct {
	manager *batch.Manager
	events  Events
	ctx     context.Context
	cancel  context.CancelFunc

	progress progress.Model
	logs     []LogEntry
	verbose  bool

	done, total int32
	finished    bool
	report      batch.Report
	err         error
}

// NewProgressModel creates the progress display for manager. events must
// be the buffer the manager reports to.
func NewProgressModel(ctx context.Context, manager *batch.Manager, events Events, verbose bool) ProgressModel {
	ctx, cancel := context.WithCancel(ctx)

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return ProgressModel{
		manager:  manager,
		events:   events,
		ctx:      ctx,
		cancel:   cancel,
		progress: prog,
		verbose:  verbose,
	}
}

// Init starts the run.
func (m ProgressModel) Init() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	run := func() tea.Msg {
		err := manager.Run(ctx)
		return RunDoneMsg{Report: manager.Report(), Err: err}
	}
	return tea.Batch(run, m.events.wait(), tickProgress())
}

// Update handles messages and updates the model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = clampWidth(msg.Width - 20)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.cancel()
		}
		return m, nil

	case ProgressMsg:
		m.logs = appendLog(m.logs, msg.Event, m.verbose)
		return m, m.events.wait()

	case TickMsg:
		if m.finished {
			return m, nil
		}
		m.done, m.total = m.manager.GetProgress()
		return m, tea.Batch(m.progress.SetPercent(percent(m.done, m.total)), tickProgress())

	case RunDoneMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		m.done, m.total = m.manager.GetProgress()
		m.drain()
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// drain moves events still buffered into the log so the final view is
// complete.
func (m *ProgressModel) drain() {
	for {
		select {
		case event := <-m.events:
			m.logs = appendLog(m.logs, event, m.verbose)
		default:
			return
		}
	}
}

// View renders the UI.
func (m ProgressModel) View() string {
	var b strings.Builder

	if m.finished {
		b.WriteString(m.progress.ViewAs(percent(m.done, m.total)))
	} else {
		b.WriteString(m.progress.View())
	}
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	b.WriteString("\n")
	b.WriteString(renderLogs(m.logs))

	if m.finished {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.report.Summary()))
		} else {
			b.WriteString(successStyle.Render(m.report.Summary()))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Err returns the error the run ended with.
func (m ProgressModel) Err() error {
	return m.err
}

// RunProgress runs manager with a progress display written to out and
// returns the error of the run.
func RunProgress(ctx context.Context, manager *batch.Manager, events Events, verbose bool, out io.Writer) error {
	model := NewProgressModel(ctx, manager, events, verbose)
	defer model.cancel()

	// interrupts cancel ctx; the program then quits once the run returns
	final, err := tea.NewProgram(model, tea.WithOutput(out), tea.WithoutSignalHandler()).Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(ProgressModel); ok {
		return pm.Err()
	}
	return nil
}
