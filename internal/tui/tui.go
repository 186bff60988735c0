// Package tui provides Bubble Tea terminal user interfaces for addprompt:
// an interactive front end and the progress display used by the CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/addprompt/internal/batch"
	"github.com/handiism/addprompt/internal/config"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F97300")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E2DFD0")).
			Padding(1, 2)
)

// errCancelled is shown when the user stops a run.
var errCancelled = errors.New("cancelled by user")

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateProcessing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// Message types
type (
	// ProgressMsg carries one event from the batch manager.
	ProgressMsg struct {
		Event batch.ProgressEvent
	}

	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		Manager *batch.Manager
		Folders int
		Err     error
	}

	// RunDoneMsg is sent when all folders have been processed.
	RunDoneMsg struct {
		Report batch.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Events buffers progress events between the batch manager and a Bubble
// Tea program. Send never blocks; events are dropped when the buffer is
// full.
type Events chan batch.ProgressEvent

// NewEvents creates an event buffer.
func NewEvents() Events {
	return make(Events, 256)
}

// Send queues an event. It has the signature of a batch progress callback.
func (e Events) Send(event batch.ProgressEvent) {
	select {
	case e <- event:
	default:
	}
}

// wait returns a command delivering the next event.
func (e Events) wait() tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-e}
	}
}

// Model is the interactive Bubble Tea model.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error
	report    batch.Report

	// Run context
	ctx    context.Context
	cancel context.CancelFunc
	events Events

	manager *batch.Manager
	folders int
	done    int32
	total   int32

	// Options
	force           bool
	continueOnError bool
	verbose         bool
	preset          string

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides the defaults for
// the options; nil uses config.DefaultSettings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/folders"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97300"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	preset := settings.Preset
	if preset == "" {
		preset = settings.PresetNames()[0]
	}

	return Model{
		state:           StateInput,
		textInput:       ti,
		spinner:         sp,
		progress:        prog,
		settings:        settings,
		logs:            make([]LogEntry, 0),
		ctx:             ctx,
		cancel:          cancel,
		events:          NewEvents(),
		force:           settings.Force,
		continueOnError: settings.ContinueOnError,
		verbose:         false,
		preset:          preset,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.events.wait())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampWidth(msg.Width - 20)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateProcessing || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initialize(), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, nil
			}
		}

		if m.state == StateInput && m.toggle(msg) {
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.logs = appendLog(m.logs, msg.Event, m.verbose)
		cmds = append(cmds, m.events.wait())

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.folders = msg.Folders
			m.state = StateProcessing
			cmds = append(cmds, m.run(), tickProgress())
		}

	case RunDoneMsg:
		m.report = msg.Report
		if m.manager != nil {
			m.done, m.total = m.manager.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateProcessing {
			m.done, m.total = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(percent(m.done, m.total)), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// toggle applies the option keys on the input screen. The keys are only
// options while the path field is empty, so paths can still be typed.
func (m *Model) toggle(msg tea.KeyMsg) bool {
	if m.textInput.Value() != "" {
		return false
	}
	switch msg.String() {
	case "f":
		m.force = !m.force
	case "c":
		m.continueOnError = !m.continueOnError
	case "v":
		m.verbose = !m.verbose
	case "p":
		m.preset = nextPreset(m.settings.PresetNames(), m.preset)
	default:
		return false
	}
	return true
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.report = batch.Report{}
	m.done, m.total = 0, 0
	m.folders = 0
	m.manager = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func nextPreset(names []string, current string) string {
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return current
}

// appendLog adds an event to the visible log, dropping verbose events
// unless verbose is set, and keeps the last maxLogs entries.
func appendLog(logs []LogEntry, event batch.ProgressEvent, verbose bool) []LogEntry {
	if event.Level == batch.LevelVerbose && !verbose {
		return logs
	}
	logs = append(logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	return logs
}

func percent(done, total int32) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func clampWidth(w int) int {
	if w > 80 {
		return 80
	}
	if w < 20 {
		return 20
	}
	return w
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("addprompt"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Caption every image of a folder tree"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Base path:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Overwrite existing outputs (f)\n", checkbox(m.force)))
	b.WriteString(fmt.Sprintf("  %s Continue after a failed folder (c)\n", checkbox(m.continueOnError)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString(fmt.Sprintf("  Preset: %s (p)\n", m.preset))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Reads %s and %s, writes %s in every folder",
		m.settings.ImageFileName, m.settings.PromptFileName, m.settings.OutputFileName)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Loading fonts and listing folders..."))
	b.WriteString("\n\n")
	b.WriteString(renderLogs(m.logs))

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Folders: %d/%d", m.done, m.total)))
	b.WriteString("\n\n")
	b.WriteString(renderLogs(m.logs))

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Done!\n\n"+
			"Folders: %d\n"+
			"Created: %d\n"+
			"Skipped: %d\n"+
			"Failed:  %d",
		m.folders,
		m.report.Done,
		m.report.Skipped,
		m.report.Failed,
	)) + "\n\n" + renderLogs(m.logs)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}
	if len(m.report.Results) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.report.Summary()))
		b.WriteString("\n")
	}

	return b.String()
}

func renderLogs(logs []LogEntry) string {
	var b strings.Builder

	for _, log := range logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • f: force • c: continue on error • v: verbose • p: preset • esc: quit"
	case StateInitializing, StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// initialize builds the manager for the entered base path.
func (m *Model) initialize() tea.Cmd {
	basePath := strings.TrimSpace(m.textInput.Value())

	settings := *m.settings
	settings.Force = m.force
	settings.ContinueOnError = m.continueOnError
	settings.Preset = m.preset

	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		manager := batch.NewManager(&settings, batch.Deps{}, events.Send)
		if err := manager.Initialize(ctx, basePath); err != nil {
			return InitDoneMsg{Err: err}
		}
		return InitDoneMsg{
			Manager: manager,
			Folders: len(manager.Folders()),
		}
	}
}

// run processes the folders in background.
func (m *Model) run() tea.Cmd {
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return RunDoneMsg{Err: errors.New("no manager")}
		}
		err := manager.Run(ctx)
		return RunDoneMsg{Report: manager.Report(), Err: err}
	}
}

// Run starts the interactive TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
