// Package tui provides a Bubble Tea terminal user interface for the
// digest downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/wggf/digest-downloader/internal/config"
	"github.com/wggf/digest-downloader/internal/download"
	ioutils "github.com/wggf/digest-downloader/internal/io"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScraping
	StateComplete
	StateError
)

// logBuffer collects log lines written by the scraping goroutine so
// the UI can drain them on its own tick. Safe for concurrent use.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			b.lines = append(b.lines, line)
		}
	}
	return len(p), nil
}

// Drain returns the buffered lines and empties the buffer.
func (b *logBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := b.lines
	b.lines = nil
	return lines
}

// inputs on the credentials form, in tab order.
const (
	inputUsername = iota
	inputPassword
	inputOutDir
	inputCount
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focused  int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings

	logs    []string
	logBuf  *logBuffer
	summary download.Summary
	err     error

	// Scrape context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager

	completed int
	total     int

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	inputs := make([]textinput.Model, inputCount)

	user := textinput.New()
	user.Placeholder = "member username"
	user.CharLimit = 100
	user.Width = 40
	user.Focus()
	inputs[inputUsername] = user

	pass := textinput.New()
	pass.Placeholder = "member password"
	pass.CharLimit = 100
	pass.Width = 40
	pass.EchoMode = textinput.EchoPassword
	inputs[inputPassword] = pass

	out := textinput.New()
	out.Placeholder = "output directory"
	out.CharLimit = 300
	out.Width = 40
	out.SetValue("wggf-digests")
	inputs[inputOutDir] = out

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: config.DefaultSettings(),
		logBuf:   &logBuffer{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ScrapeDoneMsg is sent when the whole run has finished.
	ScrapeDoneMsg struct {
		Summary download.Summary
		Err     error
	}

	// TickMsg is for periodic progress and log updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
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
			if m.state == StateScraping {
				m.cancel()
			}

		case "tab", "down":
			if m.state == StateInput {
				m.focusInput((m.focused + 1) % inputCount)
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.focusInput((m.focused + inputCount - 1) % inputCount)
			}

		case "enter":
			if m.state == StateInput {
				if m.focused < inputCount-1 {
					m.focusInput(m.focused + 1)
					break
				}
				if m.username() != "" && m.password() != "" && m.outDir() != "" {
					m.state = StateScraping
					return m, tea.Batch(m.startScrape(), m.tickProgress(), m.spinner.Tick)
				}
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.logBuf = &logBuffer{}
				m.err = nil
				m.summary = download.Summary{}
				m.manager = nil
				m.completed, m.total = 0, 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.focusInput(inputUsername)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ScrapeDoneMsg:
		m.drainLogs()
		m.summary = msg.Summary
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateScraping {
			m.completed, m.total = m.manager.GetProgress()
			m.drainLogs()

			var percent float64
			if m.total > 0 {
				percent = float64(m.completed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) focusInput(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m Model) username() string { return strings.TrimSpace(m.inputs[inputUsername].Value()) }
func (m Model) password() string { return m.inputs[inputPassword].Value() }
func (m Model) outDir() string   { return strings.TrimSpace(m.inputs[inputOutDir].Value()) }

func (m *Model) drainLogs() {
	m.logs = append(m.logs, m.logBuf.Drain()...)
	// Keep only the last 10 lines
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("WGGF Digest Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Scrape the WGGF mailing-list archive"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScraping:
		b.WriteString(m.viewScraping())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	labels := [inputCount]string{"Username:", "Password:", "Output directory:"}
	for i, in := range m.inputs {
		b.WriteString(subtitleStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"Archive: %s (from %d)", m.settings.ArchiveURL, m.settings.StartYear)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScraping() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scraping monthly digests..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Months: %d/%d", m.completed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"Scrape Complete!\n\n"+
			"Digests saved: %d\n"+
			"Empty months:  %d\n"+
			"Failed:        %d\n"+
			"Elapsed:       %s\n\n"+
			"Files saved to %s",
		m.summary.Saved,
		m.summary.Empty,
		m.summary.Failed,
		m.summary.Elapsed.Round(time.Second),
		m.summary.OutputDir,
	))
	return box
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, line := range m.logs {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "tab: next field • enter: start • esc: quit"
	case StateScraping:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// startScrape launches the run in the background and reports back with
// a ScrapeDoneMsg. Progress is polled via TickMsg in the meantime.
func (m *Model) startScrape() tea.Cmd {
	run := config.RunConfig{
		Username:  m.username(),
		Password:  m.password(),
		OutputDir: m.outDir(),
	}

	logger := log.New(m.logBuf)
	logger.SetLevel(log.DebugLevel)

	m.manager = download.NewManager(m.settings, run, logger, nil)
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if err := ioutils.EnsureDir(run.OutputDir); err != nil {
			return ScrapeDoneMsg{Err: err}
		}
		summary, err := manager.Run(ctx)
		return ScrapeDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
