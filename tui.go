package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"uitranscriber/hotkey"
	"uitranscriber/script"
)

// TUI message types
type refreshMsg struct{}
type statusMsg struct {
	Text  string
	Error bool
}
type tickMsg time.Time

// statusTTL is how long an action result stays on the status line.
const statusTTL = 4 * time.Second

type tuiModel struct {
	app *app

	width, height int
	recording     bool
	lines         int
	tail          []string
	pendingText   string
	pendingKey    script.Key
	pendingCount  int
	saved         string
	dirty         bool

	status     string
	statusErr  bool
	statusTime time.Time
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	recStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	clickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	writeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	pressStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	panelStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("238"))
)

func newTUIModel(a *app) tuiModel {
	return tuiModel{app: a}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(refresh, tuiTick())
}

func refresh() tea.Msg { return refreshMsg{} }

func tuiTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// action runs fn off the UI goroutine; results come back as messages.
func action(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, action(m.app.toggle)
		case "f":
			return m, action(m.app.flush)
		case "s":
			return m, action(func() { m.app.save("") })
		case "c":
			return m, action(m.app.clear)
		case "y":
			return m, action(m.app.copy)
		}

	case refreshMsg:
		m.sync()

	case statusMsg:
		m.status = msg.Text
		m.statusErr = msg.Error
		m.statusTime = time.Now()

	case tickMsg:
		if m.status != "" && time.Since(m.statusTime) > statusTTL && !m.statusErr {
			m.status = ""
		}
		return m, tuiTick()
	}
	return m, nil
}

func (m *tuiModel) sync() {
	s := m.app.sess
	m.recording = s.Recording()
	m.lines = s.Lines()
	m.tail = s.Tail(max(m.height, 1))
	m.pendingText, m.pendingKey, m.pendingCount = s.Pending()
	m.saved = s.LastSaved()
	m.dirty = s.Dirty()
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var header []string
	header = append(header, titleStyle.Render("uitranscriber")+" "+helpStyle.Render(version))

	var state string
	if m.recording {
		state = recStyle.Render("● REC")
	} else {
		state = idleStyle.Render("○ STANDBY")
	}
	info := fmt.Sprintf("%d lines", m.lines)
	if p := m.pendingLine(); p != "" {
		info += " | pending: " + p
	}
	header = append(header, state+"  "+infoStyle.Render(info))

	saved := "not saved"
	if m.saved != "" {
		saved = "saved: " + m.saved
		if m.dirty {
			saved += " (modified)"
		}
	}
	header = append(header, infoStyle.Render(saved))

	if m.status != "" {
		if m.statusErr {
			header = append(header, errStyle.Render("⚠ "+m.status))
		} else {
			header = append(header, okStyle.Render("✓ "+m.status))
		}
	} else {
		header = append(header, "")
	}

	help := boldHelp.Render(hotkey.Chord) + helpStyle.Render(" record") +
		helpStyle.Render(" · r toggle · f flush · s save · c clear · y copy · q quit")

	// header, two border rows and the help line
	scriptHeight := m.height - len(header) - 3
	if scriptHeight < 1 {
		scriptHeight = 1
	}
	body := m.renderScript(scriptHeight, m.width-2)
	panel := panelStyle.Width(max(m.width-2, 10)).Height(scriptHeight).Render(body)

	return strings.Join(header, "\n") + "\n" + panel + "\n" + help
}

func (m tuiModel) pendingLine() string {
	var parts []string
	if m.pendingText != "" {
		parts = append(parts, fmt.Sprintf("%q", m.pendingText))
	}
	if m.pendingCount > 0 {
		parts = append(parts, fmt.Sprintf("%s x%d", m.pendingKey, m.pendingCount))
	}
	return strings.Join(parts, " ")
}

// renderScript shows the last lines that fit, newest at the bottom.
func (m tuiModel) renderScript(height, width int) string {
	lines := m.tail
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	var b strings.Builder
	for i, line := range lines {
		line = strings.TrimRight(line, "\n")
		if width > 1 {
			line = ansi.Truncate(line, width, "…")
		}
		b.WriteString(styleLine(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "click("):
		return clickStyle.Render(line)
	case strings.HasPrefix(line, "write("):
		return writeStyle.Render(line)
	case strings.HasPrefix(line, "press("):
		return pressStyle.Render(line)
	default:
		return commentStyle.Render(line)
	}
}

// tuiProgram runs the model and is the app's frontend while it does.
type tuiProgram struct {
	p    *tea.Program
	mu   sync.Mutex
	done bool
}

func newTUIProgram(a *app) *tuiProgram {
	return &tuiProgram{p: tea.NewProgram(newTUIModel(a), tea.WithAltScreen())}
}

func (t *tuiProgram) Run() error {
	_, err := t.p.Run()
	t.mu.Lock()
	t.done = true
	t.mu.Unlock()
	return err
}

func (t *tuiProgram) Quit() { t.p.Quit() }

// send never blocks the caller; Program.Send waits until Run has started.
func (t *tuiProgram) send(msg tea.Msg) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if !done {
		go t.p.Send(msg)
	}
}

func (t *tuiProgram) Changed()           { t.send(refreshMsg{}) }
func (t *tuiProgram) Status(text string) { t.send(statusMsg{Text: text}) }
func (t *tuiProgram) Error(err error)    { t.send(statusMsg{Text: err.Error(), Error: true}) }
