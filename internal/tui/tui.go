package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/engine"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/store"
)

const frameInterval = 100 * time.Millisecond

type sessionState int

const (
	stateStarting sessionState = iota
	stateNameGate
	statePlaying
	stateError
)

type model struct {
	state     sessionState
	engine    *engine.Engine
	screen    *screen
	sched     *Scheduler
	store     store.Store
	logger    *slog.Logger
	textInput textinput.Model
	player    string
	err       error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	gateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(1, 2)
)

// Game bundles an engine with the surfaces it draws on.
type Game struct {
	Engine *engine.Engine
	screen *screen
	sched  *Scheduler
}

// NewGame builds an engine wired to a terminal screen and tick scheduler.
func NewGame(reg *models.Registry, logger *slog.Logger, opts engine.Options) (*Game, error) {
	scr := newScreen(reg.IDs())
	sched := NewScheduler()
	eng, err := engine.NewEngine(reg, scr, sched, logger, opts)
	if err != nil {
		return nil, err
	}
	return &Game{Engine: eng, screen: scr, sched: sched}, nil
}

func NewModel(g *Game, st store.Store, logger *slog.Logger) model {
	ti := textinput.New()
	ti.Placeholder = "Your name..."
	ti.CharLimit = 32
	ti.Width = 32

	return model{
		state:     stateStarting,
		engine:    g.Engine,
		screen:    g.screen,
		sched:     g.sched,
		store:     st,
		logger:    logger,
		textInput: ti,
	}
}

type frameMsg struct{}

type nameLoadedMsg struct {
	name  string
	found bool
	err   error
}

type nameSavedMsg struct {
	name string
	err  error
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadName(), frame())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		m.screen.tick()
		return m, frame()

	case timerMsg:
		m.sched.Fire(msg.id)
		return m, m.sched.Drain()

	case nameLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to read player name", "error", msg.err)
		}
		if msg.found {
			return m.startPlaying(msg.name)
		}
		m.state = stateNameGate
		cmd := m.textInput.Focus()
		return m, cmd

	case nameSavedMsg:
		if msg.err != nil {
			// the gate only stores one key; playing on without it is fine
			m.logger.Warn("Failed to save player name", "error", msg.err)
		}
		return m.startPlaying(msg.name)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.engine.CancelTransition()
			return m, tea.Quit
		}
		switch m.state {
		case stateNameGate:
			return m.updateGate(msg)
		case statePlaying:
			return m.updateKeys(msg)
		case stateError:
			return m, tea.Quit
		}

	case tea.MouseMsg:
		if m.state == statePlaying {
			return m.updateMouse(msg)
		}
	}

	if m.state == stateNameGate {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		name := strings.TrimSpace(m.textInput.Value())
		if name == "" {
			return m, nil
		}
		m.textInput.Blur()
		return m, m.saveName(name)
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.engine.PopupOpen() {
		switch msg.String() {
		case "esc":
			m.engine.Dismiss(engine.DismissEscape)
		case "x":
			m.engine.Dismiss(engine.DismissCloseControl)
		case "up", "down", "pgup", "pgdown", "k", "j":
			var cmd tea.Cmd
			m.screen.body, cmd = m.screen.body.Update(msg)
			return m, cmd
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil {
				m.engine.PressButton(n - 1)
			}
		}
		return m, m.sched.Drain()
	}

	switch msg.String() {
	case "q":
		m.engine.CancelTransition()
		return m, tea.Quit
	default:
		// digits pick zones by their on-screen number
		n, err := strconv.Atoi(msg.String())
		zones := m.engine.Zones()
		if err == nil && n >= 1 && n <= len(zones) && !m.engine.Busy() {
			m.engine.HandleZoneClick(zones[n-1])
		}
	}
	return m, m.sched.Drain()
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if m.engine.PopupOpen() {
		button, closeHit, inside := m.screen.hitPopup(msg.X, msg.Y)
		switch {
		case closeHit:
			m.engine.Dismiss(engine.DismissCloseControl)
		case button >= 0:
			m.engine.PressButton(button)
		case !inside:
			m.engine.Dismiss(engine.DismissBackdrop)
		}
		return m, m.sched.Drain()
	}

	if px, py, ok := m.screen.toPercent(msg.X, msg.Y); ok {
		m.engine.ClickAt(px, py)
	}
	return m, m.sched.Drain()
}

func (m model) startPlaying(name string) (tea.Model, tea.Cmd) {
	m.player = name
	m.logger.Info("Player entered", "player", name)
	if err := m.engine.Start(); err != nil {
		m.err = err
		m.state = stateError
		return m, nil
	}
	m.state = statePlaying
	return m, m.sched.Drain()
}

func (m model) View() string {
	switch m.state {
	case stateStarting:
		return "\n  Opening the manor doors...\n"

	case stateNameGate:
		prompt := titleStyle.Render("WHO GOES THERE?") + "\n\n" +
			"Before you step inside, tell the manor your name:\n\n" +
			m.textInput.View()
		return lipgloss.Place(m.screen.width, m.screen.height, lipgloss.Center, lipgloss.Center,
			gateStyle.Render(prompt))

	case stateError:
		return fmt.Sprintf("\n  Error: %v\n\nPress any key to quit.", m.err)
	}

	return m.screen.view(m.status())
}

func (m model) status() string {
	st := m.engine.State()
	inv := "(empty)"
	if len(st.Inventory) > 0 {
		inv = strings.Join(st.Inventory, ", ")
	}
	help := "click or 1-9: zones · q: quit"
	if m.engine.PopupOpen() {
		help = "1-9: buttons · x/esc: close"
	}
	return fmt.Sprintf("%s · room: %s · inventory: %s · %s", m.player, st.CurrentRoom, inv, help)
}

func (m model) loadName() tea.Cmd {
	return func() tea.Msg {
		name, found, err := m.store.Get(context.Background(), store.PlayerNameKey)
		return nameLoadedMsg{name: name, found: found, err: err}
	}
}

func (m model) saveName(name string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Set(context.Background(), store.PlayerNameKey, name)
		return nameSavedMsg{name: name, err: err}
	}
}

// Run starts the terminal program and blocks until the player quits.
func Run(g *Game, st store.Store, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(g, st, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
