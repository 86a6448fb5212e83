// Package app is the interactive surface over the state engine: a session
// sidebar, a transcript pane, a transient error banner and the global search
// overlay. It renders selector snapshots and dispatches intents; it never
// touches store internals.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/philjestin/boatmanapp-sub000/internal/state"
	"github.com/philjestin/boatmanapp-sub000/internal/store"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

const bannerTTL = 5 * time.Second

type stateChangedMsg struct{}

type bannerMsg state.Banner

type bannerExpiredMsg struct{ at time.Time }

type fatalMsg struct{ err error }

type Model struct {
	engine   *state.Engine
	uiStore  store.UIStateStore
	keys     keyMap
	search   searchModel
	uiState  types.UIState
	banner   *state.Banner
	fatalErr error

	width  int
	height int
}

func NewModel(engine *state.Engine, uiStore store.UIStateStore, uiState types.UIState) Model {
	return Model{
		engine:  engine,
		uiStore: uiStore,
		keys:    defaultKeyMap(),
		search:  newSearchModel(engine),
		uiState: uiState,
	}
}

// WithFatal puts the model into the full-screen error state before the
// program starts. In that state the engine is never consulted, so the model
// tolerates a nil engine when the transport could not even be dialed.
func (m Model) WithFatal(err error) Model {
	m.fatalErr = err
	return m
}

// Attach wires engine notifications into the running program. Call after
// tea.NewProgram, before Run. With no engine there is nothing to wire.
func (m Model) Attach(p *tea.Program) func() {
	if m.engine == nil {
		return func() {}
	}
	unsubStore := m.engine.Store().SubscribeChanges(func() {
		p.Send(stateChangedMsg{})
	})
	unsubErrs := m.engine.Errors().Subscribe(func(b state.Banner) {
		p.Send(bannerMsg(b))
	})
	return func() {
		unsubStore()
		unsubErrs()
	}
}

// Fatal puts the model into the full-screen error state used when the event
// subscription cannot be established.
func Fatal(err error) tea.Cmd {
	return func() tea.Msg { return fatalMsg{err: err} }
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fatalMsg:
		m.fatalErr = msg.err
		return m, nil

	case stateChangedMsg:
		return m, nil

	case bannerMsg:
		banner := state.Banner(msg)
		m.banner = &banner
		at := banner.At
		return m, tea.Tick(bannerTTL, func(time.Time) tea.Msg {
			return bannerExpiredMsg{at: at}
		})

	case bannerExpiredMsg:
		if m.banner != nil && m.banner.At.Equal(msg.at) {
			m.banner = nil
		}
		return m, nil

	case searchResultsMsg, searchErrMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fatalErr != nil {
		if keyMatches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		m.persistUIState()
		return m, tea.Quit

	case keyMatches(msg, m.keys.GlobalSearch):
		if !m.search.open {
			m.search = m.search.opened()
		}
		return m, nil

	case keyMatches(msg, m.keys.Escape):
		// Esc closes the topmost surface and leaves the store untouched.
		if m.search.open {
			m.search = m.search.closed()
		}
		return m, nil
	}

	if m.search.open {
		var cmd tea.Cmd
		m.search, cmd = m.search.update(msg)
		return m, cmd
	}

	switch {
	case keyMatches(msg, m.keys.ToggleSidebar):
		m.uiState.SidebarOpen = !m.uiState.SidebarOpen
		return m, nil

	case keyMatches(msg, m.keys.NextSession):
		return m, m.selectAdjacent(1)

	case keyMatches(msg, m.keys.PrevSession):
		return m, m.selectAdjacent(-1)

	case keyMatches(msg, m.keys.LoadMore):
		id := m.engine.Selectors().ActiveSessionID()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			_ = m.engine.LoadMore(context.Background(), id)
			return nil
		}
	}
	return m, nil
}

func (m *Model) selectAdjacent(delta int) tea.Cmd {
	sessions := m.engine.Selectors().Sessions()
	if len(sessions) == 0 {
		return nil
	}
	active := m.engine.Selectors().ActiveSessionID()
	at := 0
	for i, session := range sessions {
		if session.ID == active {
			at = i + delta
			break
		}
	}
	if at < 0 {
		at = 0
	}
	if at >= len(sessions) {
		at = len(sessions) - 1
	}
	id := sessions[at].ID
	return func() tea.Msg {
		_ = m.engine.SelectSession(context.Background(), id)
		return nil
	}
}

func (m *Model) persistUIState() {
	if m.uiStore == nil {
		return
	}
	if project := m.activeProjectID(); project != "" {
		m.uiState.LastActiveProjectID = project
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.uiStore.Save(ctx, &m.uiState)
}

func (m *Model) activeProjectID() string {
	session := m.engine.Selectors().ActiveSession()
	if session == nil {
		return ""
	}
	for _, project := range m.engine.Selectors().RecentProjects(0) {
		if project.Path == session.ProjectPath {
			return project.ID
		}
	}
	return ""
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	fatalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Padding(1, 2)
	sidebarStyle  = lipgloss.NewStyle().Width(32).PaddingRight(1)
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	approvalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func (m Model) View() string {
	if m.fatalErr != nil {
		return fatalStyle.Render(fmt.Sprintf("Boatman could not reach the backend.\n\n%v\n\nctrl+c to quit", m.fatalErr))
	}

	var b strings.Builder
	if m.banner != nil {
		b.WriteString(bannerStyle.Render(m.banner.Message))
		b.WriteString("\n")
	}
	if m.search.open {
		b.WriteString(overlayStyle.Render(m.search.view()))
		b.WriteString("\n")
		return b.String()
	}

	main := m.transcriptView()
	if m.uiState.SidebarOpen {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(m.sidebarView()), main))
	} else {
		b.WriteString(main)
	}
	return b.String()
}

func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sessions"))
	b.WriteString("\n")
	active := m.engine.Selectors().ActiveSessionID()
	for _, session := range m.engine.Selectors().Sessions() {
		line := fmt.Sprintf("%s  %s", statusGlyph(session.Status), sessionLabel(session))
		if session.ID == active {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) transcriptView() string {
	session := m.engine.Selectors().ActiveSession()
	if session == nil {
		return dimStyle.Render("No session selected. ctrl+shift+f to search.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(sessionLabel(session)))
	b.WriteString("\n")
	if session.PendingApproval != nil {
		b.WriteString(approvalStyle.Render(approvalLine(session.PendingApproval)))
		b.WriteString("\n")
	}
	if session.Pagination.HasMore {
		b.WriteString(dimStyle.Render("pgup for older messages"))
		b.WriteString("\n")
	}
	for _, msg := range m.engine.Selectors().MessagesFor(session.ID) {
		b.WriteString(dimStyle.Render(string(msg.Role) + " "))
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func approvalLine(req *types.ApprovalRequest) string {
	target := req.FilePath
	if target == "" {
		target = req.Description
	}
	return fmt.Sprintf("approval requested: %s %s", req.ActionType, target)
}

func sessionLabel(session *types.Session) string {
	label := session.ProjectPath
	if label == "" {
		label = session.ID
	}
	if session.IsFavorite {
		label = "* " + label
	}
	return label
}

func statusGlyph(status types.SessionStatus) string {
	switch status {
	case types.SessionStatusRunning:
		return "●"
	case types.SessionStatusWaiting:
		return waitingStyle.Render("?")
	case types.SessionStatusError:
		return bannerStyle.Render("!")
	case types.SessionStatusStopped:
		return "■"
	default:
		return "○"
	}
}

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}
