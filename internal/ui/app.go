package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rosarium/internal/catalog"
	"github.com/five82/rosarium/internal/mutate"
	"github.com/five82/rosarium/internal/notify"
	"github.com/five82/rosarium/internal/prefs"
	"github.com/five82/rosarium/internal/query"
	"github.com/five82/rosarium/internal/session"
)

// View represents the current active screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewGrid
	ViewDetail
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	session    *session.Store
	controller *query.Controller
	catalog    *catalog.Client
	actions    *mutate.Actions
	notices    *notify.Channel
	prefsPath  string

	theme  Theme
	styles Styles
	width  int
	height int
	ready  bool

	view   View
	busy   bool
	spin   spinner.Model
	notice notify.State

	// Login / register forms
	loginInputs [2]textinput.Model
	regInputs   [4]textinput.Model
	focus       int
	formErr     string

	// Grid state
	result        query.Result
	selected      int
	searching     bool
	searchInput   textinput.Model
	groups        []catalog.Group
	groupIdx      int // 0 = all groups
	confirmDelete bool

	// Detail state
	rose *catalog.Rose
}

func newModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := GetTheme(opts.ThemeName)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	search := textinput.New()
	search.Placeholder = "search roses"
	search.CharLimit = 80

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		controller:  opts.Controller,
		catalog:     opts.Catalog,
		actions:     opts.Actions,
		notices:     opts.Notices,
		prefsPath:   opts.PrefsPath,
		theme:       theme,
		styles:      theme.Styles(),
		spin:        sp,
		searchInput: search,
		view:        ViewLogin,
	}
	m.initLoginInputs()
	m.initRegisterInputs()

	if opts.Ordering != "" {
		m.controller.SetOrdering(opts.Ordering)
	}
	if m.session.IsAuthenticated() {
		m.view = ViewGrid
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.view == ViewGrid {
		cmds = append(cmds, m.resolveCmd(false), m.groupsCmd())
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case busyMsg:
		wasBusy := m.busy
		m.busy = bool(msg)
		if m.busy && !wasBusy {
			return m, m.spin.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case noticeMsg:
		m.notice = notify.State(msg)
		return m, nil

	case sessionExpiredMsg:
		m.view = ViewLogin
		m.formErr = "Session expired. Please sign in again."
		m.focus = 0
		m.focusLoginInputs()
		return m, textinput.Blink

	case resultMsg:
		res := query.Result(msg)
		if res.Superseded {
			return m, nil
		}
		m.result = res
		if m.selected >= len(res.Roses) {
			m.selected = max(0, len(res.Roses)-1)
		}
		return m, nil

	case deletedMsg:
		m.confirmDelete = false
		if msg.err != nil {
			// The façade already notified; the grid stays put for retry.
			return m, nil
		}
		if !msg.res.Superseded {
			m.result = msg.res
			if m.selected >= len(msg.res.Roses) {
				m.selected = max(0, len(msg.res.Roses)-1)
			}
		}
		if m.view == ViewDetail {
			m.view = ViewGrid
			m.rose = nil
		}
		return m, nil

	case roseMsg:
		if msg.err != nil {
			return m, nil
		}
		m.rose = msg.rose
		m.view = ViewDetail
		return m, nil

	case groupsMsg:
		m.groups = []catalog.Group(msg)
		return m, nil

	case authMsg:
		return m.handleAuth(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.view {
	case ViewLogin:
		b.WriteString(m.renderLogin())
	case ViewRegister:
		b.WriteString(m.renderRegister())
	case ViewGrid:
		b.WriteString(m.renderGrid())
	case ViewDetail:
		b.WriteString(m.renderDetail())
	}
	return b.String()
}

func (m Model) renderHeader() string {
	left := m.styles.Title.Render("❀ rosarium")
	if m.busy {
		left += " " + m.spin.View()
	}

	var right string
	if id := m.session.Identity(); id != nil && id.Username != "" {
		right = m.styles.Muted.Render(id.Username)
	}
	if m.notice.Visible {
		style := m.styles.Notice
		if m.notice.FadingOut {
			style = m.styles.NoticeGo
		}
		right = style.Render(m.notice.Message)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// handleKey routes keys by screen, after the few global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	case ViewGrid:
		return m.handleGridKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.styles = m.theme.Styles()
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, prefs.Prefs{
			Theme:    m.theme.Name,
			Ordering: m.controller.Params().Ordering,
		})
	}
}

// Messages

type busyMsg bool

type noticeMsg notify.State

type sessionExpiredMsg struct{}

type resultMsg query.Result

type deletedMsg struct {
	res query.Result
	err error
}

type roseMsg struct {
	rose *catalog.Rose
	err  error
}

type groupsMsg []catalog.Group

type authMsg struct {
	err      error
	register bool
}

// Commands

func (m Model) resolveCmd(force bool) tea.Cmd {
	ctrl := m.controller
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg(ctrl.Resolve(ctx, force))
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	ctrl := m.controller
	ctx := m.ctx
	return func() tea.Msg {
		res, err := ctrl.Delete(ctx, id)
		return deletedMsg{res: res, err: err}
	}
}

func (m Model) fetchRoseCmd(id int64) tea.Cmd {
	c := m.catalog
	ctx := m.ctx
	return func() tea.Msg {
		rose, err := c.Get(ctx, id)
		return roseMsg{rose: rose, err: err}
	}
}

func (m Model) groupsCmd() tea.Cmd {
	c := m.catalog
	ctx := m.ctx
	return func() tea.Msg {
		groups, err := c.Groups(ctx)
		if err != nil {
			return groupsMsg(nil)
		}
		return groupsMsg(groups)
	}
}
