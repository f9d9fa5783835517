package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rosarium/internal/api"
	"github.com/five82/rosarium/internal/session"
)

func (m *Model) initLoginInputs() {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	m.loginInputs = [2]textinput.Model{email, password}
}

func (m *Model) initRegisterInputs() {
	labels := []string{"email", "username", "password", "repeat password"}
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 120
		if i >= 2 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		m.regInputs[i] = in
	}
	m.regInputs[0].Focus()
}

func (m *Model) focusLoginInputs() {
	for i := range m.loginInputs {
		if i == m.focus {
			m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
}

func (m *Model) focusRegisterInputs() {
	for i := range m.regInputs {
		if i == m.focus {
			m.regInputs[i].Focus()
		} else {
			m.regInputs[i].Blur()
		}
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.loginInputs)
		m.focusLoginInputs()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.loginInputs) - 1) % len(m.loginInputs)
		m.focusLoginInputs()
		return m, nil
	case "ctrl+r":
		m.view = ViewRegister
		m.focus = 0
		m.formErr = ""
		m.focusRegisterInputs()
		return m, textinput.Blink
	case "enter":
		email := strings.TrimSpace(m.loginInputs[0].Value())
		password := m.loginInputs[1].Value()
		if email == "" || password == "" {
			m.formErr = "Email and password are required."
			return m, nil
		}
		m.formErr = ""
		return m, m.loginCmd(email, password)
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.loginInputs[m.focus], cmd = m.loginInputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.regInputs)
		m.focusRegisterInputs()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.regInputs) - 1) % len(m.regInputs)
		m.focusRegisterInputs()
		return m, nil
	case "esc":
		m.view = ViewLogin
		m.focus = 0
		m.formErr = ""
		m.focusLoginInputs()
		return m, textinput.Blink
	case "enter":
		req := session.RegisterRequest{
			Email:     strings.TrimSpace(m.regInputs[0].Value()),
			Username:  strings.TrimSpace(m.regInputs[1].Value()),
			Password:  m.regInputs[2].Value(),
			Password2: m.regInputs[3].Value(),
		}
		if req.Email == "" || req.Username == "" || req.Password == "" {
			m.formErr = "All fields are required."
			return m, nil
		}
		if req.Password != req.Password2 {
			m.formErr = "Passwords do not match."
			return m, nil
		}
		m.formErr = ""
		return m, m.registerCmd(req)
	}

	var cmd tea.Cmd
	m.regInputs[m.focus], cmd = m.regInputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.formErr = authErrorText(msg.err)
		return m, nil
	}
	if msg.register {
		// Account created; drop back to login with the notice visible.
		m.view = ViewLogin
		m.focus = 0
		m.formErr = ""
		m.focusLoginInputs()
		return m, textinput.Blink
	}
	m.view = ViewGrid
	m.formErr = ""
	m.loginInputs[1].SetValue("")
	return m, tea.Batch(m.resolveCmd(false), m.groupsCmd())
}

// authErrorText prefers field-level validation detail over the headline
// message when the server supplies it.
func authErrorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for _, field := range []string{"email", "username", "password", "password2"} {
			if msgs, ok := apiErr.Fields[field]; ok && len(msgs) > 0 {
				return field + ": " + msgs[0]
			}
		}
	}
	return api.MessageFrom(err)
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	store := m.session
	notices := m.notices
	ctx := m.ctx
	return func() tea.Msg {
		err := store.Login(ctx, email, password)
		if err == nil {
			notices.Show("Welcome back")
		}
		return authMsg{err: err}
	}
}

func (m Model) registerCmd(req session.RegisterRequest) tea.Cmd {
	store := m.session
	notices := m.notices
	ctx := m.ctx
	return func() tea.Msg {
		err := store.Register(ctx, req)
		if err == nil {
			notices.Show("Account created. Sign in to continue.")
		}
		return authMsg{err: err, register: true}
	}
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Text.Render("Sign in to your garden"))
	b.WriteString("\n\n")
	for i := range m.loginInputs {
		b.WriteString("  " + m.loginInputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.formErr != "" {
		b.WriteString("  " + m.styles.Danger.Render(m.formErr) + "\n\n")
	}
	b.WriteString(m.styles.Muted.Render("  enter sign in · ctrl+r register · esc quit"))
	return b.String()
}

func (m Model) renderRegister() string {
	var b strings.Builder
	b.WriteString(m.styles.Text.Render("Create an account"))
	b.WriteString("\n\n")
	for i := range m.regInputs {
		b.WriteString("  " + m.regInputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.formErr != "" {
		b.WriteString("  " + m.styles.Danger.Render(m.formErr) + "\n\n")
	}
	b.WriteString(m.styles.Muted.Render("  enter create · esc back to sign in"))
	return b.String()
}
