package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rosarium/internal/catalog"
)

const gridColumns = 3

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search entry mode swallows everything except its own controls.
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			m.controller.SetSearch(strings.TrimSpace(m.searchInput.Value()))
			m.selected = 0
			return m, m.resolveCmd(false)
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue(m.controller.Params().Search)
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			if rose, ok := m.selectedRose(); ok {
				return m, m.deleteCmd(rose.ID)
			}
			m.confirmDelete = false
			return m, nil
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	params := m.controller.Params()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "o":
		// Cycle title ordering: server default → A–Z → Z–A.
		switch params.Ordering {
		case "title":
			m.controller.SetOrdering("-title")
		case "-title":
			m.controller.SetOrdering("")
		default:
			m.controller.SetOrdering("title")
		}
		m.selected = 0
		return m, m.resolveCmd(false)

	case "f":
		m.cycleGroup()
		m.selected = 0
		return m, m.resolveCmd(false)

	case "r":
		m.controller.Invalidate()
		return m, m.resolveCmd(true)

	case "T":
		m.cycleTheme()
		return m, nil

	case "L":
		store := m.session
		ctx := m.ctx
		m.view = ViewLogin
		m.focus = 0
		m.formErr = ""
		m.focusLoginInputs()
		return m, tea.Batch(
			func() tea.Msg { store.Logout(ctx); return nil },
			textinput.Blink,
		)

	case "left", "p":
		if params.Page > 1 {
			m.controller.ChangePage(params.Page - 1)
			m.selected = 0
			return m, m.resolveCmd(false)
		}
		return m, nil

	case "right", "n":
		if params.Page < m.result.TotalPages {
			m.controller.ChangePage(params.Page + 1)
			m.selected = 0
			return m, m.resolveCmd(false)
		}
		return m, nil

	case "h":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "l":
		if m.selected < len(m.result.Roses)-1 {
			m.selected++
		}
		return m, nil
	case "k", "up":
		if m.selected-gridColumns >= 0 {
			m.selected -= gridColumns
		}
		return m, nil
	case "j", "down":
		if m.selected+gridColumns < len(m.result.Roses) {
			m.selected += gridColumns
		}
		return m, nil

	case "enter":
		if rose, ok := m.selectedRose(); ok {
			return m, m.fetchRoseCmd(rose.ID)
		}
		return m, nil

	case "x":
		if _, ok := m.selectedRose(); ok {
			m.confirmDelete = true
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selectedRose() (catalog.Rose, bool) {
	if m.selected < 0 || m.selected >= len(m.result.Roses) {
		return catalog.Rose{}, false
	}
	return m.result.Roses[m.selected], true
}

func (m *Model) cycleGroup() {
	if len(m.groups) == 0 {
		return
	}
	m.groupIdx = (m.groupIdx + 1) % (len(m.groups) + 1)
	if m.groupIdx == 0 {
		m.controller.SetGroup("")
		return
	}
	m.controller.SetGroup(m.groups[m.groupIdx-1].Name)
}

func (m Model) renderGrid() string {
	var b strings.Builder

	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")

	if m.result.Message != "" {
		b.WriteString("  " + m.styles.Danger.Render(m.result.Message) + "\n")
	} else if len(m.result.Roses) == 0 {
		b.WriteString("  " + m.styles.Muted.Render("No roses match this view.") + "\n")
	} else {
		b.WriteString(m.renderCards())
	}

	b.WriteString("\n")
	if m.confirmDelete {
		if rose, ok := m.selectedRose(); ok {
			prompt := fmt.Sprintf("Delete %q? y to confirm, any other key to cancel", rose.DisplayTitle())
			b.WriteString(m.styles.Warning.Render(prompt))
			return b.String()
		}
	}
	b.WriteString(m.renderGridFooter())
	return b.String()
}

func (m Model) renderFilterBar() string {
	params := m.controller.Params()

	var parts []string
	if m.searching {
		parts = append(parts, m.searchInput.View())
	} else if params.Search != "" {
		parts = append(parts, m.styles.Accent.Render("search: "+params.Search))
	}
	if params.Group != "" {
		parts = append(parts, m.styles.Accent.Render("group: "+params.Group))
	}
	switch params.Ordering {
	case "title":
		parts = append(parts, m.styles.Muted.Render("A–Z"))
	case "-title":
		parts = append(parts, m.styles.Muted.Render("Z–A"))
	}
	if len(parts) == 0 {
		return m.styles.Muted.Render("all roses")
	}
	return strings.Join(parts, m.styles.Muted.Render("  ·  "))
}

func (m Model) renderCards() string {
	cardWidth := (m.width - 4) / gridColumns
	if cardWidth < 20 {
		cardWidth = 20
	}
	cardWidth -= 4 // border + padding

	var rows []string
	var row []string
	for i, rose := range m.result.Roses {
		style := m.styles.Card
		if i == m.selected {
			style = m.styles.CardSel
		}

		title := truncate(rose.DisplayTitle(), cardWidth)
		meta := rose.Group
		if rose.Breeder != "" {
			if meta != "" {
				meta += " · "
			}
			meta += rose.Breeder
		}
		body := m.styles.Text.Render(title) + "\n" + m.styles.Muted.Render(truncate(meta, cardWidth))
		row = append(row, style.Width(cardWidth).Render(body))

		if len(row) == gridColumns || i == len(m.result.Roses)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderGridFooter() string {
	pages := fmt.Sprintf("page %d/%d · %d roses",
		m.result.Page, max(m.result.TotalPages, 1), m.result.Count)
	keys := "←/→ page · / search · o sort · f group · enter open · x delete · r reload · T theme · L logout · q quit"
	return m.styles.Muted.Render(pages + "\n" + keys)
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
