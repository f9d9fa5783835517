package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rosarium/internal/catalog"
)

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			if m.rose != nil {
				return m, m.deleteCmd(m.rose.ID)
			}
			m.confirmDelete = false
			return m, nil
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	switch msg.String() {
	case "esc", "q":
		m.view = ViewGrid
		m.rose = nil
		// The grid entry is still fresh in the common case; resolving is
		// free then, and correct when the detail visit outlived the TTL.
		return m, m.resolveCmd(false)
	case "x":
		if m.rose != nil {
			m.confirmDelete = true
		}
		return m, nil
	case "T":
		m.cycleTheme()
		return m, nil
	}
	return m, nil
}

func (m Model) renderDetail() string {
	if m.rose == nil {
		return m.styles.Muted.Render("  Nothing selected.")
	}
	rose := m.rose

	var b strings.Builder
	title := rose.DisplayTitle()
	if rose.TitleEng != "" && rose.TitleEng != title {
		title += m.styles.Muted.Render("  (" + rose.TitleEng + ")")
	}
	b.WriteString("  " + m.styles.Title.Render(title) + "\n\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.styles.Muted.Render(label+":"), m.styles.Text.Render(value)))
	}

	writeField("group", rose.Group)
	writeField("breeder", rose.Breeder)
	if rose.ConstWidth > 0 || rose.ConstHeight > 0 {
		writeField("size", fmt.Sprintf("%.0f × %.0f cm", rose.ConstWidth, rose.ConstHeight))
	}
	writeField("planted", rose.LandingDate)
	writeField("susceptibility", rose.Susceptibility)
	b.WriteString("\n")

	if rose.Description != "" {
		b.WriteString("  " + m.styles.Text.Render(rose.Description) + "\n\n")
	}
	if rose.Observation != "" {
		b.WriteString("  " + m.styles.Muted.Render(rose.Observation) + "\n\n")
	}

	writeSection := func(label string, count int, latest string) {
		if count == 0 {
			return
		}
		line := fmt.Sprintf("%s (%d)", label, count)
		if latest != "" {
			line += m.styles.Muted.Render("  latest " + latest)
		}
		b.WriteString("  " + m.styles.Accent.Render(line) + "\n")
	}

	writeSection("measurements", len(rose.Sizes), latestSize(rose.Sizes))
	writeSection("feedings", len(rose.Feedings), "")
	writeSection("foliage notes", len(rose.Foliages), "")
	writeSection("pesticide treatments", len(rose.Pesticides), "")
	writeSection("fungicide treatments", len(rose.Fungicides), "")
	writeSection("photos", len(rose.Photos), "")
	writeSection("videos", len(rose.Videos), "")

	b.WriteString("\n")
	if m.confirmDelete {
		prompt := fmt.Sprintf("Delete %q? y to confirm, any other key to cancel", rose.DisplayTitle())
		b.WriteString("  " + m.styles.Warning.Render(prompt))
	} else {
		b.WriteString("  " + m.styles.Muted.Render("esc back · x delete · T theme"))
	}
	return b.String()
}

func latestSize(sizes []catalog.Size) string {
	if len(sizes) == 0 {
		return ""
	}
	last := sizes[len(sizes)-1]
	return fmt.Sprintf("%.0f × %.0f cm", last.Width, last.Height)
}
