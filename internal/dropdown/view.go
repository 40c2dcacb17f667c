package dropdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	triggerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	triggerFocusedStyle = triggerStyle.BorderForeground(lipgloss.Color("63"))
	placeholderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	valueStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	caretStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	itemStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	itemActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	itemCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63"))
)

// View renders the trigger for the caller's current value.
func (m *Model) View(value string, focused bool) string {
	inner := m.innerWidth()
	label := valueStyle.Render(value)
	if value == "" {
		label = placeholderStyle.Render(m.placeholder)
	}
	caret := "▾"
	if m.open {
		caret = "▴"
	}
	gap := inner - lipgloss.Width(label) - 1
	if gap < 1 {
		gap = 1
	}
	content := label + strings.Repeat(" ", gap) + caretStyle.Render(caret)

	style := triggerStyle
	if focused {
		style = triggerFocusedStyle
	}
	return style.Width(m.width - 2).Render(content)
}

// MenuView renders the option list. It returns an empty string while closed.
func (m *Model) MenuView(value string) string {
	if !m.open {
		return ""
	}
	rows := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		marker := "  "
		if opt == value {
			marker = "✓ "
		}
		row := marker + opt
		switch {
		case i == m.cursor:
			row = itemCursorStyle.Width(m.innerWidth()).Render(row)
		case opt == value:
			row = itemActiveStyle.Render(row)
		default:
			row = itemStyle.Render(row)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, "")
	}
	return menuStyle.Width(m.width - 2).Render(strings.Join(rows, "\n"))
}

func (m *Model) innerWidth() int {
	// border (2) + horizontal padding (2)
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}
	return inner
}
