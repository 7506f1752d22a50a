// ABOUTME: Main menu for the TUI front desk
// ABOUTME: Simple keyboard-driven action list routing to screens

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adokuru/affordaily-cli/internal/tui/styles"
)

// Action is the operation chosen from the menu.
type Action int

const (
	ActionDashboard Action = iota
	ActionCheckIn
	ActionCheckOut
	ActionRooms
	ActionLogout
	ActionQuit
)

// SelectedMsg is sent when the operator picks an action.
type SelectedMsg struct {
	Action Action
}

var items = []struct {
	label  string
	action Action
}{
	{"Dashboard", ActionDashboard},
	{"Check In", ActionCheckIn},
	{"Check Out", ActionCheckOut},
	{"Rooms", ActionRooms},
	{"Log Out", ActionLogout},
	{"Quit", ActionQuit},
}

// Menu is the keyboard-driven action list.
type Menu struct {
	cursor int
}

// New creates the menu with the cursor on the dashboard.
func New() *Menu {
	return &Menu{}
}

// Update handles cursor movement and selection.
func (m *Menu) Update(msg tea.Msg) (*Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		action := items[m.cursor].action
		return m, func() tea.Msg { return SelectedMsg{Action: action} }
	}
	return m, nil
}

// View renders the list.
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Front Desk"))
	sb.WriteString("\n")
	for i, item := range items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(styles.Text)
		if i == m.cursor {
			cursor = styles.KeyStyle.Render("> ")
			style = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		}
		sb.WriteString(fmt.Sprintf("%s%s\n", cursor, style.Render(item.label)))
	}
	sb.WriteString(styles.Help.Render("↑/↓ move · enter select · ctrl+c quit"))
	return sb.String()
}
