// ABOUTME: Root bubbletea model for the front desk TUI
// ABOUTME: Routes between login, menu, dashboard, check-in, check-out, and rooms

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/tui/checkout"
	"github.com/adokuru/affordaily-cli/internal/tui/dashboard"
	"github.com/adokuru/affordaily-cli/internal/tui/icons"
	"github.com/adokuru/affordaily-cli/internal/tui/login"
	"github.com/adokuru/affordaily-cli/internal/tui/menu"
	"github.com/adokuru/affordaily-cli/internal/tui/rooms"
	"github.com/adokuru/affordaily-cli/internal/tui/styles"
	"github.com/adokuru/affordaily-cli/internal/tui/wizard"
)

type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenDashboard
	screenWizard
	screenCheckout
	screenRooms
)

// App is the root model. Exactly one child screen is active at a time;
// screens that hold cache subscriptions are closed when left.
type App struct {
	svc *data.Service

	screen    screen
	login     *login.Login
	menu      *menu.Menu
	dashboard *dashboard.Dashboard
	wizard    *wizard.Wizard
	checkout  *checkout.Checkout
	rooms     *rooms.Rooms

	user   *client.User
	status string
	width  int
	height int
}

// NewApp creates the root model. A persisted token skips the login
// screen; the first authenticated request will bounce back here if the
// token turned out to be stale.
func NewApp(svc *data.Service) *App {
	a := &App{svc: svc, menu: menu.New()}
	if svc.API().IsAuthenticated() {
		a.screen = screenMenu
	} else {
		a.screen = screenLogin
		a.login = login.New(svc)
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == screenLogin {
		return a.login.Init()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(msg.Width, msg.Height)
		}
		if a.wizard != nil {
			a.wizard.SetWidth(msg.Width)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeScreens()
			return a, tea.Quit
		}

	case login.DoneMsg:
		a.user = msg.User
		a.login = nil
		a.status = fmt.Sprintf("Signed in as %s", msg.User.Name)
		return a.toMenu()

	case menu.SelectedMsg:
		return a.route(msg.Action)

	case wizard.CompleteMsg:
		// The wizard resets itself for the next guest; just surface
		// the reference in the footer.
		a.status = fmt.Sprintf("Checked in %s (ref %s)", msg.Booking.GuestName, msg.Booking.BookingReference)
		return a, nil

	case wizard.CancelledMsg:
		a.wizard = nil
		return a.toMenu()

	case checkout.DoneMsg:
		a.checkout = nil
		a.status = fmt.Sprintf("Checked out %s from room %s", msg.Booking.GuestName, msg.Booking.RoomNumber)
		return a.toMenu()

	case checkout.CancelledMsg:
		a.checkout = nil
		return a.toMenu()
	}

	return a.updateScreen(msg)
}

func (a *App) route(action menu.Action) (tea.Model, tea.Cmd) {
	a.status = ""
	switch action {
	case menu.ActionDashboard:
		a.screen = screenDashboard
		a.dashboard = dashboard.New(a.svc)
		if a.width > 0 {
			a.dashboard.SetSize(a.width, a.height)
		}
		return a, a.dashboard.Init()
	case menu.ActionCheckIn:
		a.screen = screenWizard
		a.wizard = wizard.New(a.svc)
		if a.width > 0 {
			a.wizard.SetWidth(a.width)
		}
		return a, a.wizard.Init()
	case menu.ActionCheckOut:
		a.screen = screenCheckout
		a.checkout = checkout.New(a.svc)
		return a, a.checkout.Init()
	case menu.ActionRooms:
		a.screen = screenRooms
		a.rooms = rooms.New(a.svc)
		return a, a.rooms.Init()
	case menu.ActionLogout:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a.svc.Logout(ctx)
		cancel()
		a.user = nil
		a.status = ""
		a.screen = screenLogin
		a.login = login.New(a.svc)
		return a, a.login.Init()
	case menu.ActionQuit:
		a.closeScreens()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case screenLogin:
		model, cmd := a.login.Update(msg)
		if l, ok := model.(*login.Login); ok {
			a.login = l
		}
		return a, cmd

	case screenMenu:
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd

	case screenDashboard:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.dashboard.Close()
			a.dashboard = nil
			return a.toMenu()
		}
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case screenWizard:
		model, cmd := a.wizard.Update(msg)
		if w, ok := model.(*wizard.Wizard); ok {
			a.wizard = w
		}
		return a, cmd

	case screenCheckout:
		var cmd tea.Cmd
		a.checkout, cmd = a.checkout.Update(msg)
		return a, cmd

	case screenRooms:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.rooms.Close()
			a.rooms = nil
			return a.toMenu()
		}
		var cmd tea.Cmd
		a.rooms, cmd = a.rooms.Update(msg)
		return a, cmd
	}
	return a, nil
}

// toMenu returns to the menu, or to login when a 401 dropped the token
// while another screen was up.
func (a *App) toMenu() (tea.Model, tea.Cmd) {
	if !a.svc.API().IsAuthenticated() {
		a.screen = screenLogin
		a.login = login.New(a.svc)
		return a, a.login.Init()
	}
	a.screen = screenMenu
	return a, nil
}

// closeScreens releases any live cache subscriptions before quitting.
func (a *App) closeScreens() {
	if a.dashboard != nil {
		a.dashboard.Close()
		a.dashboard = nil
	}
	if a.rooms != nil {
		a.rooms.Close()
		a.rooms = nil
	}
}

// View implements tea.Model
func (a *App) View() string {
	var sb strings.Builder
	sb.WriteString(a.header())
	sb.WriteString("\n\n")

	switch a.screen {
	case screenLogin:
		sb.WriteString(a.login.View())
	case screenMenu:
		sb.WriteString(a.menu.View())
	case screenDashboard:
		sb.WriteString(a.dashboard.View())
	case screenWizard:
		sb.WriteString(a.wizard.View())
	case screenCheckout:
		sb.WriteString(a.checkout.View())
	case screenRooms:
		sb.WriteString(a.rooms.View())
	}

	if a.status != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " " + a.status))
	}
	return sb.String()
}

func (a *App) header() string {
	title := icons.App.String() + " Affordaily"
	if a.user != nil {
		title += styles.Subtitle.Render("  ·  " + a.user.Name)
	}
	return styles.Title.Render(title)
}

// Run starts the TUI program and blocks until it exits.
func Run(svc *data.Service) error {
	p := tea.NewProgram(NewApp(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
