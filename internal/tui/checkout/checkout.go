// ABOUTME: Checkout screen for the TUI front desk
// ABOUTME: Pick an active booking, confirm key return and damage notes, finalize

package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/tui/icons"
	"github.com/adokuru/affordaily-cli/internal/tui/styles"
)

// DoneMsg is sent when a checkout completes.
type DoneMsg struct {
	Booking *client.Booking
}

// CancelledMsg is sent when the operator backs out.
type CancelledMsg struct{}

type phase int

const (
	phaseLoading phase = iota
	phasePick
	phaseForm
	phaseSubmitting
)

type bookingsMsg struct {
	bookings []client.Booking
	err      error
}

type submittedMsg struct {
	booking *client.Booking
	err     error
}

// Checkout walks the operator through finalizing a stay.
type Checkout struct {
	svc *data.Service

	phase    phase
	bookings []client.Booking
	selected *client.Booking

	damageNotes   string
	keyReturned   bool
	earlyCheckout bool

	form  *huh.Form
	spin  spinner.Model
	table table.Model
	err   error
}

// New creates the checkout screen.
func New(svc *data.Service) *Checkout {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Room", Width: 6},
		{Title: "Guest", Width: 22},
		{Title: "Phone", Width: 13},
		{Title: "Nights", Width: 7},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(10),
		table.WithFocused(true),
	)

	return &Checkout{svc: svc, phase: phaseLoading, spin: sp, table: t}
}

// Init implements tea.Model
func (c *Checkout) Init() tea.Cmd {
	return tea.Batch(c.spin.Tick, c.loadBookings())
}

func (c *Checkout) loadBookings() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		bookings, err := c.svc.ActiveBookings(ctx)
		return bookingsMsg{bookings: bookings, err: err}
	}
}

func (c *Checkout) checkoutForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Key returned?").
				Value(&c.keyReturned),
			huh.NewConfirm().
				Title("Early checkout?").
				Description("Check out before the booked nights are used").
				Value(&c.earlyCheckout),
			huh.NewText().
				Title("Damage notes").
				Description("Leave empty if the room is in order").
				Value(&c.damageNotes),
		).Title(fmt.Sprintf("Check out %s (room %s)", c.selected.GuestName, c.selected.RoomNumber)),
	)
}

func (c *Checkout) submit() tea.Cmd {
	id := c.selected.ID
	input := client.CheckoutInput{
		DamageNotes:   strings.TrimSpace(c.damageNotes),
		KeyReturned:   c.keyReturned,
		EarlyCheckout: c.earlyCheckout,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b, err := c.svc.Checkout(ctx, id, input)
		return submittedMsg{booking: b, err: err}
	}
}

// Update implements tea.Model
func (c *Checkout) Update(msg tea.Msg) (*Checkout, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingsMsg:
		if msg.err != nil {
			c.err = msg.err
			c.phase = phasePick
			return c, nil
		}
		c.bookings = msg.bookings
		c.phase = phasePick
		rows := make([]table.Row, 0, len(msg.bookings))
		for _, b := range msg.bookings {
			rows = append(rows, table.Row{
				strconv.Itoa(b.ID),
				b.RoomNumber,
				b.GuestName,
				b.GuestPhone,
				strconv.Itoa(b.NumberOfNights),
			})
		}
		c.table.SetRows(rows)
		return c, nil

	case submittedMsg:
		if msg.err != nil {
			// Stay on the form so the operator can retry or adjust.
			c.err = msg.err
			c.phase = phaseForm
			c.form = c.checkoutForm()
			return c, c.form.Init()
		}
		done := msg.booking
		return c, func() tea.Msg { return DoneMsg{Booking: done} }

	case spinner.TickMsg:
		if c.phase != phaseLoading && c.phase != phaseSubmitting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return c, cmd

	case tea.KeyMsg:
		return c.updateKey(msg)
	}

	return c.updateActive(msg)
}

func (c *Checkout) updateKey(msg tea.KeyMsg) (*Checkout, tea.Cmd) {
	switch msg.String() {
	case "esc":
		switch c.phase {
		case phaseForm:
			// Back to the booking list, keeping nothing.
			c.phase = phasePick
			c.form = nil
			c.selected = nil
			c.damageNotes, c.keyReturned, c.earlyCheckout = "", false, false
			return c, nil
		case phaseSubmitting:
			return c, nil
		default:
			return c, func() tea.Msg { return CancelledMsg{} }
		}
	case "enter":
		if c.phase == phasePick && len(c.bookings) > 0 {
			idx := c.table.Cursor()
			if idx >= 0 && idx < len(c.bookings) {
				c.selected = &c.bookings[idx]
				c.phase = phaseForm
				c.err = nil
				c.form = c.checkoutForm()
				return c, c.form.Init()
			}
		}
	}
	return c.updateActive(msg)
}

func (c *Checkout) updateActive(msg tea.Msg) (*Checkout, tea.Cmd) {
	switch c.phase {
	case phasePick:
		var cmd tea.Cmd
		c.table, cmd = c.table.Update(msg)
		return c, cmd
	case phaseForm:
		form, cmd := c.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			c.form = f
		}
		if c.form.State == huh.StateCompleted {
			c.phase = phaseSubmitting
			return c, tea.Batch(c.spin.Tick, c.submit())
		}
		return c, cmd
	}
	return c, nil
}

// View implements tea.Model
func (c *Checkout) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Key.String() + " Check-Out"))
	sb.WriteString("\n")
	if c.err != nil {
		sb.WriteString(styles.ErrorBanner.Render(c.err.Error()))
		sb.WriteString("\n\n")
	}

	switch c.phase {
	case phaseLoading:
		sb.WriteString(c.spin.View() + " Loading active bookings...")
	case phasePick:
		if len(c.bookings) == 0 {
			sb.WriteString(styles.Subtitle.Render("No active bookings to check out."))
		} else {
			sb.WriteString(c.table.View())
		}
		sb.WriteString(styles.Help.Render("enter select · esc back"))
	case phaseForm:
		sb.WriteString(c.form.View())
		sb.WriteString(styles.Help.Render("esc back to list"))
	case phaseSubmitting:
		sb.WriteString(c.spin.View() + " Checking out...")
	}
	return sb.String()
}
