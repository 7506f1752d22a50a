// ABOUTME: Dashboard screen fed by query cache subscriptions
// ABOUTME: Shows aggregate stats and the active bookings table with live refresh

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/query"
	"github.com/adokuru/affordaily-cli/internal/tui/icons"
	"github.com/adokuru/affordaily-cli/internal/tui/styles"
)

// statsMsg delivers a stats snapshot from the subscription.
type statsMsg struct {
	result query.Result
}

// activeMsg delivers an active bookings snapshot.
type activeMsg struct {
	result query.Result
}

// Dashboard renders live statistics. Both queries refresh in the
// background while the screen is mounted; Close must be called when
// leaving so the interval timers stop.
type Dashboard struct {
	svc       *data.Service
	statsSub  *query.Subscription
	activeSub *query.Subscription

	stats   *client.DashboardStats
	err     error
	loading bool

	spin  spinner.Model
	table table.Model
	width int
}

// New creates the dashboard and opens its subscriptions.
func New(svc *data.Service) *Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	cols := []table.Column{
		{Title: "Room", Width: 6},
		{Title: "Bed", Width: 4},
		{Title: "Guest", Width: 24},
		{Title: "Nights", Width: 7},
		{Title: "Status", Width: 16},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(10),
		table.WithFocused(true),
	)

	return &Dashboard{
		svc:       svc,
		statsSub:  svc.WatchStats(),
		activeSub: svc.WatchActiveBookings(),
		loading:   true,
		spin:      sp,
		table:     t,
	}
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(
		d.spin.Tick,
		waitStats(d.statsSub),
		waitActive(d.activeSub),
	)
}

func waitStats(sub *query.Subscription) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-sub.Updates()
		if !ok {
			return nil
		}
		return statsMsg{result: r}
	}
}

func waitActive(sub *query.Subscription) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-sub.Updates()
		if !ok {
			return nil
		}
		return activeMsg{result: r}
	}
}

// Close detaches the subscriptions, stopping background refetch.
func (d *Dashboard) Close() {
	d.statsSub.Close()
	d.activeSub.Close()
}

// SetSize adjusts layout for the terminal dimensions.
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	if height > 14 {
		d.table.SetHeight(height - 14)
	}
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (*Dashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		d.applyStats(msg.result)
		return d, waitStats(d.statsSub)

	case activeMsg:
		d.applyActive(msg.result)
		return d, waitActive(d.activeSub)

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd
	}

	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return d, cmd
}

func (d *Dashboard) applyStats(r query.Result) {
	d.loading = r.IsLoading()
	d.err = r.Err
	if stats, ok := r.Data.(*client.DashboardStats); ok && stats != nil {
		d.stats = stats
	}
}

func (d *Dashboard) applyActive(r query.Result) {
	bookings, ok := r.Data.([]client.Booking)
	if !ok {
		return
	}
	rows := make([]table.Row, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, table.Row{
			b.RoomNumber,
			b.BedSpace,
			b.GuestName,
			strconv.Itoa(b.NumberOfNights),
			b.Status,
		})
	}
	d.table.SetRows(rows)
}

// View implements tea.Model
func (d *Dashboard) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.App.String() + " Dashboard"))
	sb.WriteString("\n")

	switch {
	case d.loading:
		sb.WriteString(d.spin.View() + " Loading stats...")
	case d.err != nil && d.stats == nil:
		sb.WriteString(styles.ErrorBanner.Render("Failed to load stats: " + d.err.Error()))
	case d.stats != nil:
		sb.WriteString(d.renderStats())
		if d.err != nil {
			// Stale data is still shown when a refresh fails.
			sb.WriteString("\n" + styles.StatusWarning.Render(icons.Warning.String()+" refresh failed, showing cached data"))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Active bookings"))
	sb.WriteString("\n")
	sb.WriteString(d.table.View())
	sb.WriteString(styles.Help.Render("esc back · ↑/↓ scroll"))
	return sb.String()
}

func (d *Dashboard) renderStats() string {
	s := d.stats
	line1 := fmt.Sprintf("%s Rooms: %s occupied / %s free of %s    %s Pending checkouts: %s",
		icons.Room,
		styles.ValueStyle.Render(strconv.Itoa(s.OccupiedRooms)),
		styles.ValueStyle.Render(strconv.Itoa(s.AvailableRooms)),
		styles.ValueStyle.Render(strconv.Itoa(s.TotalRooms)),
		icons.Key,
		styles.ValueStyle.Render(strconv.Itoa(s.PendingCheckouts)),
	)
	line2 := fmt.Sprintf("%s Guests: %s    Visitors: %s    %s Today: %s    Month: %s",
		icons.Guest,
		styles.ValueStyle.Render(strconv.Itoa(s.TotalGuests)),
		styles.ValueStyle.Render(strconv.Itoa(s.TotalVisitors)),
		icons.Money,
		styles.ValueStyle.Render(fmt.Sprintf("%.2f", s.TodayRevenue)),
		styles.ValueStyle.Render(fmt.Sprintf("%.2f", s.MonthlyRevenue)),
	)
	return line1 + "\n" + line2
}
