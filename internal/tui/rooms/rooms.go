// ABOUTME: Rooms screen showing occupancy counters and free rooms
// ABOUTME: Occupancy polls through a subscription; the list refreshes on 'r'

package rooms

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

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

// occMsg delivers an occupancy snapshot from the subscription.
type occMsg struct {
	result query.Result
}

// loadedMsg carries the free rooms list and rates in one message.
type loadedMsg struct {
	rooms []client.Room
	rates *client.RoomRates
	err   error
}

// Rooms shows occupancy counts, nightly rates, and the free rooms list.
// The occupancy counters refresh in the background while the screen is
// mounted; Close must be called when leaving so the poll stops.
type Rooms struct {
	svc    *data.Service
	occSub *query.Subscription

	occupancy *client.RoomOccupancy
	rates     *client.RoomRates
	loading   bool
	err       error

	spin  spinner.Model
	table table.Model
}

// New creates the rooms screen and opens its occupancy subscription.
func New(svc *data.Service) *Rooms {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	cols := []table.Column{
		{Title: "Room", Width: 8},
		{Title: "Bed", Width: 5},
		{Title: "Type", Width: 12},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(10),
		table.WithFocused(true),
	)

	return &Rooms{
		svc:     svc,
		occSub:  svc.WatchOccupancy(),
		loading: true,
		spin:    sp,
		table:   t,
	}
}

// Init implements tea.Model
func (r *Rooms) Init() tea.Cmd {
	return tea.Batch(r.spin.Tick, waitOcc(r.occSub), r.load())
}

func waitOcc(sub *query.Subscription) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-sub.Updates()
		if !ok {
			return nil
		}
		return occMsg{result: res}
	}
}

// Close detaches the occupancy subscription, stopping the poll.
func (r *Rooms) Close() {
	r.occSub.Close()
}

func (r *Rooms) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var msg loadedMsg
		msg.rooms, msg.err = r.svc.AvailableRooms(ctx)
		if msg.err != nil {
			return msg
		}
		msg.rates, msg.err = r.svc.Rates(ctx)
		return msg
	}
}

func (r *Rooms) refresh() tea.Cmd {
	// Mark everything under "rooms" stale so load hits the network and
	// the subscription refetches the counters.
	r.svc.Invalidate(query.K("rooms"))
	r.loading = true
	return tea.Batch(r.spin.Tick, r.load())
}

// Update implements tea.Model
func (r *Rooms) Update(msg tea.Msg) (*Rooms, tea.Cmd) {
	switch msg := msg.(type) {
	case occMsg:
		if occ, ok := msg.result.Data.(*client.RoomOccupancy); ok && occ != nil {
			r.occupancy = occ
		}
		if msg.result.Err != nil && r.err == nil {
			r.err = msg.result.Err
		}
		return r, waitOcc(r.occSub)

	case loadedMsg:
		r.loading = false
		r.err = msg.err
		if msg.err == nil {
			r.rates = msg.rates
			rows := make([]table.Row, 0, len(msg.rooms))
			for _, room := range msg.rooms {
				rows = append(rows, table.Row{room.RoomNumber, room.BedSpace, room.Type})
			}
			r.table.SetRows(rows)
		}
		return r, nil

	case spinner.TickMsg:
		if !r.loading {
			return r, nil
		}
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		if msg.String() == "r" && !r.loading {
			return r, r.refresh()
		}
	}

	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

// View implements tea.Model
func (r *Rooms) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Room.String() + " Rooms"))
	sb.WriteString("\n")

	switch {
	case r.loading && r.occupancy == nil:
		sb.WriteString(r.spin.View() + " Loading rooms...")
	case r.err != nil && r.occupancy == nil:
		sb.WriteString(styles.ErrorBanner.Render("Failed to load rooms: " + r.err.Error()))
	default:
		sb.WriteString(r.renderCounters())
		sb.WriteString("\n\n")
		sb.WriteString(styles.Subtitle.Render("Available rooms"))
		sb.WriteString("\n")
		sb.WriteString(r.table.View())
	}

	sb.WriteString(styles.Help.Render("r refresh · esc back"))
	return sb.String()
}

func (r *Rooms) renderCounters() string {
	occ := r.occupancy
	if occ == nil {
		return r.spin.View() + " Loading occupancy..."
	}
	line := fmt.Sprintf("%s Total: %s   Free: %s   Occupied: %s   Maintenance: %s",
		icons.Bed,
		styles.ValueStyle.Render(strconv.Itoa(occ.TotalRooms)),
		styles.StatusOK.Render(strconv.Itoa(occ.AvailableRooms)),
		styles.StatusWarning.Render(strconv.Itoa(occ.OccupiedRooms)),
		styles.StatusCritical.Render(strconv.Itoa(occ.MaintenanceRooms)),
	)
	if r.rates != nil {
		line += fmt.Sprintf("\n%s Nightly rates: A %s · B %s",
			icons.Money,
			styles.ValueStyle.Render(fmt.Sprintf("%.2f", r.rates.BedSpaceA)),
			styles.ValueStyle.Render(fmt.Sprintf("%.2f", r.rates.BedSpaceB)),
		)
	}
	return line
}
