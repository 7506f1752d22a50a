// ABOUTME: Check-in command for the affordaily CLI
// ABOUTME: Runs the interactive wizard, or creates a booking from flags

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/adokuru/affordaily-cli/internal/checkin"
	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/tui/wizard"
)

var (
	checkinPhone     string
	checkinName      string
	checkinNights    int
	checkinBedType   string
	checkinPayment   string
	checkinPayer     string
	checkinReference string
	checkinIDPhoto   string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Check a guest in",
	Long: `Check a guest in. With no flags an interactive wizard walks through
phone lookup, guest details, and payment. With --phone and --name the
booking is created directly, for scripted use.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runCheckin(ctx, os.Stdout))
	},
}

func init() {
	checkinCmd.Flags().StringVar(&checkinPhone, "phone", "", "Guest phone (11 digits)")
	checkinCmd.Flags().StringVar(&checkinName, "name", "", "Guest full name")
	checkinCmd.Flags().IntVar(&checkinNights, "nights", 1, "Number of nights")
	checkinCmd.Flags().StringVar(&checkinBedType, "bed", "A", "Preferred bed space type (A or B)")
	checkinCmd.Flags().StringVar(&checkinPayment, "payment", client.PaymentCash, "Payment method (cash or transfer)")
	checkinCmd.Flags().StringVar(&checkinPayer, "payer", "", "Payer name (defaults to guest name)")
	checkinCmd.Flags().StringVar(&checkinReference, "reference", "", "Transfer reference (required for transfer)")
	checkinCmd.Flags().StringVar(&checkinIDPhoto, "id-photo", "", "Path to an ID photo to upload")
	rootCmd.AddCommand(checkinCmd)
}

// runCheckin dispatches to the wizard or the flag-driven path
func runCheckin(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	if !svc.API().IsAuthenticated() {
		fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
		return 1
	}

	if checkinPhone == "" && checkinName == "" {
		return runCheckinWizard(svc, w)
	}
	return runCheckinFlags(ctx, svc, w)
}

// runCheckinFlags creates a booking directly from the flag values.
func runCheckinFlags(ctx context.Context, svc *data.Service, w io.Writer) int {
	form := checkin.New()
	form.Phone = checkinPhone
	form.GuestName = checkinName
	form.Nights = fmt.Sprintf("%d", checkinNights)
	form.BedType = checkinBedType
	form.Payment = checkinPayment
	form.PayerName = checkinPayer
	form.Reference = checkinReference
	form.IDPhotoPath = checkinIDPhoto

	input, err := form.Payload()
	if err != nil {
		fmt.Fprintf(w, "Invalid input: %v\n", err)
		return 1
	}

	booking, err := svc.CheckIn(ctx, input)
	if err != nil {
		fmt.Fprintf(w, "Check-in failed: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(booking, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Checked in %s: room %s bed %s, ref %s, total %.2f\n",
			booking.GuestName, booking.RoomNumber, booking.BedSpace,
			booking.BookingReference, booking.TotalAmount)
	}
	return 0
}

// wizardRunner hosts the wizard as a standalone program that exits
// after the first completed booking.
type wizardRunner struct {
	wizard  *wizard.Wizard
	booking *client.Booking
}

func (m *wizardRunner) Init() tea.Cmd {
	return m.wizard.Init()
}

func (m *wizardRunner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.wizard.SetWidth(msg.Width)
		return m, nil
	case wizard.CompleteMsg:
		m.booking = msg.Booking
		return m, tea.Quit
	case wizard.CancelledMsg:
		return m, tea.Quit
	}
	model, cmd := m.wizard.Update(msg)
	if wz, ok := model.(*wizard.Wizard); ok {
		m.wizard = wz
	}
	return m, cmd
}

func (m *wizardRunner) View() string {
	return m.wizard.View()
}

// runCheckinWizard runs the interactive wizard and reports the result.
func runCheckinWizard(svc *data.Service, w io.Writer) int {
	runner := &wizardRunner{wizard: wizard.New(svc)}
	final, err := tea.NewProgram(runner, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	m, ok := final.(*wizardRunner)
	if !ok || m.booking == nil {
		fmt.Fprintln(w, "Check-in cancelled.")
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(m.booking, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Checked in %s: room %s bed %s, ref %s, total %.2f\n",
			m.booking.GuestName, m.booking.RoomNumber, m.booking.BedSpace,
			m.booking.BookingReference, m.booking.TotalAmount)
	}
	return 0
}
