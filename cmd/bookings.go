// ABOUTME: Bookings command for the affordaily CLI
// ABOUTME: Lists bookings, optionally filtered to active stays

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adokuru/affordaily-cli/internal/client"
)

var bookingsActive bool

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List bookings",
	Long:  `List all bookings, or only the currently checked-in stays with --active.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runBookings(ctx, os.Stdout))
	},
}

func init() {
	bookingsCmd.Flags().BoolVar(&bookingsActive, "active", false, "Only currently checked-in bookings")
	rootCmd.AddCommand(bookingsCmd)
}

// runBookings fetches the booking list and returns exit code
func runBookings(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	var bookings []client.Booking
	if bookingsActive {
		bookings, err = svc.ActiveBookings(ctx)
	} else {
		bookings, err = svc.Bookings(ctx)
	}
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(bookings, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(bookings) == 0 {
		fmt.Fprintln(w, "No bookings.")
		return 0
	}
	fmt.Fprintf(w, "%-5s %-12s %-8s %-22s %-7s %-10s %s\n",
		"ID", "REFERENCE", "ROOM", "GUEST", "NIGHTS", "TOTAL", "STATUS")
	for _, b := range bookings {
		fmt.Fprintf(w, "%-5d %-12s %-8s %-22s %-7d %-10.2f %s\n",
			b.ID, b.BookingReference, b.RoomNumber, b.GuestName,
			b.NumberOfNights, b.TotalAmount, b.Status)
	}
	return 0
}
