// ABOUTME: Rooms command for the affordaily CLI
// ABOUTME: Lists occupancy, available rooms, and nightly rates

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

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Show room occupancy, availability, and rates",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runRooms(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)
}

// runRooms fetches room data and returns exit code
func runRooms(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	occ, err := svc.Occupancy(ctx)
	if err != nil {
		return roomsError(w, err)
	}
	rooms, err := svc.AvailableRooms(ctx)
	if err != nil {
		return roomsError(w, err)
	}
	rates, err := svc.Rates(ctx)
	if err != nil {
		return roomsError(w, err)
	}

	if IsJSONOutput() {
		out := map[string]any{
			"occupancy": occ,
			"available": rooms,
			"rates":     rates,
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Rooms: %d total, %d available, %d occupied, %d maintenance\n",
		occ.TotalRooms, occ.AvailableRooms, occ.OccupiedRooms, occ.MaintenanceRooms)
	fmt.Fprintf(w, "Rates: bed space A %.2f/night, bed space B %.2f/night\n\n", rates.BedSpaceA, rates.BedSpaceB)
	if len(rooms) == 0 {
		fmt.Fprintln(w, "No rooms available.")
		return 0
	}
	fmt.Fprintln(w, "Available:")
	for _, r := range rooms {
		fmt.Fprintf(w, "  %-8s bed %-3s %s\n", r.RoomNumber, r.BedSpace, r.Type)
	}
	return 0
}

func roomsError(w io.Writer, err error) int {
	if errors.Is(err, client.ErrUnauthorized) {
		fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
		return 1
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}
