// ABOUTME: Stats command for the affordaily CLI
// ABOUTME: Prints the dashboard counters for scripts and cron checks

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

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show occupancy and revenue counters",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runStats(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats fetches dashboard stats and returns exit code
func runStats(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	stats, err := svc.Stats(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatStatsHuman(stats))
	}
	return 0
}

// formatStatsHuman formats the counters for human readability
func formatStatsHuman(s *client.DashboardStats) string {
	return fmt.Sprintf(`Rooms:             %d total, %d occupied, %d available
Pending Checkouts: %d
Guests:            %d (%d visitors)
Revenue Today:     %.2f
Revenue Month:     %.2f`,
		s.TotalRooms, s.OccupiedRooms, s.AvailableRooms,
		s.PendingCheckouts,
		s.TotalGuests, s.TotalVisitors,
		s.TodayRevenue, s.MonthlyRevenue)
}
