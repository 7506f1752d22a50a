// ABOUTME: Extend command for the affordaily CLI
// ABOUTME: Adds nights to an active booking

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adokuru/affordaily-cli/internal/client"
)

var extendNights int

var extendCmd = &cobra.Command{
	Use:   "extend <booking-id>",
	Short: "Extend an active stay",
	Long:  `Add nights to the given booking. The backend recomputes the total.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runExtend(ctx, os.Stdout, args[0]))
	},
}

func init() {
	extendCmd.Flags().IntVar(&extendNights, "nights", 1, "Additional nights to add")
	rootCmd.AddCommand(extendCmd)
}

// runExtend executes the extension and returns exit code
func runExtend(ctx context.Context, w io.Writer, idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Invalid booking ID %q\n", idArg)
		return 1
	}
	if extendNights < 1 {
		fmt.Fprintln(w, "--nights must be at least 1")
		return 1
	}

	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	booking, err := svc.Extend(ctx, id, extendNights)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
			return 1
		}
		fmt.Fprintf(w, "Extend failed: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(booking, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Extended %s to %d nights, new total %.2f\n",
			booking.GuestName, booking.NumberOfNights, booking.TotalAmount)
	}
	return 0
}
