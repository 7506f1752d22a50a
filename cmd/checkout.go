// ABOUTME: Checkout command for the affordaily CLI
// ABOUTME: Finalizes a stay by booking ID with key and damage flags

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

var (
	checkoutDamage string
	checkoutNoKey  bool
	checkoutEarly  bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <booking-id>",
	Short: "Check a guest out",
	Long: `Finalize the stay for the given booking ID. The key is assumed
returned unless --no-key is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runCheckout(ctx, os.Stdout, args[0]))
	},
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutDamage, "damage", "", "Damage notes")
	checkoutCmd.Flags().BoolVar(&checkoutNoKey, "no-key", false, "Key was not returned")
	checkoutCmd.Flags().BoolVar(&checkoutEarly, "early", false, "Early checkout before booked nights are used")
	rootCmd.AddCommand(checkoutCmd)
}

// runCheckout executes the checkout and returns exit code
func runCheckout(ctx context.Context, w io.Writer, idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Invalid booking ID %q\n", idArg)
		return 1
	}

	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	booking, err := svc.Checkout(ctx, id, client.CheckoutInput{
		DamageNotes:   checkoutDamage,
		KeyReturned:   !checkoutNoKey,
		EarlyCheckout: checkoutEarly,
	})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(w, "Not signed in. Run 'affordaily login' first.")
			return 1
		}
		fmt.Fprintf(w, "Checkout failed: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(booking, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Checked out %s from room %s (status %s)\n",
			booking.GuestName, booking.RoomNumber, booking.Status)
	}
	return 0
}
