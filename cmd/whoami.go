// ABOUTME: Whoami command for the affordaily CLI
// ABOUTME: Shows the operator profile behind the stored token

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

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in operator",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runWhoami(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami fetches the profile and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
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

	user, err := svc.Profile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(w, "Session expired. Run 'affordaily login' again.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	}
	return 0
}
