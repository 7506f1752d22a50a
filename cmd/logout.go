// ABOUTME: Logout command for the affordaily CLI
// ABOUTME: Revokes the session and removes the persisted token

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Long: `Revoke the session on the backend and delete the persisted bearer
token. The local token is removed even when the backend call fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runLogout(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout executes the logout and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	if !svc.API().IsAuthenticated() {
		fmt.Fprintln(w, "Not signed in.")
		return 0
	}

	svc.Logout(ctx)
	fmt.Fprintln(w, "Signed out.")
	return 0
}
