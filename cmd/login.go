// ABOUTME: Login command for the affordaily CLI
// ABOUTME: Authenticates against the backend and persists the bearer token

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Authenticate against the Affordaily backend and persist the bearer
token for subsequent commands. Prompts for credentials not given as flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOn(runLogin(ctx, os.Stdout))
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Operator email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Operator password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// runLogin executes the login and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	svc, closeCache, err := newService(false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		if err := promptCredentials(&email, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}

	user, err := svc.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "Login failed: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Signed in as %s (%s)\n", user.Name, user.Email)
	}
	return 0
}

// promptCredentials fills in whichever of email/password were not
// provided as flags.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
