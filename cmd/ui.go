// ABOUTME: UI command for the affordaily CLI
// ABOUTME: Launches the full-screen front desk terminal UI

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adokuru/affordaily-cli/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive front desk",
	Long: `Launch the full-screen terminal UI with the dashboard, check-in
wizard, checkout, and room views. Queries refresh in the background
while their screen is open.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitOn(runUI())
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

// runUI starts the TUI and returns exit code
func runUI() int {
	svc, closeCache, err := newService(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer closeCache()

	if err := tui.Run(svc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
