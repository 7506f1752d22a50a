// ABOUTME: Root command for the affordaily CLI
// ABOUTME: Handles global flags and builds the shared client and cache

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/config"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/logger"
	"github.com/adokuru/affordaily-cli/internal/query"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "affordaily",
	Short: "Front desk CLI for the Affordaily property management system",
	Long: `affordaily is a command-line front desk for the Affordaily backend.

It covers the daily operator flow: check guests in and out, extend stays,
and watch occupancy and revenue, either as one-shot commands for scripts
or as a full-screen terminal UI (affordaily ui).

Environment Variables:
  AFFORDAILY_API_URL     Backend API URL (default: http://affordaily-api.test/api/v1)
  AFFORDAILY_TOKEN_PATH  Bearer token file (default: ~/.config/affordaily/token.json)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides AFFORDAILY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newService builds the client, cache, and data service from config.
// refetchOn enables background interval refetches and should be true
// only for the long-running UI. The returned closer stops the cache.
func newService(refetchOn bool) (*data.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	api := client.New(cfg.APIURL, client.NewFileTokenStore(cfg.TokenPath))
	api.SetTimeout(cfg.RequestTimeout)

	cache := query.New(query.Config{
		StaleTime:       cfg.StaleTime,
		GCTime:          cfg.GCTime,
		Retries:         retryCount(cfg.ReadRetries),
		MutationRetries: retryCount(cfg.MutationRetries),
	})

	svc := data.New(api, cache, refetchOn && cfg.RefetchEnabled)
	return svc, cache.Close, nil
}

// retryCount translates a configured retry count to the cache's
// convention, where zero means "inherit the default" and a negative
// value disables retrying. An operator's explicit 0 must reach the
// cache as "no retries", not as the default.
func retryCount(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

// exitOn maps a non-zero code to process exit, matching script use.
func exitOn(code int) {
	if code != 0 {
		os.Exit(code)
	}
}
