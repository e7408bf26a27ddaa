// ABOUTME: Root command for the xpg-admin CLI
// ABOUTME: Handles global flags, configuration loading and exit codes

package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/config"
	"github.com/kimguny/xpg-admin/internal/validate"
)

var (
	apiOrigin  string
	jsonOutput bool
	configFile string
	timeout    time.Duration
	ephemeral  bool
)

// Exit codes shared by every command
const (
	exitOK             = 0
	exitUsage          = 1
	exitFailure        = 2
	exitSessionInvalid = 3
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "xpg-admin",
	Short: "Admin console for the X-Play.G back-office",
	Long: `xpg-admin manages X-Play.G contents, stages, NFC tags, notifications,
stores, rewards and players from the terminal.

Run "xpg-admin console" for the interactive console or use the resource
commands for scripting.

Exit codes:
  0 - Success
  1 - Invalid input
  2 - Backend or other failure
  3 - Not signed in or session expired

Environment Variables:
  XPG_API_ORIGIN   Backend origin (default: http://localhost:8080)
  XPG_TIMEOUT      Request timeout (default: 30s)
  XPG_CONFIG_DIR   Directory for config.toml, the stored credential and logs
  XPG_LOG_LEVEL    debug, info, warn or error
  XPG_LOG_FORMAT   text or json`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiOrigin, "api-origin", "", "Backend origin (overrides XPG_API_ORIGIN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (overrides XPG_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the credential in memory only")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig resolves configuration with the global flags applied last
func loadConfig() (*config.Config, error) {
	return config.Load(config.Options{
		File:      configFile,
		APIOrigin: apiOrigin,
		Timeout:   timeout,
	})
}

// report prints err and maps it to an exit code. Failures already reported
// by the forced logout flow print nothing more.
func report(w io.Writer, err error) int {
	var ve *validate.ValidationError
	switch {
	case err == nil:
		return exitOK
	case client.IsSuppressed(err):
		return exitSessionInvalid
	case errors.Is(err, client.ErrSessionInvalid), errors.Is(err, errNotSignedIn):
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSessionInvalid
	case errors.As(err, &ve), errors.Is(err, errUsage):
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailure
	}
}
