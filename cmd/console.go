// ABOUTME: Console command that starts the interactive terminal UI
// ABOUTME: Logs go to a file in the config directory so the screen stays clean

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kimguny/xpg-admin/internal/app"
	"github.com/kimguny/xpg-admin/internal/tui"
	"github.com/kimguny/xpg-admin/internal/tui/debuglog"
	"github.com/kimguny/xpg-admin/internal/tui/recentids"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive admin console",
	Long: `Start the full-screen admin console.

Logs are written to debug.log in the config directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConsole(); err != nil {
			os.Exit(report(os.Stderr, err))
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logDir := cfg.ConfigDir
	if ephemeral {
		logDir = ""
	}
	log, closer, err := debuglog.Open(logDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer closer.Close()

	store := app.OpenStore(cfg, ephemeral)
	factory, err := app.NewFactory(cfg, store, log)
	if err != nil {
		return err
	}

	recent := recentids.New(cfg.ConfigDir)
	if _, err := recent.Load(); err != nil {
		log.Warn("could not load recent login IDs", "error", err)
	}

	log.Info("Console starting", "backend", cfg.APIOrigin, "environment", cfg.Environment)
	return tui.Run(factory, recent, log)
}
