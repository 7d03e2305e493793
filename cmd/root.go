package cmd

import (
	"fmt"
	"os"

	"esg-matching/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X esg-matching/cmd.Version=...".
var Version = "dev"

// settingsSource overrides matching.settings for every command.
var settingsSource string

// RootCmd is the esg-matching command.
var RootCmd = &cobra.Command{
	Use:     "esg-matching",
	Short:   "Rule-based matching of target datasets against a referential",
	Version: Version,
	Long: `esg-matching reconciles target datasets against referential datasets.
Matching policies are declared in a settings document; results are written
to a matching table and a no-matching (residual) table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and exits non-zero on failure. Errors are
// reported through a console logger in development mode (readable timestamps).
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}
	if l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"}); logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&settingsSource, "settings", "", "Settings document (path or s3://bucket/key); defaults to MATCHING_SETTINGS")
}
