package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"esg-matching/feature/matching"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the match command
	matchPolicy  string
	matchTargets []string
	matchTypes   []string
	matchDryRun  bool
)

// matchCmd runs a matching policy once.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run a matching policy",
	Long: `Run a matching policy against the configured database.

The result tables are prepared, the residual set of each target is seeded,
then the full, residual and indirect matchers run in that order.

Examples:
  # Run every matching type of the esg policy
  esg-matching match --settings settings.yaml --policy esg

  # Only the full matching of one target
  esg-matching match --policy esg --target portfolio --type full

  # Print the statements without running them
  esg-matching match --policy esg --dry-run`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchPolicy, "policy", "", "Policy to run; defaults to MATCHING_POLICY")
	matchCmd.Flags().StringSliceVar(&matchTargets, "target", nil, "Restrict the run to these targets")
	matchCmd.Flags().StringSliceVar(&matchTypes, "type", nil, "Restrict the run to these matching types (full, residual, indirect)")
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "Render the statements without executing them")

	RootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	store, err := rt.connect()
	if err != nil {
		return err
	}

	svc := matching.NewService(store, rt.settings, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Matching, rt.logger)
	report, err := svc.Run(ctx, matching.RunRequest{
		Policy:  matchPolicy,
		Targets: matchTargets,
		Types:   matchTypes,
		DryRun:  matchDryRun,
	})
	if err != nil {
		return err
	}

	rt.logger.Info("Matching finished", zap.String("run_id", report.RunID), zap.Int64("matched", report.Matched))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
