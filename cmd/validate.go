package cmd

import (
	"context"
	"fmt"

	"esg-matching/core/reconcile"
	"esg-matching/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// validateSchema also checks the tables of each policy in the database.
var validateSchema bool

// validateCmd checks a settings document.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a settings document",
	Long: `Load a settings document, validate every datasource and policy, and bind
each policy to each of its targets, resolving every rule alias. Nothing is
executed.

With --schema the tables of every policy are also compared with the columns
their aliases and mappings need.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSchema, "schema", false, "Check the database tables of every policy")
	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	var errs error
	out := cmd.OutOrStdout()
	for _, name := range rt.settings.PolicyNames() {
		targets, err := rt.settings.Targets(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		p, _ := rt.settings.Policy(name)
		for _, t := range targets {
			b, err := rt.settings.Bind(name, t)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			var bindErr error
			for _, typ := range p.Types() {
				if err := reconcile.CheckResolvable(b, typ); err != nil {
					bindErr = multierr.Append(bindErr, fmt.Errorf("policy %s: target %s: %w", name, t, err))
				}
			}
			if bindErr != nil {
				errs = multierr.Append(errs, bindErr)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\t%v\n", name, t, p.Types())
		}
	}
	if errs != nil || !validateSchema {
		return errs
	}

	store, err := rt.connect()
	if err != nil {
		return err
	}
	reports, err := integrity.NewService(store, rt.settings, rt.logger).CheckAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range reports {
		for _, tr := range r.Tables {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.Policy, tr.Datasource, tr.Table, tr.Status)
			if !tr.OK() {
				errs = multierr.Append(errs, fmt.Errorf("policy %s: table %s: %s %v", r.Policy, tr.Table, tr.Status, tr.Missing))
			}
		}
	}
	return errs
}
