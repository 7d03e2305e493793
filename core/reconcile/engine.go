package reconcile

import (
	"context"
	"fmt"

	"esg-matching/core/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes a matcher run.
type Options struct {
	// RunID is written to the run_id column. A random id is used when empty.
	RunID string
	// DryRun plans and renders the statements without executing them.
	DryRun bool
	Logger *zap.Logger
}

// Matcher runs every rule of one matching type for the target of a binding.
type Matcher struct {
	ruleType RuleType
	binding  Binding
	store    Store
	opts     Options
	logger   *zap.Logger
}

// NewMatcher returns a matcher of type t. Nothing is checked until the matcher
// is planned.
func NewMatcher(t RuleType, binding Binding, store Store, opts Options) *Matcher {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Matcher{ruleType: t, binding: binding, store: store, opts: opts, logger: l}
}

// RunID returns the id the matcher labels its matches with.
func (m *Matcher) RunID() string {
	return m.opts.RunID
}

// ExecuteMatching plans every rule then applies them in one transaction.
// Configuration errors are returned before any statement runs.
func (m *Matcher) ExecuteMatching(ctx context.Context) (Summary, error) {
	plan, err := m.Plan(ctx)
	if err != nil {
		return Summary{}, err
	}
	return m.Apply(ctx, plan)
}

// Apply runs a plan. Each rule inserts its matches then deletes the matched
// residual rows; all rules share one transaction.
func (m *Matcher) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	sum := Summary{
		Type:   plan.Strategy.Type,
		Target: plan.Target,
		RunID:  plan.RunID,
		Rules:  make([]RuleSummary, 0, len(plan.Rules)),
		DryRun: m.opts.DryRun,
	}

	if m.opts.DryRun {
		for _, rp := range plan.Rules {
			for _, stmt := range []query.Statement{rp.Insert, rp.Delete} {
				sql, _, err := query.Render(stmt, m.store.Dialect())
				if err != nil {
					return Summary{}, fmt.Errorf("rule %s: %w", rp.Rule, err)
				}
				sum.Statements = append(sum.Statements, sql)
			}
			sum.Rules = append(sum.Rules, RuleSummary{Rule: rp.Rule})
		}
		m.logger.Info("Matching planned (dry run)",
			zap.String("type", string(sum.Type)),
			zap.String("target", sum.Target),
			zap.Int("rules", len(sum.Rules)),
		)
		return sum, nil
	}

	err := m.store.Transaction(ctx, func(tx Executor) error {
		for _, rp := range plan.Rules {
			inserted, err := tx.Exec(ctx, rp.Insert)
			if err != nil {
				return fmt.Errorf("rule %s: insert matches: %w", rp.Rule, err)
			}
			deleted, err := tx.Exec(ctx, rp.Delete)
			if err != nil {
				return fmt.Errorf("rule %s: delete residuals: %w", rp.Rule, err)
			}
			sum.Rules = append(sum.Rules, RuleSummary{Rule: rp.Rule, Inserted: inserted, Deleted: deleted})
			sum.Inserted += inserted
			sum.Deleted += deleted

			m.logger.Debug("Matching rule applied",
				zap.String("type", string(sum.Type)),
				zap.String("target", sum.Target),
				zap.String("rule", rp.Rule),
				zap.Int64("inserted", inserted),
				zap.Int64("deleted", deleted),
			)
		}
		return nil
	})
	if err != nil {
		m.logger.Error("Matching failed",
			zap.String("type", string(sum.Type)),
			zap.String("target", sum.Target),
			zap.Error(err),
		)
		return Summary{}, fmt.Errorf("%s matching of %s: %w", sum.Type, sum.Target, err)
	}

	m.logger.Info("Matching completed",
		zap.String("type", string(sum.Type)),
		zap.String("target", sum.Target),
		zap.String("run_id", sum.RunID),
		zap.Int64("inserted", sum.Inserted),
		zap.Int64("deleted", sum.Deleted),
	)
	return sum, nil
}
