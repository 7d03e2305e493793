package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"esg-matching/core/reconcile"
	"esg-matching/core/storage"
	"esg-matching/feature/settings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the storage a run needs: the matcher collaborator plus result
// table preparation.
type Store interface {
	reconcile.Store
	PrepareTable(ctx context.Context, d *reconcile.Descriptor, columns []string) error
}

// Service runs matching policies.
type Service struct {
	store    Store
	settings *settings.Settings
	client   storage.Client
	bucket   string
	cfg      Config
	logger   *zap.Logger

	// runs share the result tables
	mu sync.Mutex
}

// NewService creates a matching service. client may be nil, or bucket empty,
// to skip report uploads.
func NewService(store Store, s *settings.Settings, client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		settings: s,
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		logger:   logger,
	}
}

// Policies describes the loaded policies, sorted by name.
func (s *Service) Policies() ([]PolicyInfo, error) {
	var infos []PolicyInfo
	for _, name := range s.settings.PolicyNames() {
		p, err := s.settings.Policy(name)
		if err != nil {
			return nil, err
		}
		targets, err := s.settings.Targets(name)
		if err != nil {
			return nil, err
		}
		info := PolicyInfo{Name: p.Name, Referential: p.Referential, Targets: targets}
		for _, t := range p.Types() {
			info.Types = append(info.Types, string(t))
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Run prepares the result tables, then for each target seeds the no-matching
// table and runs the requested matching types in order. Every binding and type
// is checked before the first statement runs.
func (s *Service) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	policyName := req.Policy
	if policyName == "" {
		policyName = s.cfg.Policy
	}
	policy, err := s.settings.Policy(policyName)
	if err != nil {
		return nil, err
	}

	types, err := selectTypes(policy, req.Types)
	if err != nil {
		return nil, err
	}

	allTargets, err := s.settings.Targets(policyName)
	if err != nil {
		return nil, err
	}
	targets := req.Targets
	if len(targets) == 0 {
		targets = allTargets
	}
	bindings := make([]reconcile.Binding, 0, len(targets))
	for _, t := range targets {
		b, err := s.settings.Bind(policyName, t)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("policy %q has no target: %w", policyName, reconcile.ErrInvalidPolicy)
	}
	for _, b := range bindings {
		for _, t := range types {
			if err := reconcile.CheckResolvable(b, t); err != nil {
				return nil, fmt.Errorf("target %s: %w", b.Target.Name, err)
			}
		}
	}

	report := &RunReport{
		RunID:     uuid.NewString(),
		Policy:    policyName,
		DryRun:    req.DryRun,
		StartedAt: time.Now().UTC(),
	}
	l := s.logger.With(zap.String("policy", policyName), zap.String("run_id", report.RunID))
	l.Info("Matching run started", zap.Strings("targets", targets), zap.Bool("dry_run", req.DryRun))

	if !req.DryRun {
		if err := s.prepare(ctx, bindings[0], allTargets); err != nil {
			return nil, err
		}
	}

	for _, b := range bindings {
		tr := TargetReport{Target: b.Target.Name}
		if !req.DryRun {
			seeded, err := reconcile.Seed(ctx, s.store, b)
			if err != nil {
				return nil, fmt.Errorf("seed %s: %w", b.Target.Name, err)
			}
			tr.Seeded = seeded
		}
		for _, t := range types {
			m := reconcile.NewMatcher(t, b, s.store, reconcile.Options{
				RunID:  report.RunID,
				DryRun: req.DryRun,
				Logger: l,
			})
			sum, err := m.ExecuteMatching(ctx)
			if err != nil {
				return nil, err
			}
			tr.Summaries = append(tr.Summaries, sum)
			report.Matched += sum.Inserted
		}
		report.Targets = append(report.Targets, tr)
	}
	report.FinishedAt = time.Now().UTC()

	if !req.DryRun {
		s.upload(ctx, l, report)
	}

	l.Info("Matching run completed",
		zap.Int64("matched", report.Matched),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// prepare readies the result tables for every target of the policy, so one
// target's run never shapes the tables too narrowly for another.
func (s *Service) prepare(ctx context.Context, b reconcile.Binding, targets []string) error {
	descs := make([]*reconcile.Descriptor, 0, len(targets))
	for _, t := range targets {
		if d, ok := s.settings.Descriptors[t]; ok {
			descs = append(descs, d)
		}
	}
	if err := s.store.PrepareTable(ctx, b.Matching, reconcile.MatchingTableColumns(b.Referential, descs...)); err != nil {
		return fmt.Errorf("prepare %s: %w", b.Matching.Name, err)
	}
	if err := s.store.PrepareTable(ctx, b.NoMatching, reconcile.NoMatchingTableColumns(descs...)); err != nil {
		return fmt.Errorf("prepare %s: %w", b.NoMatching.Name, err)
	}
	return nil
}

// upload stores the report as JSON. A failed upload is logged; the run
// itself is already committed.
func (s *Service) upload(ctx context.Context, l *zap.Logger, report *RunReport) {
	if s.client == nil || s.bucket == "" {
		return
	}
	key := s.cfg.ReportPrefix + report.RunID + ".json"
	data, err := json.Marshal(report)
	if err != nil {
		l.Warn("Failed to encode run report", zap.Error(err))
		return
	}
	if err := storage.WriteObject(ctx, s.client, s.bucket, key, "application/json", data); err != nil {
		l.Warn("Failed to upload run report", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return
	}
	report.ReportURI = storage.URIScheme + s.bucket + "/" + key
}

// selectTypes returns the requested types in execution order, or every type of
// the policy when none is requested.
func selectTypes(p *reconcile.Policy, requested []string) ([]reconcile.RuleType, error) {
	if len(requested) == 0 {
		return p.Types(), nil
	}
	want := make(map[reconcile.RuleType]struct{}, len(requested))
	for _, r := range requested {
		t, err := reconcile.ParseRuleType(r)
		if err != nil {
			return nil, err
		}
		if !p.HasRuleType(t) {
			return nil, fmt.Errorf("policy %q: %s: %w", p.Name, t, reconcile.ErrRuleTypeNotInPolicy)
		}
		want[t] = struct{}{}
	}
	var types []reconcile.RuleType
	for _, t := range reconcile.RuleTypes() {
		if _, ok := want[t]; ok {
			types = append(types, t)
		}
	}
	return types, nil
}
