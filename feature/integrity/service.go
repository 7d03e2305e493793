package integrity

import (
	"context"
	"fmt"

	"esg-matching/core/reconcile"
	"esg-matching/feature/integrity/checks"
	"esg-matching/feature/settings"

	"go.uber.org/zap"
)

// PolicyReport is the schema state of every table a policy uses.
type PolicyReport struct {
	Policy string               `json:"policy"`
	OK     bool                 `json:"ok"`
	Tables []checks.TableReport `json:"tables"`
}

// Service checks the live schema against the loaded settings.
type Service struct {
	columns  checks.ColumnSource
	settings *settings.Settings
	logger   *zap.Logger
}

// NewService creates a new integrity service.
func NewService(columns checks.ColumnSource, s *settings.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{columns: columns, settings: s, logger: logger}
}

// CheckPolicy checks the referential, the targets and the result tables of a
// policy.
func (s *Service) CheckPolicy(ctx context.Context, name string) (*PolicyReport, error) {
	p, err := s.settings.Policy(name)
	if err != nil {
		return nil, err
	}
	targetNames, err := s.settings.Targets(name)
	if err != nil {
		return nil, err
	}

	ref := s.settings.Descriptors[p.Referential]
	targets := make([]*reconcile.Descriptor, 0, len(targetNames))
	for _, t := range targetNames {
		targets = append(targets, s.settings.Descriptors[t])
	}
	nm := s.settings.Descriptors[p.NoMatching]

	type check struct {
		desc     *reconcile.Descriptor
		required []string
	}
	todo := []check{{ref, checks.SourceColumns(ref)}}
	for _, t := range targets {
		todo = append(todo, check{t, checks.SourceColumns(t)})
	}
	todo = append(todo,
		check{s.settings.Descriptors[p.Matching], matchingRequired(ref, targets)},
		check{nm, append(reconcile.NoMatchingTableColumns(targets...), nm.MatchingID)},
	)

	report := &PolicyReport{Policy: p.Name, OK: true}
	for _, c := range todo {
		tr, err := checks.CheckTable(ctx, s.columns, c.desc, c.required)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", c.desc.Name, err)
		}
		if !tr.OK() {
			report.OK = false
			s.logger.Warn("Datasource table is not usable",
				zap.String("policy", p.Name),
				zap.String("datasource", tr.Datasource),
				zap.String("status", tr.Status),
				zap.Strings("missing", tr.Missing),
			)
		}
		report.Tables = append(report.Tables, tr)
	}
	return report, nil
}

// CheckAll checks every policy, sorted by name.
func (s *Service) CheckAll(ctx context.Context) ([]*PolicyReport, error) {
	var reports []*PolicyReport
	for _, name := range s.settings.PolicyNames() {
		r, err := s.CheckPolicy(ctx, name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// matchingRequired lists the matching table columns a run writes; run_id is
// optional.
func matchingRequired(ref *reconcile.Descriptor, targets []*reconcile.Descriptor) []string {
	var cols []string
	for _, c := range reconcile.MatchingTableColumns(ref, targets...) {
		if c != reconcile.ColRunID {
			cols = append(cols, c)
		}
	}
	return cols
}
