package reconcile

import (
	"context"
	"errors"

	"esg-matching/core/query"
)

var errStorage = errors.New("connection reset")

// fakeStore records executed statements and answers column lookups from a map.
type fakeStore struct {
	columns  map[string][]string
	affected []int64
	failAt   int

	executed    []query.Statement
	columnCalls int
	committed   int
	rolledBack  int
}

func (f *fakeStore) Columns(_ context.Context, table string) ([]string, error) {
	f.columnCalls++
	return f.columns[table], nil
}

func (f *fakeStore) Dialect() query.Dialect {
	return query.ANSI
}

func (f *fakeStore) Transaction(_ context.Context, fn func(Executor) error) error {
	if err := fn(f); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

func (f *fakeStore) Exec(_ context.Context, stmt query.Statement) (int64, error) {
	f.executed = append(f.executed, stmt)
	n := len(f.executed)
	if f.failAt == n {
		return 0, errStorage
	}
	if n <= len(f.affected) {
		return f.affected[n-1], nil
	}
	return 0, nil
}

func newPolicy() *Policy {
	return &Policy{
		Name:        "esg",
		Referential: "companies",
		Targets:     []string{"portfolio", "benchmark"},
		Matching:    "matching",
		NoMatching:  "no_matching",
		Rules: map[RuleType][]Rule{
			RuleFull:     {{Name: "by_entity", Aliases: []string{"entity_id"}}},
			RuleResidual: {{Name: "by_isin", Aliases: []string{"isin"}}},
			RuleIndirect: {{Name: "by_entity_indirect", Aliases: []string{"entity_id"}}},
		},
	}
}

func newBinding(p *Policy) Binding {
	return Binding{
		Policy: p,
		Target: &Descriptor{
			Name:    "portfolio",
			Role:    RoleTarget,
			Table:   "portfolio",
			Aliases: map[string]string{"entity_id": "entity_id", "isin": "isin_code"},
			MapToMatching: []Mapping{
				{Column: "tgt_id", Source: "id"},
				{Column: "tgt_entity_id", Source: "entity_id"},
				{Column: "tgt_isin", Source: "isin_code"},
			},
		},
		Referential: &Descriptor{
			Name:    "companies",
			Role:    RoleReferential,
			Table:   "ref_companies",
			Aliases: map[string]string{"entity_id": "lei", "isin": "isin"},
			MapToMatching: []Mapping{
				{Column: "ref_entity_id", Source: "lei"},
				{Column: "ref_company", Source: "name"},
			},
		},
		Matching: &Descriptor{
			Name:          "matching",
			Role:          RoleMatching,
			Table:         "matching",
			IfTableExists: TableDrop,
		},
		NoMatching: &Descriptor{
			Name:          "no_matching",
			Role:          RoleNoMatching,
			Table:         "no_matching",
			MatchingID:    "tgt_id",
			IfTableExists: TableClean,
		},
	}
}

func newStore() *fakeStore {
	return &fakeStore{columns: map[string][]string{
		"portfolio":     {"id", "entity_id", "isin_code", "weight"},
		"ref_companies": {"lei", "isin", "name", "country"},
		"matching": {
			"tgt_name", "ref_name", "matching_type", "matching_scope", "matching_rule", "run_id",
			"tgt_id", "tgt_entity_id", "tgt_isin", "ref_entity_id", "ref_company",
		},
		"no_matching": {"tgt_name", "tgt_id", "tgt_entity_id", "tgt_isin"},
	}}
}
