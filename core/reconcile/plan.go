package reconcile

import (
	"context"
	"fmt"
	"strings"

	"esg-matching/core/query"
)

// RulePlan holds the two statements of one rule.
type RulePlan struct {
	Rule   string
	Insert query.InsertStatement
	Delete query.DeleteStatement
}

// Plan is the full statement list of a matcher run, built before anything is
// executed.
type Plan struct {
	Strategy Strategy
	Target   string
	RunID    string
	Rules    []RulePlan
}

// Plan resolves every rule of the matcher's type against the live table
// metadata and builds its statements.
func (m *Matcher) Plan(ctx context.Context) (*Plan, error) {
	if err := m.checkResolvable(); err != nil {
		return nil, err
	}
	s, _ := StrategyFor(m.ruleType)
	p := m.binding.Policy

	sch, err := loadSchema(ctx, m.store, m.side(s.Left).Table, m.side(s.Right).Table, m.binding.Matching.Table)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Strategy: s, Target: m.binding.Target.Name, RunID: m.opts.RunID}
	for _, rule := range p.RulesOfType(s.Type) {
		rp, err := m.planRule(s, sch, rule)
		if err != nil {
			return nil, fmt.Errorf("%s rule %s: %w", s.Type, rule.Name, err)
		}
		plan.Rules = append(plan.Rules, rp)
	}
	return plan, nil
}

// CheckResolvable checks, from the descriptors alone, that the policy defines
// rules of type t and that every alias and the no-matching identifier of those
// rules resolve on both sides of the join. No table is read.
func CheckResolvable(b Binding, t RuleType) error {
	m := &Matcher{ruleType: t, binding: b}
	return m.checkResolvable()
}

func (m *Matcher) checkResolvable() error {
	s, err := StrategyFor(m.ruleType)
	if err != nil {
		return err
	}
	p := m.binding.Policy
	if p == nil {
		return fmt.Errorf("binding without policy: %w", ErrInvalidPolicy)
	}
	if !p.HasRuleType(s.Type) {
		return fmt.Errorf("policy %s defines no %s rules: %w", p.Name, s.Type, ErrRuleTypeNotInPolicy)
	}
	if err := m.binding.Validate(); err != nil {
		return err
	}
	if _, err := m.keyColumn(s); err != nil {
		return err
	}
	for _, rule := range p.RulesOfType(s.Type) {
		for _, alias := range rule.Aliases {
			for _, side := range []Side{s.Left, s.Right} {
				if _, err := m.aliasColumn(side, alias); err != nil {
					return fmt.Errorf("%s rule %s: %w", s.Type, rule.Name, err)
				}
			}
		}
	}
	return nil
}

func (m *Matcher) planRule(s Strategy, sch schema, rule Rule) (RulePlan, error) {
	left, right := m.side(s.Left), m.side(s.Right)
	lt, rt := left.TableRef(), right.TableRef()
	target := m.binding.Target.Name

	cb := query.NewCondition()
	for _, alias := range rule.Aliases {
		lc, err := m.aliasColumn(s.Left, alias)
		if err != nil {
			return RulePlan{}, err
		}
		rc, err := m.aliasColumn(s.Right, alias)
		if err != nil {
			return RulePlan{}, err
		}
		if err := sch.check(left.Table, lc); err != nil {
			return RulePlan{}, err
		}
		if err := sch.check(right.Table, rc); err != nil {
			return RulePlan{}, err
		}
		cb = cb.EqualColumns(lt.Col(lc), rt.Col(rc))
	}
	join, err := cb.Condition()
	if err != nil {
		return RulePlan{}, err
	}

	filter := query.NewCondition()
	if s.FilterByTarget {
		filter = filter.EqualToValue(lt.Col(ColTargetName), target)
	}
	if s.ExcludeSameTarget {
		filter = filter.NotEqualToValue(rt.Col(ColTargetName), target)
	}
	var where query.Condition
	if filter.Len() > 0 {
		if where, err = filter.Condition(); err != nil {
			return RulePlan{}, err
		}
	}

	proj, err := m.projection(s, sch, rule, lt, rt)
	if err != nil {
		return RulePlan{}, err
	}
	proj, err = proj.Reorder(sch[m.binding.Matching.Table])
	if err != nil {
		return RulePlan{}, fmt.Errorf("matching table %s: %w", m.binding.Matching.Table, err)
	}

	sel, err := query.Select(proj.Items()...).From(lt).Join(rt).On(join).Where(where).Build()
	if err != nil {
		return RulePlan{}, err
	}
	ins, err := query.InsertFromSelect(m.binding.Matching.TableRef(), proj.Targets(), sel)
	if err != nil {
		return RulePlan{}, err
	}

	key, err := m.keyColumn(s)
	if err != nil {
		return RulePlan{}, err
	}
	if err := sch.check(left.Table, key); err != nil {
		return RulePlan{}, err
	}
	keys, err := query.Select(query.Columns(lt.Col(key))...).From(lt).Join(rt).On(join).Where(where).Build()
	if err != nil {
		return RulePlan{}, err
	}
	nm := m.binding.NoMatching.TableRef()
	del, err := query.DeleteWhereIn(nm, m.binding.NoMatching.MatchingID, keys).
		Where(query.EqualsValue{Column: nm.Col(ColTargetName), Value: target}).
		Build()
	if err != nil {
		return RulePlan{}, err
	}

	return RulePlan{Rule: rule.Name, Insert: ins, Delete: del}, nil
}

// projection lists the matching table columns a rule fills: the standard
// columns, then the target's mapped columns, then the referential's.
func (m *Matcher) projection(s Strategy, sch schema, rule Rule, lt, rt query.Table) (query.Projection, error) {
	refName := query.Expr(query.Value(m.binding.Referential.Name))
	if s.Right == SideMatching {
		refName = rt.Col(ColRefName)
	}
	proj := query.Projection{
		{Source: query.Value(m.binding.Target.Name), Target: ColTargetName},
		{Source: refName, Target: ColRefName},
		{Source: query.Value(s.MatchingType), Target: ColMatchingType},
		{Source: query.Value(s.MatchingScope), Target: ColMatchingScope},
		{Source: query.Value(rule.Name), Target: ColMatchingRule},
	}
	// run_id is optional on tables that were not created by this service
	if sch.has(m.binding.Matching.Table, ColRunID) {
		proj = append(proj, query.Pair{Source: query.Value(m.opts.RunID), Target: ColRunID})
	}

	for _, side := range []struct {
		side  Side
		table query.Table
		desc  *Descriptor
	}{
		{s.Left, lt, m.binding.Target},
		{s.Right, rt, m.binding.Referential},
	} {
		for _, mp := range side.desc.MapToMatching {
			col := mappedColumn(side.side, mp)
			if err := sch.check(side.table.Name, col); err != nil {
				return nil, err
			}
			proj = append(proj, query.Pair{Source: side.table.Col(col), Target: mp.Column})
		}
	}
	return proj, nil
}

func (m *Matcher) side(s Side) *Descriptor {
	switch s {
	case SideTarget:
		return m.binding.Target
	case SideNoMatching:
		return m.binding.NoMatching
	case SideReferential:
		return m.binding.Referential
	default:
		return m.binding.Matching
	}
}

// aliasColumn resolves an alias on one side of the join. The result tables
// hold the target's values under their matching names.
func (m *Matcher) aliasColumn(s Side, alias string) (string, error) {
	switch s {
	case SideTarget:
		return m.binding.Target.ColumnByAlias(alias)
	case SideReferential:
		return m.binding.Referential.ColumnByAlias(alias)
	default:
		return m.binding.Target.MatchingNameByAlias(alias)
	}
}

// keyColumn returns the left column holding the no-matching identifier.
func (m *Matcher) keyColumn(s Strategy) (string, error) {
	id := m.binding.NoMatching.MatchingID
	if s.Left != SideTarget {
		return id, nil
	}
	src, ok := m.binding.Target.SourceOf(id)
	if !ok {
		return "", fmt.Errorf("datasource %s: matching id %s is not mapped: %w", m.binding.Target.Name, id, ErrUnresolvedAlias)
	}
	return src, nil
}

// mappedColumn returns where a mapped value lives on a side: datasource tables
// hold it under the source column, result tables under the matching column.
func mappedColumn(s Side, mp Mapping) string {
	if s == SideTarget || s == SideReferential {
		return mp.Source
	}
	return mp.Column
}

// schema holds the live columns of the tables involved in a run, in table order.
type schema map[string][]string

func loadSchema(ctx context.Context, store Store, tables ...string) (schema, error) {
	sch := make(schema, len(tables))
	for _, t := range tables {
		if _, ok := sch[t]; ok {
			continue
		}
		cols, err := store.Columns(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("columns of %s: %w", t, err)
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("table %s: %w", t, ErrUnknownTable)
		}
		sch[t] = cols
	}
	return sch, nil
}

func (s schema) has(table, column string) bool {
	for _, c := range s[table] {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

func (s schema) check(table, column string) error {
	if !s.has(table, column) {
		return fmt.Errorf("%s.%s: %w", table, column, ErrUnknownColumn)
	}
	return nil
}
