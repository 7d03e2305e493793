package reconcile

import (
	"fmt"
	"strings"
)

// RuleType tags a matching pass.
type RuleType string

const (
	// RuleFull matches every target record against the referential.
	RuleFull RuleType = "full"
	// RuleResidual matches the target's unmatched records against the referential.
	RuleResidual RuleType = "residual"
	// RuleIndirect matches the target's unmatched records against records other
	// targets already matched.
	RuleIndirect RuleType = "indirect"
)

// RuleTypes returns every rule type in execution order.
func RuleTypes() []RuleType {
	return []RuleType{RuleFull, RuleResidual, RuleIndirect}
}

// ParseRuleType accepts a rule type tag. The short policy keys dfm, drm and ifm
// are accepted as synonyms of full, residual and indirect.
func ParseRuleType(s string) (RuleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "dfm":
		return RuleFull, nil
	case "residual", "drm":
		return RuleResidual, nil
	case "indirect", "ifm":
		return RuleIndirect, nil
	}
	return "", fmt.Errorf("rule type %q: %w", s, ErrUnknownRuleType)
}

// Role is the part a datasource plays in a policy.
type Role string

const (
	RoleTarget      Role = "target"
	RoleReferential Role = "referential"
	RoleMatching    Role = "matching"
	RoleNoMatching  Role = "no-matching"
)

// ParseRole accepts a datasource role. "matching-result" and
// "no-matching-result" are accepted for the result roles.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "target":
		return RoleTarget, nil
	case "referential":
		return RoleReferential, nil
	case "matching", "matching-result":
		return RoleMatching, nil
	case "no-matching", "no-matching-result":
		return RoleNoMatching, nil
	}
	return "", fmt.Errorf("role %q: %w", s, ErrInvalidDescriptor)
}

// IsResult reports whether the role designates a result table.
func (r Role) IsResult() bool {
	return r == RoleMatching || r == RoleNoMatching
}

// TableExistsPolicy says how a result table that already exists is prepared.
type TableExistsPolicy string

const (
	// TableDrop drops and recreates the table.
	TableDrop TableExistsPolicy = "drop"
	// TableClean keeps the table and deletes its rows.
	TableClean TableExistsPolicy = "clean"
)

// ParseTableExistsPolicy accepts "drop" or "clean".
func ParseTableExistsPolicy(s string) (TableExistsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop":
		return TableDrop, nil
	case "clean":
		return TableClean, nil
	}
	return "", fmt.Errorf("if_table_exists %q: %w", s, ErrInvalidDescriptor)
}

// Standard columns of the result tables.
const (
	ColTargetName    = "tgt_name"
	ColRefName       = "ref_name"
	ColMatchingType  = "matching_type"
	ColMatchingScope = "matching_scope"
	ColMatchingRule  = "matching_rule"
	ColRunID         = "run_id"
)

// Literals written to matching_type and matching_scope.
const (
	MatchingDirect   = "direct"
	MatchingIndirect = "indirect"
	ScopeFull        = "full"
	ScopeResidual    = "residual"
)

// StandardMatchingColumns returns the standard columns of the matching table.
func StandardMatchingColumns() []string {
	return []string{ColTargetName, ColRefName, ColMatchingType, ColMatchingScope, ColMatchingRule, ColRunID}
}

// Mapping sends a datasource column to a column of the result tables.
type Mapping struct {
	// Column is the result table column.
	Column string `json:"column" yaml:"column"`
	// Source is the datasource column.
	Source string `json:"source" yaml:"source"`
}

// RuleSummary reports what one rule changed.
type RuleSummary struct {
	Rule     string `json:"rule"`
	Inserted int64  `json:"inserted"`
	Deleted  int64  `json:"deleted"`
}

// Summary reports one matcher run.
type Summary struct {
	Type     RuleType      `json:"type"`
	Target   string        `json:"target"`
	RunID    string        `json:"run_id"`
	Rules    []RuleSummary `json:"rules"`
	Inserted int64         `json:"inserted"`
	Deleted  int64         `json:"deleted"`
	DryRun   bool          `json:"dry_run"`

	// Statements holds the rendered SQL of a dry run.
	Statements []string `json:"statements,omitempty"`
}
