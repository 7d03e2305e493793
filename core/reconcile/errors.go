package reconcile

import (
	"errors"

	"esg-matching/core/query"
)

var (
	// ErrRuleTypeNotInPolicy is returned when a matcher runs a type the policy does not define.
	ErrRuleTypeNotInPolicy = errors.New("rule type not in policy")
	// ErrUnknownRuleType is returned for an unrecognized rule type tag.
	ErrUnknownRuleType = errors.New("unknown rule type")
	// ErrUnresolvedAlias is returned when an alias does not resolve to a column.
	ErrUnresolvedAlias = errors.New("unresolved alias")
	// ErrUnknownColumn is returned when a resolved column is absent from the live table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownTable is returned when a table has no columns in the database.
	ErrUnknownTable = errors.New("unknown table")
	// ErrInvalidDescriptor is returned for a datasource missing, misnamed or in the wrong role.
	ErrInvalidDescriptor = errors.New("invalid datasource")
	// ErrInvalidPolicy is returned for a malformed policy or a target it does not cover.
	ErrInvalidPolicy = errors.New("invalid policy")
)

// IsConfigError reports whether err comes from the policy or datasource
// configuration rather than from the storage layer.
func IsConfigError(err error) bool {
	for _, target := range []error{
		ErrRuleTypeNotInPolicy,
		ErrUnknownRuleType,
		ErrUnresolvedAlias,
		ErrUnknownColumn,
		ErrUnknownTable,
		ErrInvalidDescriptor,
		ErrInvalidPolicy,
		query.ErrUnknownTargetColumn,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
