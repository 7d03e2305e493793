package query

import (
	"fmt"
	"strings"
)

// Pair maps one source expression to the destination column it populates.
type Pair struct {
	Source Expr
	Target string
}

// Projection is an ordered list of (source, target) pairs. Keeping both sides in
// one list means the select items and the insert columns can never drift apart.
type Projection []Pair

// Items returns the select items, each named after its target column.
func (p Projection) Items() []SelectItem {
	items := make([]SelectItem, len(p))
	for i, pair := range p {
		items[i] = SelectItem{Expr: pair.Source, As: pair.Target}
	}
	return items
}

// Targets returns the destination columns in projection order.
func (p Projection) Targets() []string {
	targets := make([]string, len(p))
	for i, pair := range p {
		targets[i] = pair.Target
	}
	return targets
}

// Validate checks that every pair has a source and a non-empty target, and
// that no two targets are equal ignoring case.
func (p Projection) Validate() error {
	if len(p) == 0 {
		return ErrEmptyProjection
	}
	seen := make(map[string]struct{}, len(p))
	for i, pair := range p {
		if pair.Source == nil || pair.Target == "" {
			return fmt.Errorf("projection pair %d is incomplete", i)
		}
		key := strings.ToLower(pair.Target)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%s: %w", pair.Target, ErrDuplicateColumn)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Reorder returns the projection sorted by the position of each target in
// columns (typically the destination table's own column order). Targets match
// columns ignoring case and take the spelling of columns. A target that
// columns does not contain is an error. Columns without a pair are skipped.
func (p Projection) Reorder(columns []string) (Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	byTarget := make(map[string]Pair, len(p))
	for _, pair := range p {
		byTarget[strings.ToLower(pair.Target)] = pair
	}
	out := make(Projection, 0, len(p))
	for _, col := range columns {
		key := strings.ToLower(col)
		if pair, ok := byTarget[key]; ok {
			pair.Target = col
			out = append(out, pair)
			delete(byTarget, key)
		}
	}
	if len(byTarget) > 0 {
		// Report in projection order for stable messages.
		for _, pair := range p {
			if _, missing := byTarget[strings.ToLower(pair.Target)]; missing {
				return nil, fmt.Errorf("%s: %w", pair.Target, ErrUnknownTargetColumn)
			}
		}
	}
	return out, nil
}
