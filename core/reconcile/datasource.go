package reconcile

import (
	"fmt"

	"esg-matching/core/query"

	"go.uber.org/multierr"
)

// Descriptor describes one datasource: its table, how rule aliases resolve to
// its columns and which of its columns are copied to the result tables.
type Descriptor struct {
	Name  string
	Role  Role
	Table string

	// Attributes maps a logical attribute to its physical column.
	Attributes map[string]string
	// Aliases maps a rule alias to a physical column or to a logical attribute.
	Aliases map[string]string
	// MapToMatching lists the result table columns fed by this datasource, in
	// declaration order.
	MapToMatching []Mapping
	// MatchingID is the identifier column of the no-matching table.
	MatchingID string
	// IfTableExists applies to result tables only.
	IfTableExists TableExistsPolicy
	// CreateTable asks for the result table to be created when it is missing.
	CreateTable bool
}

// TableRef returns the query reference of the datasource's table.
func (d *Descriptor) TableRef() query.Table {
	return query.T(d.Table)
}

// ColumnByAlias returns the physical column an alias designates.
func (d *Descriptor) ColumnByAlias(alias string) (string, error) {
	name, ok := d.Aliases[alias]
	if !ok || name == "" {
		return "", fmt.Errorf("datasource %s: alias %q: %w", d.Name, alias, ErrUnresolvedAlias)
	}
	if col, ok := d.Attributes[name]; ok && col != "" {
		return col, nil
	}
	return name, nil
}

// MatchingNameByAlias returns the result table column holding the value of the
// column an alias designates.
func (d *Descriptor) MatchingNameByAlias(alias string) (string, error) {
	col, err := d.ColumnByAlias(alias)
	if err != nil {
		return "", err
	}
	for _, m := range d.MapToMatching {
		if m.Source == col {
			return m.Column, nil
		}
	}
	return "", fmt.Errorf("datasource %s: alias %q: column %s is not mapped to the matching table: %w",
		d.Name, alias, col, ErrUnresolvedAlias)
}

// SourceOf returns the datasource column mapped to a result column.
func (d *Descriptor) SourceOf(column string) (string, bool) {
	for _, m := range d.MapToMatching {
		if m.Column == column {
			return m.Source, true
		}
	}
	return "", false
}

// MatchingColumns returns a copy of the result column mappings.
func (d *Descriptor) MatchingColumns() []Mapping {
	return append([]Mapping(nil), d.MapToMatching...)
}

// Validate runs the structural checks that depend on the datasource role.
// Every problem is reported.
func (d *Descriptor) Validate() error {
	var err error
	fail := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("datasource %q: "+format+": %w",
			append(append([]any{d.Name}, args...), ErrInvalidDescriptor)...))
	}

	if d.Name == "" {
		fail("missing name")
	}
	if d.Table == "" {
		fail("missing table")
	}
	switch d.Role {
	case RoleTarget:
		if len(d.Aliases) == 0 {
			fail("matching_alias is empty")
		}
		if len(d.MapToMatching) == 0 {
			fail("map_to_matching is empty")
		}
	case RoleReferential:
		if len(d.Aliases) == 0 {
			fail("matching_alias is empty")
		}
	case RoleNoMatching:
		if d.MatchingID == "" {
			fail("missing matching_id")
		}
	case RoleMatching:
	default:
		fail("unknown role %q", d.Role)
	}
	if d.Role.IsResult() && d.IfTableExists != TableDrop && d.IfTableExists != TableClean {
		fail("if_table_exists %q is neither drop nor clean", d.IfTableExists)
	}

	standard := make(map[string]struct{})
	for _, c := range StandardMatchingColumns() {
		standard[c] = struct{}{}
	}
	seen := make(map[string]struct{}, len(d.MapToMatching))
	for _, m := range d.MapToMatching {
		if m.Column == "" || m.Source == "" {
			fail("map_to_matching entry %q -> %q is incomplete", m.Source, m.Column)
			continue
		}
		if _, ok := standard[m.Column]; ok {
			fail("map_to_matching column %s is reserved", m.Column)
		}
		if _, dup := seen[m.Column]; dup {
			fail("map_to_matching column %s is declared twice", m.Column)
		}
		seen[m.Column] = struct{}{}
	}
	return err
}
