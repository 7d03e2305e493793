package reconcile

import (
	"context"
	"fmt"

	"esg-matching/core/query"
)

// SeedStatements returns the statements that reset the residual rows of the
// binding's target: a delete of its previous rows and an insert of every row
// of the target table. columns is the no-matching table's column order.
func SeedStatements(b Binding, columns []string) (query.DeleteStatement, query.InsertStatement, error) {
	if b.Target == nil || b.NoMatching == nil {
		return query.DeleteStatement{}, query.InsertStatement{}, fmt.Errorf("seed: %w", ErrInvalidDescriptor)
	}
	nm, tgt := b.NoMatching.TableRef(), b.Target.TableRef()

	del, err := query.DeleteFrom(nm).
		Where(query.EqualsValue{Column: nm.Col(ColTargetName), Value: b.Target.Name}).
		Build()
	if err != nil {
		return query.DeleteStatement{}, query.InsertStatement{}, err
	}

	proj := query.Projection{{Source: query.Value(b.Target.Name), Target: ColTargetName}}
	for _, mp := range b.Target.MapToMatching {
		proj = append(proj, query.Pair{Source: tgt.Col(mp.Source), Target: mp.Column})
	}
	proj, err = proj.Reorder(columns)
	if err != nil {
		return query.DeleteStatement{}, query.InsertStatement{}, fmt.Errorf("no-matching table %s: %w", nm.Name, err)
	}
	sel, err := query.Select(proj.Items()...).From(tgt).Build()
	if err != nil {
		return query.DeleteStatement{}, query.InsertStatement{}, err
	}
	ins, err := query.InsertFromSelect(nm, proj.Targets(), sel)
	if err != nil {
		return query.DeleteStatement{}, query.InsertStatement{}, err
	}
	return del, ins, nil
}

// Seed refills the no-matching table with the rows of the binding's target and
// returns the number of rows inserted.
func Seed(ctx context.Context, store Store, b Binding) (int64, error) {
	if b.Target == nil || b.NoMatching == nil {
		return 0, fmt.Errorf("seed: %w", ErrInvalidDescriptor)
	}
	sch, err := loadSchema(ctx, store, b.Target.Table, b.NoMatching.Table)
	if err != nil {
		return 0, err
	}
	for _, mp := range b.Target.MapToMatching {
		if err := sch.check(b.Target.Table, mp.Source); err != nil {
			return 0, fmt.Errorf("seed %s: %w", b.Target.Name, err)
		}
	}
	del, ins, err := SeedStatements(b, sch[b.NoMatching.Table])
	if err != nil {
		return 0, err
	}

	var seeded int64
	err = store.Transaction(ctx, func(tx Executor) error {
		if _, err := tx.Exec(ctx, del); err != nil {
			return fmt.Errorf("clear residuals of %s: %w", b.Target.Name, err)
		}
		n, err := tx.Exec(ctx, ins)
		if err != nil {
			return fmt.Errorf("seed residuals of %s: %w", b.Target.Name, err)
		}
		seeded = n
		return nil
	})
	return seeded, err
}

// MatchingTableColumns returns the columns a matching table needs to serve the
// referential and the targets: the standard columns, then every mapped column
// once, in declaration order.
func MatchingTableColumns(ref *Descriptor, targets ...*Descriptor) []string {
	cols := newColumnSet(StandardMatchingColumns()...)
	for _, t := range targets {
		cols.addMappings(t)
	}
	cols.addMappings(ref)
	return cols.list
}

// NoMatchingTableColumns returns the columns a no-matching table needs to hold
// the residual rows of the targets.
func NoMatchingTableColumns(targets ...*Descriptor) []string {
	cols := newColumnSet(ColTargetName)
	for _, t := range targets {
		cols.addMappings(t)
	}
	return cols.list
}

type columnSet struct {
	list []string
	seen map[string]struct{}
}

func newColumnSet(cols ...string) *columnSet {
	s := &columnSet{seen: make(map[string]struct{})}
	for _, c := range cols {
		s.add(c)
	}
	return s
}

func (s *columnSet) add(c string) {
	if _, ok := s.seen[c]; ok {
		return
	}
	s.seen[c] = struct{}{}
	s.list = append(s.list, c)
}

func (s *columnSet) addMappings(d *Descriptor) {
	if d == nil {
		return
	}
	for _, mp := range d.MapToMatching {
		s.add(mp.Column)
	}
}
