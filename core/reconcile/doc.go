// Package reconcile matches the records of a target dataset against a
// referential dataset following a declarative matching policy.
//
// A policy groups rules by matching type. A rule is a list of aliases; two
// records match under a rule when every aliased attribute is equal. Matches are
// appended to the matching table and the matched records are removed from the
// no-matching table, which holds what is still unmatched.
//
// # Matching Types
//
// The three types share one algorithm and differ only by their Strategy:
//
//   - full: target ⋈ referential, labelled direct/full.
//   - residual: no-matching ⋈ referential, restricted to the target's rows,
//     labelled direct/residual.
//   - indirect: no-matching ⋈ matching, restricted to the target's rows and to
//     matches of other targets, labelled indirect/full.
//
// # Plan and Apply
//
// Plan resolves every alias against the descriptors and the live table
// metadata, then builds each rule's insert and delete. Configuration errors
// surface here, before any statement runs. Apply runs every rule in one
// transaction, insert before delete, so an interrupted rule leaves the
// no-matching table a superset of the truth.
//
// # Usage
//
//	binding, err := settings.Bind("by_identifiers", "portfolio")
//	m := reconcile.NewMatcher(reconcile.RuleResidual, binding, store, reconcile.Options{Logger: logg})
//	summary, err := m.ExecuteMatching(ctx)
//	if reconcile.IsConfigError(err) {
//	    // fix the policy
//	}
//
// The storage collaborator is the Store interface; core/database implements it
// on GORM.
package reconcile
