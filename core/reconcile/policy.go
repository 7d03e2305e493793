package reconcile

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// Rule is a named list of aliases whose values must all be equal.
type Rule struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// Policy groups named rules by matching type and names the datasources they
// apply to.
type Policy struct {
	Name        string
	Referential string
	// Targets lists the target datasources. Empty means any target.
	Targets    []string
	Matching   string
	NoMatching string
	// Rules holds the ordered rules of each type.
	Rules map[RuleType][]Rule
}

// HasRuleType reports whether the policy defines at least one rule of type t.
func (p *Policy) HasRuleType(t RuleType) bool {
	return len(p.Rules[t]) > 0
}

// RulesOfType returns the rules of type t in declaration order, or nil.
func (p *Policy) RulesOfType(t RuleType) []Rule {
	return slices.Clone(p.Rules[t])
}

// Types returns the rule types the policy defines, in execution order.
func (p *Policy) Types() []RuleType {
	var types []RuleType
	for _, t := range RuleTypes() {
		if p.HasRuleType(t) {
			types = append(types, t)
		}
	}
	return types
}

// HasTarget reports whether the policy applies to the named target.
func (p *Policy) HasTarget(name string) bool {
	return len(p.Targets) == 0 || slices.Contains(p.Targets, name)
}

// Validate checks the rule sets. Every problem is reported.
func (p *Policy) Validate() error {
	var err error
	fail := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("policy %q: "+format+": %w",
			append(append([]any{p.Name}, args...), ErrInvalidPolicy)...))
	}

	if p.Name == "" {
		fail("missing name")
	}
	if p.Referential == "" {
		fail("missing referential")
	}
	if p.Matching == "" || p.NoMatching == "" {
		fail("missing result datasources")
	}
	if len(p.Types()) == 0 {
		fail("no rules")
	}
	for t := range p.Rules {
		if !slices.Contains(RuleTypes(), t) {
			fail("unknown rule type %q", t)
		}
	}
	for _, t := range RuleTypes() {
		rules := p.Rules[t]
		names := make(map[string]struct{}, len(rules))
		for _, r := range rules {
			if r.Name == "" {
				fail("%s rule without a name", t)
			}
			if _, dup := names[r.Name]; dup {
				fail("%s rule %s is declared twice", t, r.Name)
			}
			names[r.Name] = struct{}{}
			if len(r.Aliases) == 0 {
				fail("%s rule %s has no aliases", t, r.Name)
			}
		}
	}
	return err
}

// Binding is a policy applied to one target, with every datasource it needs.
type Binding struct {
	Policy      *Policy
	Target      *Descriptor
	Referential *Descriptor
	Matching    *Descriptor
	NoMatching  *Descriptor
}

// Validate checks that the binding is complete and consistent with its policy.
func (b Binding) Validate() error {
	if b.Policy == nil {
		return fmt.Errorf("binding without policy: %w", ErrInvalidPolicy)
	}
	var err error
	check := func(d *Descriptor, role Role, name string) {
		switch {
		case d == nil:
			err = multierr.Append(err, fmt.Errorf("%s datasource is missing: %w", role, ErrInvalidDescriptor))
		case d.Role != role:
			err = multierr.Append(err, fmt.Errorf("datasource %s has role %s, want %s: %w", d.Name, d.Role, role, ErrInvalidDescriptor))
		case name != "" && d.Name != name:
			err = multierr.Append(err, fmt.Errorf("policy %s expects %s datasource %s, got %s: %w",
				b.Policy.Name, role, name, d.Name, ErrInvalidPolicy))
		}
	}
	check(b.Target, RoleTarget, "")
	check(b.Referential, RoleReferential, b.Policy.Referential)
	check(b.Matching, RoleMatching, b.Policy.Matching)
	check(b.NoMatching, RoleNoMatching, b.Policy.NoMatching)
	if b.Target != nil && !b.Policy.HasTarget(b.Target.Name) {
		err = multierr.Append(err, fmt.Errorf("target %s is not part of policy %s: %w", b.Target.Name, b.Policy.Name, ErrInvalidPolicy))
	}
	return err
}
