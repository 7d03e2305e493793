package reconcile

import "fmt"

// Side designates one of the tables a matcher joins.
type Side int

const (
	SideTarget Side = iota
	SideNoMatching
	SideReferential
	SideMatching
)

func (s Side) String() string {
	switch s {
	case SideTarget:
		return "target"
	case SideNoMatching:
		return "no-matching"
	case SideReferential:
		return "referential"
	case SideMatching:
		return "matching"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Strategy is what distinguishes the matching types: which tables are joined,
// which rows are considered and how the matches are labelled.
type Strategy struct {
	Type  RuleType
	Left  Side
	Right Side
	// FilterByTarget keeps only the left rows of the current target.
	FilterByTarget bool
	// ExcludeSameTarget drops right rows already matched for the current target.
	ExcludeSameTarget bool
	MatchingType      string
	MatchingScope     string
}

// StrategyFor returns the strategy of a rule type.
func StrategyFor(t RuleType) (Strategy, error) {
	switch t {
	case RuleFull:
		return Strategy{
			Type:          RuleFull,
			Left:          SideTarget,
			Right:         SideReferential,
			MatchingType:  MatchingDirect,
			MatchingScope: ScopeFull,
		}, nil
	case RuleResidual:
		return Strategy{
			Type:           RuleResidual,
			Left:           SideNoMatching,
			Right:          SideReferential,
			FilterByTarget: true,
			MatchingType:   MatchingDirect,
			MatchingScope:  ScopeResidual,
		}, nil
	case RuleIndirect:
		return Strategy{
			Type:              RuleIndirect,
			Left:              SideNoMatching,
			Right:             SideMatching,
			FilterByTarget:    true,
			ExcludeSameTarget: true,
			MatchingType:      MatchingIndirect,
			MatchingScope:     ScopeFull,
		}, nil
	}
	return Strategy{}, fmt.Errorf("rule type %q: %w", t, ErrUnknownRuleType)
}
