// Package chunk holds the shared vocabulary between a line-splitting search
// engine and its caller: Chunk, Rule, Span, and the immutable LinePrefix/
// SplitSet values the search is built from.
package chunk

// Rule is the only capability the search engine demands of a grammatical
// rule. Concrete rules (HardSplitRule, SimpleRule, or a caller's own variant)
// are opaque beyond this contract; the engine dispatches to it dynamically.
//
// Rule identity matters: two distinct Rule values governing unrelated chunks
// must never compare equal, even if their numeric fields coincide, because
// Rule is used as a map key (LinePrefix.ruleValues, the constraint tables).
// Implementations are expected to be used behind a pointer so identity
// equality (and hashing, via the pointer) falls out of normal Go semantics.
type Rule interface {
	// NumValues is the number of legal values for this rule, >= 1. Value 0
	// always means "no split".
	NumValues() int

	// Cost is added once to a solution's total cost if any chunk governed by
	// this rule splits. Not applicable to HardSplitRule.
	Cost() int

	// IsSplit reports whether assigning value to this rule causes c to be a
	// line break.
	IsSplit(value int, c *Chunk) bool

	// Constrain is a forward constraint: given this rule is bound to
	// myValue, what value (if any) must other take. The second return value
	// reports whether a constraint applies.
	Constrain(myValue int, other Rule) (int, bool)

	// ReverseConstrain is the backward counterpart of Constrain, consulted
	// when Constrain itself reports no constraint.
	ReverseConstrain(myValue int, other Rule) (int, bool)

	// SplitsOnInnerRules reports whether a hard split nested inside this
	// rule's range forces this rule to split too.
	SplitsOnInnerRules() bool

	// FullySplitValue is the value that represents "split everywhere this
	// rule governs".
	FullySplitValue() int
}

// HardSplitRule is the distinguished rule variant that always splits and has
// exactly one legal value. It is also what rule preemption (writer.hardenRule)
// substitutes for a rule it decides to harden.
//
// Each hard split site should own its own *HardSplitRule instance rather
// than sharing one globally, since Rule identity is significant.
type HardSplitRule struct{}

// NewHardSplitRule returns a fresh HardSplitRule for one hard-split site.
func NewHardSplitRule() *HardSplitRule { return &HardSplitRule{} }

func (*HardSplitRule) NumValues() int { return 1 }

func (*HardSplitRule) Cost() int { return 0 }

func (*HardSplitRule) IsSplit(int, *Chunk) bool { return true }

func (*HardSplitRule) Constrain(int, Rule) (int, bool) { return 0, false }

func (*HardSplitRule) ReverseConstrain(int, Rule) (int, bool) { return 0, false }

func (*HardSplitRule) SplitsOnInnerRules() bool { return false }

func (*HardSplitRule) FullySplitValue() int { return 0 }

// SimpleRule is a configurable Rule used both by split's own tests to model
// the constrained-rule scenarios in spec.md's S6, and by the sql package's
// domain grammar (argument-list splitting: if one argument is on its own
// line, all must be).
//
// A SimpleRule without a Constraints/ReverseConstraints entry for a given
// other Rule imposes no constraint on it. Constraints maps the rule's own
// value to a map of other-rule -> required value; ReverseConstraints is
// consulted symmetrically when asked "does myValue on other constrain me".
type SimpleRule struct {
	Values        int  // NumValues()
	RuleCost      int  // Cost()
	FullySplit    int  // FullySplitValue()
	SplitsOnInner bool // SplitsOnInnerRules()

	// SplitAt, if non-nil, decides IsSplit(value, c); value != 0 is used
	// when nil.
	SplitAt func(value int, c *Chunk) bool

	Constraints        map[int]map[Rule]int
	ReverseConstraints map[int]map[Rule]int

	// start, end are bookkeeping fields owned exclusively by the batch
	// façade (spec.md §3): the index of the first and last chunk this
	// rule governs within the batch currently being processed. The
	// search engine itself never reads or writes them.
	start, end int
}

// SetRange records the first/last chunk index this rule governs in the
// batch currently being processed. Only the batch façade calls this.
func (r *SimpleRule) SetRange(start, end int) {
	r.start, r.end = start, end
}

// Range returns the span last recorded by SetRange.
func (r *SimpleRule) Range() (start, end int) {
	return r.start, r.end
}

func (r *SimpleRule) NumValues() int { return r.Values }

func (r *SimpleRule) Cost() int { return r.RuleCost }

func (r *SimpleRule) IsSplit(value int, c *Chunk) bool {
	if r.SplitAt != nil {
		return r.SplitAt(value, c)
	}
	return value != 0
}

func (r *SimpleRule) Constrain(myValue int, other Rule) (int, bool) {
	byOther, ok := r.Constraints[myValue]
	if !ok {
		return 0, false
	}
	v, ok := byOther[other]
	return v, ok
}

func (r *SimpleRule) ReverseConstrain(myValue int, other Rule) (int, bool) {
	byOther, ok := r.ReverseConstraints[myValue]
	if !ok {
		return 0, false
	}
	v, ok := byOther[other]
	return v, ok
}

func (r *SimpleRule) SplitsOnInnerRules() bool { return r.SplitsOnInner }

func (r *SimpleRule) FullySplitValue() int { return r.FullySplit }
