package chunk

import "reflect"

// bindingKind distinguishes the three states a rule binding inside a prefix
// can be in, per spec.md's "model the -1 sentinel as a tagged variant"
// guidance rather than an in-band integer.
type bindingKind int

const (
	// BindingUnbound means the rule imposes no constraint yet; every value
	// in [0, NumValues) is still open.
	BindingUnbound bindingKind = iota
	// BindingMustSplit means the rule must take a non-zero value, but which
	// one is still open.
	BindingMustSplit
	// BindingValue means the rule is pinned to a specific value.
	BindingValue
)

// RuleBinding is the value a LinePrefix associates with a Rule.
type RuleBinding struct {
	kind  bindingKind
	value int
}

// Unbound returns the "no constraint yet" binding.
func Unbound() RuleBinding { return RuleBinding{kind: BindingUnbound} }

// MustSplit returns the "must take a non-zero value, not yet chosen" binding.
func MustSplit() RuleBinding { return RuleBinding{kind: BindingMustSplit} }

// Bound returns a binding pinning the rule to v.
func Bound(v int) RuleBinding { return RuleBinding{kind: BindingValue, value: v} }

// Kind reports which of the three states the binding is in.
func (b RuleBinding) Kind() bindingKind { return b.kind }

// Value returns the pinned value. Only meaningful when Kind() == BindingValue.
func (b RuleBinding) Value() int { return b.value }

func (b RuleBinding) IsUnbound() bool    { return b.kind == BindingUnbound }
func (b RuleBinding) IsMustSplit() bool  { return b.kind == BindingMustSplit }
func (b RuleBinding) IsBound() bool      { return b.kind == BindingValue }

func (b RuleBinding) equal(o RuleBinding) bool {
	return b.kind == o.kind && (b.kind != BindingValue || b.value == o.value)
}

// ruleIdentity extracts a stable identity for a Rule for hashing purposes.
// Rules are documented to be used behind a pointer, so reflect.Value.Pointer
// gives pointer identity without requiring Rule to additionally implement a
// hashing method of its own.
func ruleIdentity(r Rule) uintptr {
	v := reflect.ValueOf(r)
	if v.Kind() == reflect.Ptr {
		return v.Pointer()
	}
	return 0
}

// ruleValueMap is the immutable, persistent rule->binding map backing a
// LinePrefix. It is built fresh at construction time (copy-on-write,
// never mutated). Its order-independent hash is computed once, when the
// owning LinePrefix is built, and cached there, so the hot-path memo lookup
// never re-walks it.
type ruleValueMap struct {
	bindings map[Rule]RuleBinding
}

func emptyRuleValueMap() ruleValueMap {
	return ruleValueMap{}
}

// newRuleValueMap builds a ruleValueMap from a plain map[Rule]int, where the
// sentinel value -1 denotes MustSplit and every other value denotes Bound(v).
func newRuleValueMap(values map[Rule]int) ruleValueMap {
	if len(values) == 0 {
		return ruleValueMap{}
	}
	bindings := make(map[Rule]RuleBinding, len(values))
	for r, v := range values {
		if v == -1 {
			bindings[r] = MustSplit()
		} else {
			bindings[r] = Bound(v)
		}
	}
	return ruleValueMap{bindings: bindings}
}

func (m ruleValueMap) get(r Rule) (RuleBinding, bool) {
	b, ok := m.bindings[r]
	return b, ok
}

func (m ruleValueMap) equal(o ruleValueMap) bool {
	if len(m.bindings) != len(o.bindings) {
		return false
	}
	for r, b := range m.bindings {
		ob, ok := o.bindings[r]
		if !ok || !b.equal(ob) {
			return false
		}
	}
	return true
}

// hash combines per-entry hashes with addition, which is commutative: the
// result does not depend on map iteration order, a requirement for a stable
// LinePrefix hash.
func (m ruleValueMap) hash() uint64 {
	var total uint64
	for r, b := range m.bindings {
		h := uint64(ruleIdentity(r))
		h = h*1099511628211 ^ uint64(b.kind)
		h = h*1099511628211 ^ uint64(uint32(b.value))
		total += h
	}
	return total
}

// LinePrefix is an immutable description of a partial split solution: how
// many chunks have been consumed, the column the next line begins at, and
// the rule bindings fixed so far. Two LinePrefix values equal under
// {Length, Column, ruleValues} are required to produce identical best
// suffix solutions; this equality is the search's memoization key.
type LinePrefix struct {
	Length     int
	Column     int
	ruleValues ruleValueMap
	h          uint64
}

// Initial returns the starting LinePrefix for a batch beginning at the given
// indent level.
func Initial(indent int, spacesPerIndent int) LinePrefix {
	p := LinePrefix{Length: 0, Column: indent * spacesPerIndent, ruleValues: emptyRuleValueMap()}
	p.h = p.computeHash()
	return p
}

func (p LinePrefix) computeHash() uint64 {
	h := uint64(p.Length)*31 + uint64(p.Column)
	return h*1099511628211 ^ p.ruleValues.hash()
}

// Hash returns the prefix's precomputed, cache-friendly hash.
func (p LinePrefix) Hash() uint64 { return p.h }

// RuleValue looks up the binding prefix records for r, if any.
func (p LinePrefix) RuleValue(r Rule) (RuleBinding, bool) {
	return p.ruleValues.get(r)
}

// Equal reports whether two prefixes are equal under {Length, Column,
// ruleValues}, the memoization key.
func (p LinePrefix) Equal(o LinePrefix) bool {
	return p.Length == o.Length && p.Column == o.Column && p.ruleValues.equal(o.ruleValues)
}

// Extend returns a prefix one chunk longer, with the line's starting column
// unchanged (this chunk did not split) and its rule bindings replaced with
// newRuleValues (the full straddling-rule map computed by the caller's
// advancePrefix, per spec.md §4.3 — not merged with the old bindings).
func (p LinePrefix) Extend(newRuleValues map[Rule]int) LinePrefix {
	next := LinePrefix{
		Length:     p.Length + 1,
		Column:     p.Column,
		ruleValues: newRuleValueMap(newRuleValues),
	}
	next.h = next.computeHash()
	return next
}

// Split returns the LinePrefix(es) describing the case "chunk splits here".
// Each result has Length = p.Length+1 and a Column for the new line.
//
// The column a new line begins at is carried on the chunk itself
// (AbsoluteIndent, FlushLeft) rather than re-derived from nesting depth by
// the prefix: the chunk builder that emitted the batch already resolved
// nesting to an indentation column. A single candidate prefix is therefore
// sufficient and is what this implementation returns; the interface returns
// a slice to leave room for a caller whose chunk builder wants to offer the
// search multiple legal indentations for the same split (see DESIGN.md).
func (p LinePrefix) Split(c *Chunk, newRuleValues map[Rule]int) []LinePrefix {
	column := c.AbsoluteIndent * SpacesPerIndent
	if c.FlushLeft {
		column = 0
	}
	next := LinePrefix{
		Length:     p.Length + 1,
		Column:     column,
		ruleValues: newRuleValueMap(newRuleValues),
	}
	next.h = next.computeHash()
	return []LinePrefix{next}
}
