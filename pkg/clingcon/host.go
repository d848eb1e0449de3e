package clingcon

// Lit is an opaque handle to a Boolean literal owned by the host SAT
// engine. The core never interprets its bit pattern; it only ever passes
// Lit values back through a Host. LitNull is the zero value and denotes
// "no literal" (e.g. a constraint with no useful CNF representation).
type Lit int32

// LitNull is the distinguished invalid literal.
const LitNull Lit = 0

// Host is the contract the core consumes from the collaborating SAT
// engine. Implementations must be safe to call from exactly one goroutine
// at a time per Host value; each search thread owns its own propagator
// and therefore, in a multi-threaded host, its own Host.
type Host interface {
	// TrueLit returns the fixed literal representing Boolean true.
	TrueLit() Lit
	// FalseLit returns the fixed literal representing Boolean false.
	FalseLit() Lit
	// Not returns the negation of l.
	Not(l Lit) Lit
	// CreateLiteral allocates and returns a fresh Boolean literal. If
	// frozen is true the host must not eliminate it during any internal
	// simplification.
	CreateLiteral(frozen bool) Lit
	// CreateClause asserts a clause (disjunction) over lits. Returns
	// false if the assertion makes the formula immediately unsatisfiable.
	CreateClause(lits []Lit) bool
	// CreateCardinality asserts an at-most-bound cardinality constraint
	// over lits, active only when guard is true (guard may be TrueLit()
	// for an unconditional constraint).
	CreateCardinality(guard Lit, bound int, lits []Lit) bool
	// IsTrue, IsFalse and IsUnknown query the current assignment of l
	// on the host's trail.
	IsTrue(l Lit) bool
	IsFalse(l Lit) bool
	IsUnknown(l Lit) bool
	// AddMinimize contributes weight*[l is true] to a lexicographic
	// minimize objective at the given priority level.
	AddMinimize(l Lit, weight int, level int)
	// Freeze requests that l survive any variable elimination the host
	// performs.
	Freeze(l Lit)
	// IntermediateVariableOutOfRange signals a fatal numeric overflow to
	// the host; it returns an error for the caller to propagate, it does
	// not panic or exit on its own.
	IntermediateVariableOutOfRange() error
}

// Reason is an ordered set of order/equality literals that together
// entail a propagated literal; the host turns it into the clause
// reason_literals -> propagated_literal.
type Reason []Lit

// Clause materializes a reason and its consequence as a single clause:
// (not r1) or (not r2) or ... or consequence.
func (r Reason) Clause(host Host, consequence Lit) []Lit {
	out := make([]Lit, 0, len(r)+1)
	for _, l := range r {
		out = append(out, host.Not(l))
	}
	out = append(out, consequence)
	return out
}
