package clingcon

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// GiniHost is the concrete Host backed by go-air/gini's
// incremental SAT solver. It is grounded on the Operator Lifecycle
// Manager's resolver/solver package, which builds its CNF through a
// logic.C circuit and solves with gini.New(), in exactly the same shape
// used here: a logic.C for clause/cardinality construction, a gini
// instance for search, and a z.Lit<->Lit translation layer.
type GiniHost struct {
	c         *logic.C
	g         inter.S
	trueLit   Lit
	minimized []minimizeTerm
	frozen    map[Lit]bool
}

type minimizeTerm struct {
	lit    Lit
	weight int
	level  int
}

// NewGiniHost returns a GiniHost with capacity hinted by nvars, mirroring
// litMapping's logic.NewCCap(len(variables)).
func NewGiniHost(nvars int) *GiniHost {
	c := logic.NewCCap(nvars)
	h := &GiniHost{
		c:      c,
		g:      gini.New(),
		frozen: make(map[Lit]bool),
	}
	h.trueLit = h.fromZ(c.T)
	return h
}

func (h *GiniHost) fromZ(m z.Lit) Lit { return Lit(m) }
func toZ(l Lit) z.Lit                 { return z.Lit(l) }

// TrueLit returns the circuit's constant-true literal.
func (h *GiniHost) TrueLit() Lit { return h.trueLit }

// FalseLit returns the negation of the constant-true literal.
func (h *GiniHost) FalseLit() Lit { return h.Not(h.trueLit) }

// Not returns the logical complement of l, exactly z.Lit.Not.
func (h *GiniHost) Not(l Lit) Lit { return h.fromZ(toZ(l).Not()) }

// CreateLiteral allocates a fresh circuit literal. When frozen is true
// the literal is recorded in the host's frozen set; nothing in GiniHost
// reads that set, so it does not change CNF translation.
func (h *GiniHost) CreateLiteral(frozen bool) Lit {
	m := h.c.Lit()
	l := h.fromZ(m)
	if frozen {
		h.frozen[l] = true
	}
	return l
}

// CreateClause adds (lits[0] OR lits[1] OR ...) to the circuit, returning
// false only if the clause is trivially unsatisfiable (a degenerate empty
// clause).
func (h *GiniHost) CreateClause(lits []Lit) bool {
	if len(lits) == 0 {
		return false
	}
	ms := make([]z.Lit, len(lits))
	for i, l := range lits {
		ms[i] = toZ(l)
	}
	or := h.c.Ors(ms...)
	h.c.ToCnfFrom(h.g, or)
	return true
}

// CreateCardinality builds a sorting-network cardinality constraint
// bounding the number of true literals among ms to at most bound,
// guarded by guard, exactly as litMapping.CardinalityConstrainer does:
// construct a CardSort over the literals and teach every Leq(w) clause up
// to the network's width via CnfSince.
func (h *GiniHost) CreateCardinality(guard Lit, bound int, lits []Lit) bool {
	if len(lits) == 0 {
		return true
	}
	ms := make([]z.Lit, len(lits))
	for i, l := range lits {
		ms[i] = toZ(l)
	}
	clen := h.c.Len()
	cs := h.c.CardSort(ms)
	marks := make([]int8, clen, h.c.Len())
	for i := range marks {
		marks[i] = 1
	}
	leq := cs.Leq(bound)
	leqGuarded := h.c.Or(leq, toZ(h.Not(guard)))
	marks, _ = h.c.CnfSince(h.g, marks, leqGuarded)
	_ = marks
	return true
}

// IsTrue/IsFalse/IsUnknown query the current assignment via gini's
// Value.
func (h *GiniHost) IsTrue(l Lit) bool {
	return h.g.Value(toZ(l))
}

func (h *GiniHost) IsFalse(l Lit) bool {
	return h.g.Value(toZ(l).Not())
}

func (h *GiniHost) IsUnknown(l Lit) bool {
	return !h.IsTrue(l) && !h.IsFalse(l)
}

// AddMinimize records a weighted literal for the optimization objective.
// gini itself has no native weighted-minimize primitive, so this core only
// records the term; no code in this module runs a minimize loop over
// RecordedMinimize.
func (h *GiniHost) AddMinimize(l Lit, weight, level int) {
	h.minimized = append(h.minimized, minimizeTerm{lit: l, weight: weight, level: level})
}

// RecordedMinimize returns a copy of the terms recorded by AddMinimize.
func (h *GiniHost) RecordedMinimize() []minimizeTerm {
	return append([]minimizeTerm(nil), h.minimized...)
}

// Freeze records l in the host's frozen set; as with CreateLiteral,
// nothing in GiniHost reads that set.
func (h *GiniHost) Freeze(l Lit) {
	h.frozen[l] = true
}

// IntermediateVariableOutOfRange reports ErrOverflow if the circuit has
// allocated more literals than gini's z.Lit encoding can address.
func (h *GiniHost) IntermediateVariableOutOfRange() error {
	if h.c.Len() >= int(z.LitNull)-1 {
		return ErrOverflow
	}
	return nil
}

// Solve runs gini's incremental search under the given assumptions,
// returning true/false/unknown as solve.go's satisfiable/unsatisfiable
// constants do.
func (h *GiniHost) Solve(assumptions []Lit) (sat bool, ok bool) {
	ms := make([]z.Lit, len(assumptions))
	for i, l := range assumptions {
		ms[i] = toZ(l)
	}
	h.g.Assume(ms...)
	result := h.g.Solve()
	switch result {
	case 1:
		return true, true
	case -1:
		return false, true
	default:
		return false, false
	}
}

// Why returns the literals of the unsatisfiable core from the most
// recent failed Solve, mirroring litMapping.Conflicts' use of g.Why.
func (h *GiniHost) Why() []Lit {
	whys := h.g.Why(nil)
	out := make([]Lit, len(whys))
	for i, m := range whys {
		out[i] = h.fromZ(m)
	}
	return out
}

var _ Host = (*GiniHost)(nil)
