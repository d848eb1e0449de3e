package clingcon

import "sort"

// Relation is the comparison operator of a LinearConstraint.
type Relation int

const (
	LT Relation = iota
	LE
	GT
	GE
	EQ
	NE
)

func (r Relation) String() string {
	switch r {
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case EQ:
		return "="
	case NE:
		return "!="
	default:
		return "?"
	}
}

// Term is a single a*v summand of a linear constraint.
type Term struct {
	Coeff int32
	View  View
}

// LinearConstraint is the tuple (terms, rhs, relation) Σ coeff_i*view_i
// <rel> rhs.
type LinearConstraint struct {
	Terms    []Term
	Rhs      int64
	Relation Relation
}

// NewLinearConstraint builds a constraint from terms, an rhs and relation.
func NewLinearConstraint(rel Relation, rhs int64, terms ...Term) LinearConstraint {
	return LinearConstraint{Terms: append([]Term(nil), terms...), Rhs: rhs, Relation: rel}
}

// Normalize returns the canonical form of c: like terms merged, zero
// coefficients dropped, LT/GE/GT rewritten to LE, and for LE the GCD of
// the remaining coefficients divided out (rhs floor-adjusted); EQ and NE
// keep their relation and coefficients. Normalize is idempotent:
// Normalize(Normalize(c)) == Normalize(c).
func (c LinearConstraint) Normalize() LinearConstraint {
	merged, constSum := mergeTerms(c.Terms)

	rel, rhs := c.Relation, c.Rhs-constSum
	var terms []Term
	switch rel {
	case LE:
		terms = merged
	case LT:
		terms, rhs, rel = merged, rhs-1, LE
	case GE:
		terms, rhs, rel = negateTerms(merged), -rhs, LE
	case GT:
		terms, rhs, rel = negateTerms(merged), -rhs-1, LE // normalize GT: -lhs <= -rhs-1
	case EQ, NE:
		terms, rhs, rel = merged, rhs, c.Relation
	}

	if rel == LE {
		g := int32(0)
		for _, t := range terms {
			g = gcd32(g, abs32(t.Coeff))
		}
		if g > 1 {
			for i := range terms {
				terms[i].Coeff /= g
			}
			rhs = floorDiv(rhs, int64(g))
		}
	}

	return LinearConstraint{Terms: terms, Rhs: rhs, Relation: rel}
}

// mergeTerms collapses terms sharing a variable into one Coeff*v term per
// variable, and returns the sum of each term's dropped affine constant
// (Coeff*View.C) so the caller can fold it into Rhs instead of losing it.
func mergeTerms(terms []Term) ([]Term, int64) {
	byVar := make(map[Variable]int32, len(terms))
	order := make([]Variable, 0, len(terms))
	var constSum int64
	for _, t := range terms {
		if _, ok := byVar[t.View.V]; !ok {
			order = append(order, t.View.V)
		}
		byVar[t.View.V] += t.Coeff * t.View.A
		constSum += int64(t.Coeff) * int64(t.View.C)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Term, 0, len(order))
	for _, v := range order {
		if c := byVar[v]; c != 0 {
			out = append(out, Term{Coeff: c, View: IdentityView(v)})
		}
	}
	return out, constSum
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Coeff: -t.Coeff, View: t.View}
	}
	return out
}

func gcd32(a, b int32) int32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// MinMax returns the constraint's current [minLhs, maxLhs], computed over
// view bounds read from vs. All intermediate sums use 64-bit signed
// arithmetic to keep a wide domain's bounds from overflowing mid-sum.
func (c LinearConstraint) MinMax(vs *VolatileVariableStorage) (min, max int64) {
	for _, t := range c.Terms {
		tv := View{V: t.View.V, A: t.Coeff, C: 0}
		min += vs.ViewMin(tv)
		max += vs.ViewMax(tv)
	}
	return min, max
}

// Direction is how a Reified constraint's literal relates to its
// constraint. Directions combine by bitwise union.
type Direction int

const (
	FWD Direction = 1 << iota
	BACK
)

// EQ as a Direction is the union of both implications.
const DirEQ = FWD | BACK

// ReifiedLinear pairs a LinearConstraint with a Boolean literal and a
// Direction.
type ReifiedLinear struct {
	Constraint LinearConstraint
	Lit        Lit
	Dir        Direction
}

// ReifiedDomainConstraint: the literal is equivalent to view ∈ domain.
type ReifiedDomainConstraint struct {
	View View
	Dom  *Domain
	Lit  Lit
	Dir  Direction
}

// ReifiedAllDistinct: the literal equivalent to pairwise distinctness of views.
type ReifiedAllDistinct struct {
	Views []View
	Lit   Lit
	Dir   Direction
}

// ReifiedDisjoint: the literal equivalent to pairwise non-overlap of a set
// of [start,start+length) tasks expressed as views; e.g. an N-Queens
// diagonal constraint, modelled as disjoint unit tasks.
type ReifiedDisjoint struct {
	Views []View
	Lit   Lit
	Dir   Direction
}
