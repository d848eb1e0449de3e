package clingcon

import "sort"

// Translator emits clauses (or weight/cardinality constraints) for
// eagerly-encoded constraints.
type Translator struct {
	storage *VariableStorage
	host    Host
	cfg     Config
}

// NewTranslator returns a Translator writing to host against storage.
func NewTranslator(storage *VariableStorage, host Host, cfg Config) *Translator {
	return &Translator{storage: storage, host: host, cfg: cfg}
}

// createClause asserts clause and records it against storage's Monitor, if
// any (storage.mon is nil-safe, see Monitor's nil-receiver methods).
func (t *Translator) createClause(clause []Lit) bool {
	ok := t.host.CreateClause(clause)
	t.storage.mon.RecordClause()
	return ok
}

// TranslateChain emits the monotonicity clauses for every pair of
// consecutive materialized thresholds of v: not(le_i) or le_{i+1}.
func (t *Translator) TranslateChain(v Variable) {
	lits := t.storage.LELiterals(v)
	if len(lits) < 2 {
		return
	}
	positions := make([]int, 0, len(lits))
	for pos := range lits {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for i := 0; i+1 < len(positions); i++ {
		a, b := lits[positions[i]], lits[positions[i+1]]
		t.createClause([]Lit{t.host.Not(a), b})
	}
}

// MaterializeUpTo ensures at least n le-literals (or all, if n<0) exist
// for v's frozen domain, per the Normalizer's finalization phase
// (allocate order literals up to minLitsPerVar).
func (t *Translator) MaterializeUpTo(v Variable, n int) {
	dom := t.storage.Domain(v)
	size := int(dom.Size())
	if n < 0 || n > size {
		n = size
	}
	it := dom.Iterator()
	step := 1
	if n > 0 {
		step = size / n
		if step < 1 {
			step = 1
		}
	}
	for i := 0; i < size; i += step {
		cursor := dom.Iterator()
		cursor.Advance(i)
		_, _ = t.storage.GetLELiteral(t.host, v, cursor, true)
	}
	_ = it
}

// reorderLargestLast returns terms with the term whose view has the
// largest current domain moved to the end, so the Translator iterates
// over every other dimension before the largest-domain view.
func (t *Translator) reorderLargestLast(terms []Term) []Term {
	out := append([]Term(nil), terms...)
	best, bestSize := -1, int64(-1)
	for i, term := range out {
		if s := t.storage.DomainSize(term.View); s > bestSize {
			bestSize, best = s, i
		}
	}
	if best >= 0 && best != len(out)-1 {
		out[best], out[len(out)-1] = out[len(out)-1], out[best]
	}
	return out
}

// TranslateLinear emits the order-encoding clauses for a reified linear
// constraint selected for eager translation. For each
// partial assignment of thresholds to every term but the widest-domain
// one, it computes the induced bound on the remaining term and asserts a
// clause selecting that bound.
func (t *Translator) TranslateLinear(rc ReifiedLinear) error {
	c := rc.Constraint
	if len(c.Terms) == 0 {
		if c.Rhs < 0 {
			t.createClause([]Lit{t.host.Not(rc.Lit)})
		}
		return nil
	}
	terms := t.reorderLargestLast(c.Terms)
	last := terms[len(terms)-1]
	nonLast := terms[:len(terms)-1]
	return t.emitCombinations(rc, nonLast, last, 0, 0, nil)
}

func (t *Translator) emitCombinations(rc ReifiedLinear, nonLast []Term, last Term, idx int, partialSum int64, assumed []Lit) error {
	if idx == len(nonLast) {
		bound := c_Rhs(rc) - partialSum
		boundLit, err := t.boundLiteral(last, bound)
		if err != nil {
			return err
		}
		clause := make([]Lit, 0, len(assumed)+2)
		if rc.Dir&FWD != 0 {
			clause = append(clause, t.host.Not(rc.Lit))
		}
		for _, a := range assumed {
			clause = append(clause, t.host.Not(a))
		}
		clause = append(clause, boundLit)
		t.createClause(clause)
		return nil
	}
	term := nonLast[idx]
	dom := t.storage.Domain(term.View.V)
	it := dom.Iterator()
	for !it.AtEnd() {
		x := it.Value()
		assumeLit, contribution, err := t.assumptionFor(term, it)
		if err != nil {
			return err
		}
		if err := t.emitCombinations(rc, nonLast, last, idx+1, partialSum+contribution, append(assumed, assumeLit)); err != nil {
			return err
		}
		it.Advance(1)
		_ = x
	}
	return nil
}

func c_Rhs(rc ReifiedLinear) int64 { return rc.Constraint.Rhs }

// assumptionFor returns the literal asserting that term's contribution is
// at least term.Coeff*(*it) ("v >= *it" for a non-negative coefficient,
// "v <= *it" for a negative one) together with that minimal contribution,
// so the clause built from it bounds the remaining term soundly.
func (t *Translator) assumptionFor(term Term, it *DomainIterator) (Lit, int64, error) {
	v := term.View.V
	contribution := int64(term.Coeff) * int64(it.Value())
	if term.Coeff < 0 {
		lit, err := t.storage.GetLELiteral(t.host, v, it, true)
		if err != nil {
			return LitNull, 0, err
		}
		return lit, contribution, nil
	}
	if it.NumElement() == 0 {
		return t.host.TrueLit(), contribution, nil
	}
	prev := t.storage.Domain(v).Iterator()
	prev.Advance(it.NumElement() - 1)
	lit, err := t.storage.GetLELiteral(t.host, v, prev, true)
	if err != nil {
		return LitNull, 0, err
	}
	return t.host.Not(lit), contribution, nil
}

// boundLiteral returns the literal forcing term.View's contribution to
// stay at most `bound` (floor-divided by the coefficient, with direction
// flipped for a negative coefficient, exactly as LinearPropagator.tighten
// does during eager propagation).
func (t *Translator) boundLiteral(term Term, bound int64) (Lit, error) {
	v := term.View.V
	dom := t.storage.Domain(v)
	if term.Coeff == 0 {
		if bound >= 0 {
			return t.host.TrueLit(), nil
		}
		return t.host.FalseLit(), nil
	}
	if term.Coeff > 0 {
		threshold := floorDiv(bound, int64(term.Coeff))
		if threshold >= int64(dom.Upper()) {
			return t.host.TrueLit(), nil
		}
		if threshold < int64(dom.Lower()) {
			return t.host.FalseLit(), nil
		}
		it, ok := iteratorAtValue(dom, clampInt32(threshold))
		if !ok {
			return t.host.FalseLit(), nil
		}
		return t.storage.GetLELiteral(t.host, v, it, true)
	}
	threshold := clampInt32(ceilDiv(bound, int64(term.Coeff)))
	if int64(threshold) <= int64(dom.Lower()) {
		return t.host.TrueLit(), nil
	}
	it, ok := iteratorAtValue(dom, threshold-1)
	if !ok {
		return t.host.TrueLit(), nil
	}
	lit, err := t.storage.GetLELiteral(t.host, v, it, true)
	if err != nil {
		return LitNull, err
	}
	return t.host.Not(lit), nil
}

// TranslateDomain emits the clauses linking rc.Lit to the disjunction of
// in-domain equality literals: the literal implies the
// disjunction over in-domain equality literals; its negation implies the
// conjunction of the negations.
func (t *Translator) TranslateDomain(rc ReifiedDomainConstraint) error {
	v := rc.View.V
	dom := t.storage.Domain(v)
	var inDomainEq []Lit
	it := dom.Iterator()
	for !it.AtEnd() {
		if rc.Dom.In(it.Value()) {
			lit, err := t.storage.GetEqualLit(t.host, v, it, true)
			if err != nil {
				return err
			}
			inDomainEq = append(inDomainEq, lit)
		}
		it.Advance(1)
	}
	if rc.Dir&FWD != 0 {
		clause := append([]Lit{t.host.Not(rc.Lit)}, inDomainEq...)
		t.createClause(clause)
	}
	if rc.Dir&BACK != 0 {
		for _, eq := range inDomainEq {
			t.createClause([]Lit{t.host.Not(eq), rc.Lit})
		}
	}
	return nil
}

// TranslateAllDistinct emits either a per-value cardinality constraint
// (alldistinctCard=true) or pairwise not-equal clauses.
func (t *Translator) TranslateAllDistinct(rad ReifiedAllDistinct) error {
	if t.cfg.AlldistinctCard {
		return t.translateDistinctCardinality(rad.Views, rad.Lit)
	}
	return t.translateDistinctPairwise(rad.Views, rad.Lit, rad.Dir)
}

// TranslateDisjoint mirrors TranslateAllDistinct for ReifiedDisjoint.
func (t *Translator) TranslateDisjoint(rd ReifiedDisjoint) error {
	if t.cfg.AlldistinctCard {
		return t.translateDistinctCardinality(rd.Views, rd.Lit)
	}
	return t.translateDistinctPairwise(rd.Views, rd.Lit, rd.Dir)
}

func (t *Translator) translateDistinctPairwise(views []View, guard Lit, dir Direction) error {
	for i := 0; i < len(views); i++ {
		for j := i + 1; j < len(views); j++ {
			if err := t.emitNotEqual(views[i], views[j], guard, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Translator) emitNotEqual(a, b View, guard Lit, dir Direction) error {
	da, db := t.storage.Domain(a.V), t.storage.Domain(b.V)
	ita := da.Iterator()
	for !ita.AtEnd() {
		xa := a.Eval(ita.Value())
		// yb is the value of b's variable at which view b equals xa.
		num := xa - int64(b.C)
		if b.A == 0 || num%int64(b.A) != 0 {
			ita.Advance(1)
			continue
		}
		yb := num / int64(b.A)
		if int64(int32(yb)) == yb && db.In(int32(yb)) {
			eqA, err := t.storage.GetEqualLit(t.host, a.V, ita, true)
			if err != nil {
				return err
			}
			bIt, ok := iteratorAtValue(db, int32(yb))
			if ok && int64(bIt.Value()) == yb {
				eqB, err := t.storage.GetEqualLit(t.host, b.V, bIt, true)
				if err != nil {
					return err
				}
				clause := []Lit{t.host.Not(eqA), t.host.Not(eqB)}
				if dir&FWD != 0 {
					clause = append(clause, t.host.Not(guard))
				}
				t.createClause(clause)
			}
		}
		ita.Advance(1)
	}
	return nil
}

// translateDistinctCardinality emits, for each value in the union of the
// views' domains, an at-most-one cardinality constraint guarded by guard
// (the alldistinctCard mode).
func (t *Translator) translateDistinctCardinality(views []View, guard Lit) error {
	values := t.unionDomainValues(views)
	for _, x := range values {
		var eqLits []Lit
		for _, vw := range views {
			base := t.storage.Domain(vw.V)
			num := x - int64(vw.C)
			if vw.A == 0 || num%int64(vw.A) != 0 || int64(int32(num/int64(vw.A))) != num/int64(vw.A) {
				continue
			}
			y := int32(num / int64(vw.A))
			if !base.In(y) {
				continue
			}
			it, ok := iteratorAtValue(base, y)
			if !ok {
				continue
			}
			lit, err := t.storage.GetEqualLit(t.host, vw.V, it, true)
			if err != nil {
				return err
			}
			eqLits = append(eqLits, lit)
		}
		if len(eqLits) > 1 {
			t.host.CreateCardinality(guard, 1, eqLits)
		}
	}
	return nil
}

func (t *Translator) unionDomainValues(views []View) []int64 {
	seen := make(map[int64]struct{})
	for _, vw := range views {
		vw := vw
		t.storage.Domain(vw.V).IterateValues(func(v int32) { seen[vw.Eval(v)] = struct{}{} })
	}
	out := make([]int64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
