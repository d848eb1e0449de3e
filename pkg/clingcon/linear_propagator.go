package clingcon

// LinearPropagator is the eager, pre-search bound tightener run during
// normalization. It maintains a work queue of constraint
// indices needing re-examination and narrows VariableStorage domains
// directly until a fixpoint is reached or a constraint is found violated.
type LinearPropagator struct {
	storage     *VariableStorage
	host        Host
	constraints []ReifiedLinear
	watchers    map[Variable][]int
	queue       []int
	queued      []bool
}

// NewLinearPropagator returns a propagator over storage for the given
// reified linear constraints, using host to read/force literal truth.
func NewLinearPropagator(storage *VariableStorage, host Host, constraints []ReifiedLinear) *LinearPropagator {
	p := &LinearPropagator{
		storage:     storage,
		host:        host,
		constraints: constraints,
		watchers:    make(map[Variable][]int),
		queued:      make([]bool, len(constraints)),
	}
	for i, rc := range constraints {
		for _, t := range rc.Constraint.Terms {
			p.watchers[t.View.V] = append(p.watchers[t.View.V], i)
		}
		p.enqueue(i)
	}
	return p
}

func (p *LinearPropagator) enqueue(i int) {
	if !p.queued[i] {
		p.queued[i] = true
		p.queue = append(p.queue, i)
	}
}

func (p *LinearPropagator) requeueWatchers(v Variable) {
	for _, i := range p.watchers[v] {
		p.enqueue(i)
	}
}

// Run propagates every queued constraint to a fixpoint. Returns
// ErrUnsatisfiable if a constraint is violated while its reification
// literal is already forced true (or the reverse, per direction), and
// ErrEmptyDomain if a view's domain collapses.
func (p *LinearPropagator) Run() error {
	for len(p.queue) > 0 {
		i := p.queue[0]
		p.queue = p.queue[1:]
		p.queued[i] = false
		if err := p.propagateOne(i); err != nil {
			return err
		}
	}
	return nil
}

// propagateOne implements the single-step bound-tightening algorithm.
func (p *LinearPropagator) propagateOne(i int) error {
	rc := p.constraints[i]
	c := rc.Constraint

	minLhs, maxLhs := p.minMax(c)

	entailed := maxLhs <= c.Rhs
	violated := minLhs > c.Rhs

	switch {
	case entailed:
		if rc.Dir&BACK != 0 && p.host.IsUnknown(rc.Lit) {
			p.host.CreateClause([]Lit{rc.Lit})
		} else if rc.Dir&BACK != 0 && p.host.IsFalse(rc.Lit) {
			return ErrUnsatisfiable
		}
		return nil
	case violated:
		if rc.Dir&FWD != 0 {
			if p.host.IsUnknown(rc.Lit) {
				p.host.CreateClause([]Lit{p.host.Not(rc.Lit)})
			} else if p.host.IsTrue(rc.Lit) {
				return ErrUnsatisfiable
			}
		}
		return nil
	}

	// Bound tightening is only sound once the constraint is known to
	// hold: v -> l (direction FWD) together with v being true.
	if rc.Dir&FWD == 0 || !p.host.IsTrue(rc.Lit) {
		return nil
	}

	for _, t := range c.Terms {
		tv := View{V: t.View.V, A: t.Coeff}
		termMin := p.storage.ViewMinStatic(tv)
		admissibleMax := c.Rhs - (minLhs - termMin)
		changed, err := p.tighten(tv, admissibleMax)
		if err != nil {
			return err
		}
		if changed {
			p.requeueWatchers(t.View.V)
		}
	}
	return nil
}

// tighten narrows the admissible max of term-view tv (a*v, c folded in by
// the caller) to admissibleMax, via floor division. Tightens v's upper
// bound if a>0, lower bound if a<0.
func (p *LinearPropagator) tighten(tv View, admissibleMax int64) (bool, error) {
	if tv.A == 0 {
		return false, nil
	}
	bound := floorDiv(admissibleMax, int64(tv.A))
	dom := p.storage.Domain(tv.V)
	before := dom.Size()
	var ok bool
	if tv.A > 0 {
		if int64(bound) < int64(dom.Upper()) {
			ok = dom.IntersectRange(DomainMin, clampInt32(bound))
		} else {
			return false, nil
		}
	} else {
		// a<0: admissibleMax bounds a*v from above, i.e. v from below
		// (division by a negative flips the inequality direction).
		lowerBound := ceilDiv(admissibleMax, int64(tv.A))
		if int64(lowerBound) > int64(dom.Lower()) {
			ok = dom.IntersectRange(clampInt32(lowerBound), DomainMax)
		} else {
			return false, nil
		}
	}
	if !ok {
		return false, ErrEmptyDomain
	}
	if err := p.storage.NarrowDomain(tv.V, dom); err != nil {
		return false, err
	}
	return dom.Size() != before, nil
}

func clampInt32(v int64) int32 {
	if v < int64(DomainMin) {
		return DomainMin
	}
	if v > int64(DomainMax) {
		return DomainMax
	}
	return int32(v)
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}

// minMax computes the constraint's current [minLhs,maxLhs] directly
// against VariableStorage's (pre-search, not-yet-volatile) domains.
func (p *LinearPropagator) minMax(c LinearConstraint) (min, max int64) {
	for _, t := range c.Terms {
		tv := View{V: t.View.V, A: t.Coeff}
		min += p.storage.ViewMinStatic(tv)
		max += p.storage.ViewMaxStatic(tv)
	}
	return min, max
}

// ViewMinStatic/ViewMaxStatic read a view's bounds directly off
// VariableStorage, for use before any VolatileVariableStorage overlay
// exists (i.e. during normalization).
func (s *VariableStorage) ViewMinStatic(vw View) int64 {
	d := s.Domain(vw.V)
	if vw.A >= 0 {
		return int64(vw.A)*int64(d.Lower()) + int64(vw.C)
	}
	return int64(vw.A)*int64(d.Upper()) + int64(vw.C)
}

// ViewMaxStatic is the static-domain analogue of ViewMinStatic.
func (s *VariableStorage) ViewMaxStatic(vw View) int64 {
	d := s.Domain(vw.V)
	if vw.A >= 0 {
		return int64(vw.A)*int64(d.Upper()) + int64(vw.C)
	}
	return int64(vw.A)*int64(d.Lower()) + int64(vw.C)
}
