package clingcon

// conState is the per-constraint state machine tracked relative to the
// constraint's reification literal r.
type conState int

const (
	stUnknown conState = iota
	stTrue
	stFalse
)

// LinearLiteralPropagator is the lazy, per-thread, online counterpart to
// LinearPropagator. It operates on a single thread's
// VolatileVariableStorage overlay and, instead of mutating domains
// permanently, produces reasons (sets of order literals) that justify
// every literal it forces, so the host can learn a proper nogood.
type LinearLiteralPropagator struct {
	vs          *VolatileVariableStorage
	host        Host
	constraints []ReifiedLinear
	strength    int // 1..4
	dontcare    bool

	watchers map[Variable][]int
	queue    []int
	queued   []bool
	state    []conState

	// equalTo records, for strength >= 3, variables that normalization's
	// equality-processing phase substituted by a representative:
	// v == a*rep + c.
	equalTo map[Variable]affineLink
}

type affineLink struct {
	rep Variable
	a   int32
	c   int32
}

// NewLinearLiteralPropagator returns a propagator over vs for the given
// reified linear constraints.
func NewLinearLiteralPropagator(vs *VolatileVariableStorage, host Host, constraints []ReifiedLinear, cfg Config) *LinearLiteralPropagator {
	p := &LinearLiteralPropagator{
		vs:          vs,
		host:        host,
		constraints: constraints,
		strength:    cfg.PropStrength,
		dontcare:    cfg.Dontcare,
		watchers:    make(map[Variable][]int),
		queued:      make([]bool, len(constraints)),
		state:       make([]conState, len(constraints)),
		equalTo:     make(map[Variable]affineLink),
	}
	for i, rc := range constraints {
		for _, t := range rc.Constraint.Terms {
			p.watchers[t.View.V] = append(p.watchers[t.View.V], i)
		}
		p.enqueue(i)
	}
	return p
}

// SetEqualTo records that v was substituted by a*rep+c during equality
// processing, enabling strength>=3 chain propagation.
func (p *LinearLiteralPropagator) SetEqualTo(v, rep Variable, a, c int32) {
	p.equalTo[v] = affineLink{rep: rep, a: a, c: c}
}

func (p *LinearLiteralPropagator) enqueue(i int) {
	if !p.queued[i] {
		p.queued[i] = true
		p.queue = append(p.queue, i)
	}
}

func (p *LinearLiteralPropagator) requeueWatchers(v Variable) {
	for _, i := range p.watchers[v] {
		p.enqueue(i)
	}
	if link, ok := p.equalTo[v]; ok && p.strength >= 3 {
		p.requeueWatchers(link.rep)
	}
}

// OnLiteralAssigned is called by the adapter when a Boolean literal
// newly-assigned on the host's trail is a constraint's reification
// literal. It transitions that constraint's state machine.
func (p *LinearLiteralPropagator) OnLiteralAssigned(lit Lit) {
	for i, rc := range p.constraints {
		switch {
		case rc.Lit == lit:
			p.state[i] = stTrue
			p.enqueue(i)
		case rc.Lit == p.host.Not(lit):
			p.state[i] = stFalse
			if rc.Dir&BACK != 0 {
				p.enqueue(i)
			}
		}
	}
}

// OnBoundChange is called by the adapter after a view's active range
// narrows, so every watching constraint is re-examined.
func (p *LinearLiteralPropagator) OnBoundChange(v Variable) {
	p.requeueWatchers(v)
}

// Conflict is returned by Propagate when a constraint is found violated
// while its literal is fixed true (or vice-versa): the core's only
// empty-domain/violated-constraint failure path during search.
type Conflict struct {
	Reason []Lit
}

func (c *Conflict) Error() string { return "clingcon: propagation conflict" }

// Propagate drains the work queue to a local fixpoint, asserting any
// clauses it derives via host.CreateClause. It returns a *Conflict (not a
// generic error) when the current trail is inconsistent, so the adapter
// can hand the reason straight to the host.
func (p *LinearLiteralPropagator) Propagate() error {
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

func (p *LinearLiteralPropagator) propagateOne(i int) error {
	rc := p.constraints[i]
	c := rc.Constraint

	min, max := c.MinMax(p.vs)
	entailed := max <= c.Rhs
	violated := min > c.Rhs

	// Strength 1: literal-truth propagation from obviously-entailed or
	// obviously-violated states.
	if entailed && rc.Dir&BACK != 0 {
		if p.host.IsFalse(rc.Lit) {
			return &Conflict{Reason: p.reasonForEntailment(c)}
		}
		if p.host.IsUnknown(rc.Lit) {
			p.host.CreateClause(Reason(p.reasonForEntailment(c)).Clause(p.host, rc.Lit))
		}
		return nil
	}
	if violated && rc.Dir&FWD != 0 && !p.dontcare {
		if p.host.IsTrue(rc.Lit) {
			return &Conflict{Reason: p.reasonForViolation(c)}
		}
		if p.host.IsUnknown(rc.Lit) {
			notLit := p.host.Not(rc.Lit)
			p.host.CreateClause(Reason(p.reasonForViolation(c)).Clause(p.host, notLit))
		}
		return nil
	}

	if p.strength < 2 {
		return nil
	}
	if rc.Dir&FWD == 0 || !p.host.IsTrue(rc.Lit) {
		return nil
	}

	// Strength >= 2: propagate tightened bounds by forcing order
	// literals. Strengths 3 and 4 additionally chase equality-linked
	// variables through the same path (requeueWatchers); strength 4 adds
	// nothing beyond strength 3.
	for _, t := range c.Terms {
		tv := View{V: t.View.V, A: t.Coeff}
		otherMin := min - p.vs.ViewMin(tv)
		admissibleMax := c.Rhs - otherMin
		if err := p.tightenWithReason(tv, admissibleMax, c, t.View.V); err != nil {
			return err
		}
	}
	return nil
}

// tightenWithReason narrows tv's admissible max to admissibleMax by
// forcing the corresponding order literal, with a reason built from every
// other view's current witnessing literals.
func (p *LinearLiteralPropagator) tightenWithReason(tv View, admissibleMax int64, c LinearConstraint, v Variable) error {
	if tv.A == 0 {
		return nil
	}
	base := p.vs.Base().Domain(v)
	if tv.A > 0 {
		bound := floorDiv(admissibleMax, int64(tv.A))
		if int64(bound) >= int64(p.vs.Upper(v)) {
			return nil
		}
		it, ok := iteratorAtValue(base, clampInt32(bound))
		if !ok {
			return &Conflict{Reason: p.reasonFor(c, v)}
		}
		lit, err := p.vs.Base().GetLELiteral(p.host, v, it, true)
		if err != nil {
			return err
		}
		if p.host.IsFalse(lit) {
			return &Conflict{Reason: p.reasonFor(c, v)}
		}
		if p.host.IsUnknown(lit) {
			p.host.CreateClause(Reason(p.reasonFor(c, v)).Clause(p.host, lit))
		}
		if !p.vs.ConstrainUpperBound(v, it) {
			return &Conflict{Reason: p.reasonFor(c, v)}
		}
		p.requeueWatchers(v)
		return nil
	}
	lowerBound := clampInt32(ceilDiv(admissibleMax, int64(tv.A)))
	if int64(lowerBound) <= int64(p.vs.Lower(v)) {
		return nil
	}
	prevPos, ok := iteratorAtValue(base, lowerBound-1)
	if ok {
		lit, err := p.vs.Base().GetLELiteral(p.host, v, prevPos, true)
		if err != nil {
			return err
		}
		if p.host.IsTrue(lit) {
			return &Conflict{Reason: p.reasonFor(c, v)}
		}
		if p.host.IsUnknown(lit) {
			p.host.CreateClause(Reason(p.reasonFor(c, v)).Clause(p.host, p.host.Not(lit)))
		}
	}
	it, ok := iteratorAtValue(base, lowerBound)
	if !ok {
		return &Conflict{Reason: p.reasonFor(c, v)}
	}
	if !p.vs.ConstrainLowerBound(v, it) {
		return &Conflict{Reason: p.reasonFor(c, v)}
	}
	p.requeueWatchers(v)
	return nil
}

// reasonFor builds the witnessing-literal reason for tightening variable
// v in constraint c: the literal witnessing the current minimum of every
// other term, from which tightenWithReason's bound is computed.
func (p *LinearLiteralPropagator) reasonFor(c LinearConstraint, v Variable) []Lit {
	var reason []Lit
	for _, t := range c.Terms {
		if t.View.V == v {
			continue
		}
		reason = append(reason, p.witnessLit(View{V: t.View.V, A: -t.Coeff}))
	}
	return reason
}

// reasonForEntailment witnesses the current maximum of every term.
func (p *LinearLiteralPropagator) reasonForEntailment(c LinearConstraint) []Lit {
	var reason []Lit
	for _, t := range c.Terms {
		reason = append(reason, p.witnessLit(View{V: t.View.V, A: t.Coeff}))
	}
	return reason
}

// reasonForViolation witnesses the current minimum of every term.
func (p *LinearLiteralPropagator) reasonForViolation(c LinearConstraint) []Lit {
	var reason []Lit
	for _, t := range c.Terms {
		reason = append(reason, p.witnessLit(View{V: t.View.V, A: -t.Coeff}))
	}
	return reason
}

// witnessLit returns the order literal currently witnessing the maximum
// of a term whose coefficient has vw.A's sign (its upper le-literal if
// a>=0, the negation of its predecessor's le-literal if a<0); passing the
// negated coefficient witnesses the term's minimum instead.
func (p *LinearLiteralPropagator) witnessLit(vw View) Lit {
	base := p.vs.Base().Domain(vw.V)
	if vw.A >= 0 {
		it, ok := iteratorAtValue(base, p.vs.Upper(vw.V))
		if !ok {
			return p.host.TrueLit()
		}
		l, _ := p.vs.Base().GetLELiteral(p.host, vw.V, it, true)
		return l
	}
	it, ok := iteratorAtValue(base, p.vs.Lower(vw.V))
	if !ok || it.NumElement() == 0 {
		return p.host.TrueLit()
	}
	prev := base.Iterator()
	prev.Advance(it.NumElement() - 1)
	l, _ := p.vs.Base().GetLELiteral(p.host, vw.V, prev, true)
	return p.host.Not(l)
}
