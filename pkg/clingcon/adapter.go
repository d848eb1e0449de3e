package clingcon

// ClingconPropagator is the host-facing propagator contract:
// init/propagate/check/undo, run once per search thread, never
// suspending mid-call. It bridges the host's literal-assignment trail to
// a single thread's LinearLiteralPropagator and VolatileVariableStorage.
type ClingconPropagator struct {
	base     *VariableStorage
	vs       *VolatileVariableStorage
	host     Host
	lits     *LinearLiteralPropagator
	watchLit map[Lit][]Variable // order literal -> CSP variables it bears on
	level    int
	mon      *Monitor
}

// NewClingconPropagator wires a fresh per-thread propagator instance over
// base's frozen shared state. mon may be nil; every Monitor method is a
// documented no-op on a nil receiver.
func NewClingconPropagator(base *VariableStorage, host Host, constraints []ReifiedLinear, cfg Config, mon *Monitor) *ClingconPropagator {
	vs := NewVolatileVariableStorage(base)
	return &ClingconPropagator{
		base:     base,
		vs:       vs,
		host:     host,
		lits:     NewLinearLiteralPropagator(vs, host, constraints, cfg),
		watchLit: make(map[Lit][]Variable),
		mon:      mon,
	}
}

// Init walks every variable's order-literal table and registers the
// Boolean-variable -> CSP-variable association the host needs to route
// assignment notifications back into Propagate.
func (p *ClingconPropagator) Init(numVars int) {
	for v := 0; v < numVars; v++ {
		cv := Variable(v)
		for _, lit := range p.base.LELiterals(cv) {
			p.watchLit[lit] = append(p.watchLit[lit], cv)
			p.watchLit[p.host.Not(lit)] = append(p.watchLit[p.host.Not(lit)], cv)
		}
		for _, lit := range p.base.EqLiterals(cv) {
			p.watchLit[lit] = append(p.watchLit[lit], cv)
			p.watchLit[p.host.Not(lit)] = append(p.watchLit[p.host.Not(lit)], cv)
		}
	}
}

// Propagate reacts to a batch of newly-assigned literals: for each one
// that bears order-literal meaning, it notifies the LinearLiteralPropagator
// of the affected CSP variables' reification state, then drives
// propagation to a local fixpoint. It returns a *Conflict (never a
// generic error) so the caller can hand the reason straight to the host.
func (p *ClingconPropagator) Propagate(changes []Lit) error {
	p.mon.StartPropagation()
	defer p.mon.EndPropagation()
	for _, lit := range changes {
		p.lits.OnLiteralAssigned(lit)
		for _, v := range p.watchLit[lit] {
			p.lits.OnBoundChange(v)
		}
	}
	err := p.lits.Propagate()
	if _, ok := err.(*Conflict); ok {
		p.mon.RecordConflict()
	}
	return err
}

// Check is invoked by the host on a full assignment. It tests each given
// constraint whose literal is true against the propagator's current
// bounds: a minimum above rhs (or, for EQ, a maximum below rhs) yields a
// *Conflict built the same way Propagate's would. It does not check that
// every CSP variable is pinned (lower == upper).
func (p *ClingconPropagator) Check(constraints []ReifiedLinear) error {
	for _, rc := range constraints {
		if !p.host.IsTrue(rc.Lit) {
			continue
		}
		min, max := rc.Constraint.MinMax(p.vs)
		if min > rc.Constraint.Rhs || max < rc.Constraint.Rhs && rc.Constraint.Relation == EQ {
			p.mon.RecordConflict()
			return &Conflict{Reason: p.lits.reasonForViolation(rc.Constraint)}
		}
	}
	return nil
}

// Undo retracts one decision level, mirroring VolatileVariableStorage's
// RemoveLevel by popping VariableStorage entries for the level being
// retracted.
func (p *ClingconPropagator) Undo() {
	p.vs.RemoveLevel()
	p.level--
	p.mon.RecordUndo()
}

// AddLevel is called by the host when search descends one decision
// level, keeping the per-thread undo stack aligned with the trail.
func (p *ClingconPropagator) AddLevel() {
	p.vs.AddLevel()
	p.level++
	p.mon.RecordLevel()
}

// Storage exposes the thread's volatile overlay, e.g. for a Monitor to
// report current bounds.
func (p *ClingconPropagator) Storage() *VolatileVariableStorage { return p.vs }
