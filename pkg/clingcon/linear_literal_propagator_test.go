package clingcon

import "testing"

func TestLinearLiteralPropagatorPropagatesBoundFromTrueLit(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(1, 10))
	b := vc.CreateVariable(NewDomainRange(1, 10))
	vc.Storage().Freeze()
	host := solvedGiniHost(8)
	vs := NewVolatileVariableStorage(vc.Storage())

	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)}, Term{Coeff: 1, View: IdentityView(b)})
	rc := ReifiedLinear{Constraint: c, Lit: host.TrueLit(), Dir: FWD}

	p := NewLinearLiteralPropagator(vs, host, []ReifiedLinear{rc}, DefaultConfig())
	if err := p.Propagate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vs.Upper(a); got != 4 {
		t.Errorf("a's upper bound = %d, want 4", got)
	}
	if got := vs.Upper(b); got != 4 {
		t.Errorf("b's upper bound = %d, want 4", got)
	}
}

func TestLinearLiteralPropagatorConflictOnViolation(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(10, 20))
	vc.Storage().Freeze()
	host := solvedGiniHost(8)
	vs := NewVolatileVariableStorage(vc.Storage())

	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)})
	rc := ReifiedLinear{Constraint: c, Lit: host.TrueLit(), Dir: FWD}

	p := NewLinearLiteralPropagator(vs, host, []ReifiedLinear{rc}, DefaultConfig())
	err := p.Propagate()
	if _, ok := err.(*Conflict); !ok {
		t.Fatalf("got err %v (%T), want *Conflict", err, err)
	}
}

func TestLinearLiteralPropagatorOnBoundChangeRequeuesWatchers(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(1, 10))
	b := vc.CreateVariable(NewDomainRange(1, 10))
	vc.Storage().Freeze()
	host := solvedGiniHost(8)
	vs := NewVolatileVariableStorage(vc.Storage())

	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)}, Term{Coeff: 1, View: IdentityView(b)})
	rc := ReifiedLinear{Constraint: c, Lit: host.TrueLit(), Dir: FWD}

	p := NewLinearLiteralPropagator(vs, host, []ReifiedLinear{rc}, DefaultConfig())
	if err := p.Propagate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vs.AddLevel()
	it := vc.Storage().Domain(a).Iterator()
	it.Advance(0) // value 1: force a down to exactly 1
	vs.ConstrainUpperBound(a, it)
	p.OnBoundChange(a)

	if err := p.Propagate(); err != nil {
		t.Fatalf("unexpected error after bound change: %v", err)
	}
	if got := vs.Upper(b); got != 4 {
		t.Errorf("b's upper bound after tightening a = %d, want 4", got)
	}
}

func TestLinearLiteralPropagatorOnLiteralAssignedTransitionsState(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(1, 10))
	vc.Storage().Freeze()
	host := solvedGiniHost(8)
	vs := NewVolatileVariableStorage(vc.Storage())

	guard := host.CreateLiteral(true)
	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)})
	rc := ReifiedLinear{Constraint: c, Lit: guard, Dir: FWD | BACK}

	p := NewLinearLiteralPropagator(vs, host, []ReifiedLinear{rc}, DefaultConfig())
	p.OnLiteralAssigned(guard)
	if p.state[0] != stTrue {
		t.Errorf("state = %v, want stTrue after guard assigned true", p.state[0])
	}

	p2 := NewLinearLiteralPropagator(vs, host, []ReifiedLinear{rc}, DefaultConfig())
	p2.OnLiteralAssigned(host.Not(guard))
	if p2.state[0] != stFalse {
		t.Errorf("state = %v, want stFalse after guard's negation assigned true", p2.state[0])
	}
}
