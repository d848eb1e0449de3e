package clingcon

import "testing"

func TestClingconPropagatorInitRegistersWatchers(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(1, 3))
	vc.Storage().Freeze()
	host := solvedGiniHost(16)

	// Materialize a le-literal so Init has something to register.
	it := vc.Storage().Domain(a).Iterator()
	lit, err := vc.Storage().GetLELiteral(host, a, it, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := NewClingconPropagator(vc.Storage(), host, nil, DefaultConfig(), nil)
	p.Init(vc.Storage().NumVariables())

	if len(p.watchLit[lit]) != 1 || p.watchLit[lit][0] != a {
		t.Errorf("watchLit[%v] = %v, want [%d]", lit, p.watchLit[lit], a)
	}
}

func TestClingconPropagatorCheckDetectsViolation(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(10, 20))
	vc.Storage().Freeze()
	host := solvedGiniHost(16)
	mon := NewMonitor()

	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)})
	rc := ReifiedLinear{Constraint: c, Lit: host.TrueLit(), Dir: FWD}

	p := NewClingconPropagator(vc.Storage(), host, nil, DefaultConfig(), mon)
	err := p.Check([]ReifiedLinear{rc})
	if _, ok := err.(*Conflict); !ok {
		t.Fatalf("got err %v (%T), want *Conflict", err, err)
	}
	if mon.Stats().Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", mon.Stats().Conflicts)
	}
}

func TestClingconPropagatorCheckPassesSatisfiedConstraint(t *testing.T) {
	vc := NewVariableCreator()
	a := vc.CreateVariable(NewDomainRange(1, 3))
	vc.Storage().Freeze()
	host := solvedGiniHost(16)

	c := NewLinearConstraint(LE, 5, Term{Coeff: 1, View: IdentityView(a)})
	rc := ReifiedLinear{Constraint: c, Lit: host.TrueLit(), Dir: FWD}

	p := NewClingconPropagator(vc.Storage(), host, nil, DefaultConfig(), nil)
	if err := p.Check([]ReifiedLinear{rc}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClingconPropagatorAddLevelAndUndoTrackLevel(t *testing.T) {
	vc := NewVariableCreator()
	vc.CreateVariable(NewDomainRange(1, 3))
	vc.Storage().Freeze()
	host := solvedGiniHost(16)
	mon := NewMonitor()

	p := NewClingconPropagator(vc.Storage(), host, nil, DefaultConfig(), mon)
	p.AddLevel()
	p.AddLevel()
	p.Undo()

	if p.level != 1 {
		t.Errorf("level = %d, want 1", p.level)
	}
	if mon.Stats().DecisionLevels != 2 || mon.Stats().Undos != 1 {
		t.Errorf("got DecisionLevels=%d Undos=%d, want 2/1", mon.Stats().DecisionLevels, mon.Stats().Undos)
	}
}
