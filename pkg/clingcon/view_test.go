package clingcon

import "testing"

func TestViewEval(t *testing.T) {
	v := View{V: 0, A: 2, C: 3}
	if got := v.Eval(5); got != 13 {
		t.Errorf("Eval(5) = %d, want 13", got)
	}
}

func TestViewPlusAndTimes(t *testing.T) {
	v := IdentityView(0)
	v2 := v.Times(3).Plus(1)
	if v2.A != 3 || v2.C != 1 {
		t.Errorf("got A=%d C=%d, want A=3 C=1", v2.A, v2.C)
	}
}

func TestViewReversed(t *testing.T) {
	if !(View{A: -1}).Reversed() {
		t.Error("expected negative coefficient view to report Reversed")
	}
	if (View{A: 1}).Reversed() {
		t.Error("expected positive coefficient view to report not Reversed")
	}
}

func TestViewMinMax(t *testing.T) {
	vc := NewVariableCreator()
	v := vc.CreateVariable(NewDomainRange(1, 10))
	st := vc.Storage()

	pos := View{V: v, A: 2, C: 1}
	if pos.Min(st) != 3 || pos.Max(st) != 21 {
		t.Errorf("positive-coeff bounds = [%d,%d], want [3,21]", pos.Min(st), pos.Max(st))
	}

	neg := View{V: v, A: -2, C: 1}
	if neg.Min(st) != -19 || neg.Max(st) != -1 {
		t.Errorf("negative-coeff bounds = [%d,%d], want [-19,-1]", neg.Min(st), neg.Max(st))
	}
}
