package clingcon

import "testing"

func TestDomainRangeBasics(t *testing.T) {
	d := NewDomainRange(1, 5)
	if d.Empty() {
		t.Fatal("expected non-empty domain")
	}
	if d.Size() != 5 {
		t.Errorf("Size() = %d, want 5", d.Size())
	}
	if d.Lower() != 1 || d.Upper() != 5 {
		t.Errorf("bounds = [%d,%d], want [1,5]", d.Lower(), d.Upper())
	}
	for _, v := range []int32{1, 3, 5} {
		if !d.In(v) {
			t.Errorf("expected %d in domain", v)
		}
	}
	for _, v := range []int32{0, 6} {
		if d.In(v) {
			t.Errorf("expected %d not in domain", v)
		}
	}
}

func TestDomainEmptyLoGtHi(t *testing.T) {
	d := NewDomainRange(5, 1)
	if !d.Empty() {
		t.Fatal("expected lo>hi to build an empty domain")
	}
	if d.Lower() != DomainMax+1 || d.Upper() != DomainMin-1 {
		t.Errorf("empty-domain sentinel bounds wrong: [%d,%d]", d.Lower(), d.Upper())
	}
}

func TestNewDomainValuesCoalesces(t *testing.T) {
	d := NewDomainValues(5, 1, 2, 3, 9, 7)
	if got, want := d.String(), "{1..3, 5, 7, 9}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if d.Size() != 6 {
		t.Errorf("Size() = %d, want 6", d.Size())
	}
}

func TestDomainIntersect(t *testing.T) {
	d := NewDomainRange(1, 10)
	ok := d.Intersect(NewDomainRange(5, 15))
	if !ok {
		t.Fatal("expected non-empty intersection")
	}
	if d.Lower() != 5 || d.Upper() != 10 {
		t.Errorf("bounds = [%d,%d], want [5,10]", d.Lower(), d.Upper())
	}

	empty := NewDomainRange(1, 10)
	if empty.Intersect(NewDomainRange(20, 30)) {
		t.Error("expected disjoint ranges to intersect empty")
	}
	if !empty.Empty() {
		t.Error("expected domain to become empty")
	}
}

func TestDomainRemoveSplitsRange(t *testing.T) {
	d := NewDomainRange(1, 10)
	if !d.Remove(5) {
		t.Fatal("expected non-empty result")
	}
	if d.In(5) {
		t.Error("5 should have been removed")
	}
	if d.String() != "{1..4, 6..10}" {
		t.Errorf("String() = %q, want {1..4, 6..10}", d.String())
	}
}

func TestDomainUnify(t *testing.T) {
	d := NewDomainRange(1, 3)
	d.Unify(5, 7)
	if d.String() != "{1..3, 5..7}" {
		t.Errorf("String() = %q", d.String())
	}
	d.Unify(4, 4)
	if d.String() != "{1..7}" {
		t.Errorf("expected touching ranges to coalesce, got %q", d.String())
	}
}

func TestDomainAddDomain(t *testing.T) {
	a := NewDomainRange(1, 2)
	b := NewDomainRange(10, 20)
	if !a.AddDomain(b) {
		t.Fatal("expected non-empty sum")
	}
	if a.Lower() != 11 || a.Upper() != 22 {
		t.Errorf("bounds = [%d,%d], want [11,22]", a.Lower(), a.Upper())
	}
}

func TestDomainAddDomainOverflow(t *testing.T) {
	a := NewDomainRange(DomainMax-1, DomainMax)
	b := NewDomainRange(DomainMax-1, DomainMax)
	a.AddDomain(b)
	if !a.Overflow() {
		t.Error("expected overflow to be flagged rather than silently clamped")
	}
}

func TestDomainNegate(t *testing.T) {
	d := NewDomainValues(1, 2, 5)
	n := d.Negate()
	if n.String() != "{-5, -2..-1}" {
		t.Errorf("Negate() = %q, want {-5, -2..-1}", n.String())
	}
}

func TestDomainInplaceTimes(t *testing.T) {
	d := NewDomainRange(1, 3)
	if !d.InplaceTimes(2, 1_000_000) {
		t.Fatal("expected non-empty result")
	}
	if d.String() != "{2, 4, 6}" {
		t.Errorf("String() = %q, want {2, 4, 6}", d.String())
	}
}

func TestDomainInplaceTimesOverApproximates(t *testing.T) {
	d := NewDomainRange(1, 3)  // one range; exact result would be {2, 4, 6}
	if !d.InplaceTimes(2, 1) { // cardinality budget forces the endpoint-only path
		t.Fatal("expected non-empty result")
	}
	if !d.In(3) {
		t.Error("over-approximation should keep the whole [2,6] range, including the non-multiple 3")
	}
}

func TestDomainIteratorAdvanceAcrossRanges(t *testing.T) {
	d := NewDomainValues(1, 2, 3, 10, 11)
	it := d.Iterator()
	it.Advance(3)
	if it.Value() != 10 {
		t.Errorf("Value() = %d, want 10", it.Value())
	}
	if it.NumElement() != 3 {
		t.Errorf("NumElement() = %d, want 3", it.NumElement())
	}
	it.Advance(1)
	if it.Value() != 11 {
		t.Errorf("Value() = %d, want 11", it.Value())
	}
}

func TestDomainClone(t *testing.T) {
	d := NewDomainRange(1, 5)
	c := d.Clone()
	c.Remove(3)
	if !d.In(3) {
		t.Error("mutating the clone should not affect the original")
	}
}

func TestDomainInDomain(t *testing.T) {
	d := NewDomainRange(1, 10)
	if !d.InDomain(NewDomainValues(2, 5, 9)) {
		t.Error("expected subset to report true")
	}
	if d.InDomain(NewDomainValues(2, 20)) {
		t.Error("expected non-subset to report false")
	}
}
