package clingcon

import "testing"

func newFrozenVariable(dom *Domain) (*VariableCreator, Variable) {
	vc := NewVariableCreator()
	v := vc.CreateVariable(dom)
	vc.Storage().Freeze()
	return vc, v
}

func TestVolatileVariableStorageInitialBounds(t *testing.T) {
	vc, v := newFrozenVariable(NewDomainRange(1, 10))
	vs := NewVolatileVariableStorage(vc.Storage())

	if vs.Lower(v) != 1 || vs.Upper(v) != 10 {
		t.Errorf("bounds = [%d,%d], want [1,10]", vs.Lower(v), vs.Upper(v))
	}
	if vs.Empty(v) {
		t.Error("expected a fresh overlay not to be empty")
	}
}

func TestVolatileVariableStorageConstrainAndUndo(t *testing.T) {
	vc, v := newFrozenVariable(NewDomainRange(1, 10))
	vs := NewVolatileVariableStorage(vc.Storage())

	vs.AddLevel()
	it := vc.Storage().Domain(v).Iterator()
	it.Advance(4) // value 5
	if !vs.ConstrainUpperBound(v, it) {
		t.Fatal("expected constraining the upper bound to succeed")
	}
	if vs.Upper(v) != 5 {
		t.Errorf("Upper(v) = %d, want 5", vs.Upper(v))
	}

	vs.RemoveLevel()
	if vs.Upper(v) != 10 {
		t.Errorf("after undo, Upper(v) = %d, want 10", vs.Upper(v))
	}
}

func TestVolatileVariableStorageConstrainToEmpty(t *testing.T) {
	vc, v := newFrozenVariable(NewDomainRange(1, 10))
	vs := NewVolatileVariableStorage(vc.Storage())

	vs.AddLevel()
	loIt := vc.Storage().Domain(v).Iterator()
	loIt.Advance(8)
	vs.ConstrainLowerBound(v, loIt)

	hiIt := vc.Storage().Domain(v).Iterator()
	hiIt.Advance(2)
	if vs.ConstrainUpperBound(v, hiIt) {
		t.Error("expected an inconsistent [lower,upper] overlay to report empty")
	}
	if !vs.Empty(v) {
		t.Error("expected Empty(v) to report true")
	}
}

func TestVolatileVariableStorageViewMinMaxRespectsSign(t *testing.T) {
	vc, v := newFrozenVariable(NewDomainRange(1, 10))
	vs := NewVolatileVariableStorage(vc.Storage())

	pos := View{V: v, A: 1, C: 0}
	if vs.ViewMin(pos) != 1 || vs.ViewMax(pos) != 10 {
		t.Errorf("positive view bounds = [%d,%d], want [1,10]", vs.ViewMin(pos), vs.ViewMax(pos))
	}

	neg := View{V: v, A: -1, C: 0}
	if vs.ViewMin(neg) != -10 || vs.ViewMax(neg) != -1 {
		t.Errorf("negative view bounds = [%d,%d], want [-10,-1]", vs.ViewMin(neg), vs.ViewMax(neg))
	}
}

func TestVolatileVariableStorageNestedLevels(t *testing.T) {
	vc, v := newFrozenVariable(NewDomainRange(1, 10))
	vs := NewVolatileVariableStorage(vc.Storage())

	vs.AddLevel()
	it1 := vc.Storage().Domain(v).Iterator()
	it1.Advance(7)
	vs.ConstrainUpperBound(v, it1)

	vs.AddLevel()
	it2 := vc.Storage().Domain(v).Iterator()
	it2.Advance(3)
	vs.ConstrainUpperBound(v, it2)
	if vs.Upper(v) != 4 {
		t.Fatalf("Upper(v) = %d, want 4", vs.Upper(v))
	}

	vs.RemoveLevel() // undo the inner constraint only
	if vs.Upper(v) != 8 {
		t.Errorf("after one undo, Upper(v) = %d, want 8", vs.Upper(v))
	}

	vs.RemoveLevel() // undo the outer constraint
	if vs.Upper(v) != 10 {
		t.Errorf("after both undos, Upper(v) = %d, want 10", vs.Upper(v))
	}
}
