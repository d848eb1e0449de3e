package clingcon

// Variable is an index into a VariableStorage's variable table.
type Variable int

// View is a compact affine re-expression a*v + c of a Variable v.
// Reversed() holds when a < 0.
type View struct {
	V Variable
	A int32
	C int32
}

// IdentityView returns the view v itself (a=1, c=0).
func IdentityView(v Variable) View { return View{V: v, A: 1, C: 0} }

// Reversed reports whether the view's coefficient is negative.
func (vw View) Reversed() bool { return vw.A < 0 }

// Times returns a new view scaled by n: composes coefficients.
func (vw View) Times(n int32) View {
	return View{V: vw.V, A: vw.A * n, C: vw.C * n}
}

// Plus returns a new view with c shifted by n.
func (vw View) Plus(n int32) View {
	return View{V: vw.V, A: vw.A, C: vw.C + n}
}

// Eval maps a value x from the underlying variable's domain to a*x+c.
func (vw View) Eval(x int32) int64 {
	return int64(vw.A)*int64(x) + int64(vw.C)
}

// Domain returns the view's current wide domain, a*dom(v)+c, read through
// storage st.
func (vw View) Domain(st *VariableStorage) *WideDomain {
	return FromDomain(st.Domain(vw.V)).Affine(int64(vw.A), int64(vw.C))
}

// Min returns the view's minimum value under the given underlying domain.
func (vw View) Min(st *VariableStorage) int64 {
	d := st.Domain(vw.V)
	if vw.A >= 0 {
		return int64(vw.A)*int64(d.Lower()) + int64(vw.C)
	}
	return int64(vw.A)*int64(d.Upper()) + int64(vw.C)
}

// Max returns the view's maximum value under the given underlying domain.
func (vw View) Max(st *VariableStorage) int64 {
	d := st.Domain(vw.V)
	if vw.A >= 0 {
		return int64(vw.A)*int64(d.Upper()) + int64(vw.C)
	}
	return int64(vw.A)*int64(d.Lower()) + int64(vw.C)
}

// Per-thread active-bound tracking (the position range a search thread has
// narrowed a view down to, as distinct from its frozen base domain) is
// VolatileVariableStorage's activeRange, not a position-iterator type here:
// activeRange stores [lower,upper] positions directly and needs no
// reverse-traversal bookkeeping, since ViewMin/ViewMax already branch on
// vw.A's sign when mapping a position to a value.
