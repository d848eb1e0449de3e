package clingcon

// Builder is a thin fluent constructor standing in for a theory-atom
// parser. It performs no parsing, only construction: every method
// allocates a variable/view or appends a constraint straight onto a
// RawModel for the Normalizer's Collection phase.
type Builder struct {
	vc    *VariableCreator
	host  Host
	model RawModel
}

// NewBuilder returns an empty Builder allocating variables through vc and
// literals through host.
func NewBuilder(vc *VariableCreator, host Host) *Builder {
	return &Builder{vc: vc, host: host}
}

// NewVar allocates a fresh CSP variable ranging over dom and returns its
// identity view.
func (b *Builder) NewVar(dom *Domain) View {
	return b.vc.CreateView(dom)
}

// NewSum builds a reified linear constraint "Σ coeff_i*views_i <rel> rhs"
// guarded by lit/dir, appends it to the model, and returns it.
func (b *Builder) NewSum(lit Lit, dir Direction, rel Relation, rhs int64, terms ...Term) ReifiedLinear {
	rc := ReifiedLinear{Constraint: NewLinearConstraint(rel, rhs, terms...), Lit: lit, Dir: dir}
	b.model.Linear = append(b.model.Linear, rc)
	return rc
}

// NewFact is NewSum reified unconditionally true in both directions —
// the common case of a constraint that must simply hold.
func (b *Builder) NewFact(rel Relation, rhs int64, terms ...Term) ReifiedLinear {
	return b.NewSum(b.host.TrueLit(), DirEQ, rel, rhs, terms...)
}

// NewDomainConstraint builds a reified "view ∈ dom" constraint and
// appends it to the model.
func (b *Builder) NewDomainConstraint(lit Lit, dir Direction, view View, dom *Domain) ReifiedDomainConstraint {
	rc := ReifiedDomainConstraint{View: view, Dom: dom, Lit: lit, Dir: dir}
	b.model.Domains = append(b.model.Domains, rc)
	return rc
}

// NewDistinct builds a reified all-distinct constraint over views.
func (b *Builder) NewDistinct(lit Lit, dir Direction, views ...View) ReifiedAllDistinct {
	rc := ReifiedAllDistinct{Views: append([]View(nil), views...), Lit: lit, Dir: dir}
	b.model.Distinct = append(b.model.Distinct, rc)
	return rc
}

// NewDistinctFact is NewDistinct reified unconditionally true — the
// common case of an all-distinct constraint that must simply hold.
func (b *Builder) NewDistinctFact(views ...View) ReifiedAllDistinct {
	return b.NewDistinct(b.host.TrueLit(), DirEQ, views...)
}

// NewDisjoint builds a reified disjoint constraint over views.
func (b *Builder) NewDisjoint(lit Lit, dir Direction, views ...View) ReifiedDisjoint {
	rc := ReifiedDisjoint{Views: append([]View(nil), views...), Lit: lit, Dir: dir}
	b.model.Disjoint = append(b.model.Disjoint, rc)
	return rc
}

// NewDisjointFact is NewDisjoint reified unconditionally true.
func (b *Builder) NewDisjointFact(views ...View) ReifiedDisjoint {
	return b.NewDisjoint(b.host.TrueLit(), DirEQ, views...)
}

// Model returns the accumulated RawModel for the Normalizer.
func (b *Builder) Model() RawModel { return b.model }

// Minimize records weight*view as a term of the optimization objective at
// the given priority level, deferring to host.AddMinimize.
func (b *Builder) Minimize(view View, weight, level int) {
	vc := b.vc.Storage()
	it := vc.Domain(view.V).Iterator()
	for !it.AtEnd() {
		eq, _ := vc.GetEqualLit(b.host, view.V, it, true)
		b.host.AddMinimize(eq, weight*int(view.Eval(it.Value())), level)
		it.Advance(1)
	}
}

// Show marks view's variable literals as externally visible so the host
// never eliminates them before solving, the Builder-level analogue of a
// theory language's #show directive.
func (b *Builder) Show(view View) {
	vc := b.vc.Storage()
	it := vc.Domain(view.V).Iterator()
	for !it.AtEnd() {
		if lit, err := vc.GetLELiteral(b.host, view.V, it, true); err == nil {
			b.host.Freeze(lit)
		}
		it.Advance(1)
	}
}
