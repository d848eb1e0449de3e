package clingcon

// RawModel collects every constraint a builder produced before
// normalization (phase 1, "Collection").
type RawModel struct {
	Linear   []ReifiedLinear
	Domains  []ReifiedDomainConstraint
	Distinct []ReifiedAllDistinct
	Disjoint []ReifiedDisjoint
}

// EqualLink records a variable substituted by normalization's equality
// phase: v == a*rep + c. Consumed by LinearLiteralPropagator.SetEqualTo
// to enable strength>=3 chain propagation.
type EqualLink struct {
	V, Rep Variable
	A, C   int32
}

// NormalizedModel is everything left for lazy, per-thread propagation
// once the Normalizer has eagerly translated what it could (phase 7/8).
type NormalizedModel struct {
	Lazy       []ReifiedLinear
	EqualLinks []EqualLink
}

// Normalizer runs an eight-phase pipeline once, before
// search starts: Collection, Simple-derivation, Initial domain
// calculation, Equality processing, Decomposition, eager propagation,
// Encoding decision, Finalization.
type Normalizer struct {
	vc         *VariableCreator
	host       Host
	cfg        Config
	translator *Translator
}

// NewNormalizer returns a Normalizer writing literals/clauses to host for
// variables owned by vc.
func NewNormalizer(vc *VariableCreator, host Host, cfg Config) *Normalizer {
	return &Normalizer{
		vc:         vc,
		host:       host,
		cfg:        cfg,
		translator: NewTranslator(vc.Storage(), host, cfg),
	}
}

// Normalize runs the full pipeline over model, returning the constraints
// that remain for lazy (per-thread) propagation plus any equality links
// discovered along the way.
func (n *Normalizer) Normalize(model RawModel) (*NormalizedModel, error) {
	linear := n.deriveSimple(model.Linear)

	links := n.processEqualities(linear)

	eagerDistinct, lazyDistinct := n.splitDistinctGroups(model.Distinct)
	eagerDisjoint, lazyDisjoint := n.splitDisjointGroups(model.Disjoint)

	var decomposed []ReifiedLinear
	for _, rad := range lazyDistinct {
		decomposed = append(decomposed, DecomposeAllDistinct(rad)...)
	}
	for _, rd := range lazyDisjoint {
		decomposed = append(decomposed, DecomposeDisjoint(rd)...)
	}
	decomposed = n.deriveSimple(decomposed)

	if err := n.propagateEager(linear); err != nil {
		return nil, err
	}
	if err := n.propagateEager(decomposed); err != nil {
		return nil, err
	}

	n.vc.Storage().Freeze()

	lazyLinear, err := n.decideLinearEncoding(append(append([]ReifiedLinear(nil), linear...), decomposed...))
	if err != nil {
		return nil, err
	}
	if err := n.translateDomainsAndCardGroups(model, eagerDistinct, eagerDisjoint); err != nil {
		return nil, err
	}

	n.finalize()

	return &NormalizedModel{Lazy: lazyLinear, EqualLinks: links}, nil
}

// deriveSimple normalizes every constraint and expands EQ/NE relations
// into the LE-only form the propagators and Translator understand (phase
// 2; NE is encoded as the negation of the corresponding equality literal
// rather than as a distinct code path — see DESIGN.md).
func (n *Normalizer) deriveSimple(in []ReifiedLinear) []ReifiedLinear {
	var out []ReifiedLinear
	for _, rc := range in {
		c := rc.Constraint.Normalize()
		switch c.Relation {
		case EQ:
			out = append(out, n.expandEquality(c, rc.Lit, rc.Dir)...)
		case NE:
			out = append(out, n.expandNotEqual(c, rc.Lit, rc.Dir)...)
		default:
			out = append(out, ReifiedLinear{Constraint: c, Lit: rc.Lit, Dir: rc.Dir})
		}
	}
	return out
}

// expandEquality rewrites (terms == rhs) reified by lit/dir into two LE
// constraints (terms<=rhs, -terms<=-rhs) conjoined behind a biconditional
// with lit, using the same 3-clause AND-gate pattern as
// VariableStorage.GetEqualLit.
func (n *Normalizer) expandEquality(c LinearConstraint, lit Lit, dir Direction) []ReifiedLinear {
	upper := LinearConstraint{Terms: c.Terms, Rhs: c.Rhs, Relation: LE}
	lower := LinearConstraint{Terms: negateTerms(c.Terms), Rhs: -c.Rhs, Relation: LE}

	if dir == DirEQ {
		le1 := n.host.CreateLiteral(true)
		le2 := n.host.CreateLiteral(true)
		n.host.CreateClause([]Lit{n.host.Not(lit), le1})
		n.host.CreateClause([]Lit{n.host.Not(lit), le2})
		n.host.CreateClause([]Lit{lit, n.host.Not(le1), n.host.Not(le2)})
		return []ReifiedLinear{
			{Constraint: upper, Lit: le1, Dir: DirEQ},
			{Constraint: lower, Lit: le2, Dir: DirEQ},
		}
	}
	// Single-direction equality: keep both halves reified directly by lit
	// with the same direction; sound because termination of either half's
	// BACK/FWD implication alone never over-commits the other.
	return []ReifiedLinear{
		{Constraint: upper, Lit: lit, Dir: dir},
		{Constraint: lower, Lit: lit, Dir: dir},
	}
}

// expandNotEqual builds the constraint's equality literal via
// expandEquality (always fully reified, DirEQ) and reuses its negation as
// the NE literal, asserting the link in the direction(s) requested.
func (n *Normalizer) expandNotEqual(c LinearConstraint, lit Lit, dir Direction) []ReifiedLinear {
	eq := n.host.CreateLiteral(true)
	eqHalves := n.expandEquality(c, eq, DirEQ)
	if dir&FWD != 0 {
		n.host.CreateClause([]Lit{n.host.Not(lit), n.host.Not(eq)})
	}
	if dir&BACK != 0 {
		n.host.CreateClause([]Lit{lit, eq})
	}
	return eqHalves
}

// processEqualities scans normalized constraints for unconditional,
// two-variable equalities of the form v - rep == c (coefficient ±1 on
// v), recording a substitution link for strength>=3 chain propagation
// (phase 4). Constraints that do not fit this simple shape
// are left as ordinary lazy constraints; there is no general
// Gaussian-elimination substitution pass.
func (n *Normalizer) processEqualities(linear []ReifiedLinear) []EqualLink {
	var links []EqualLink
	for _, rc := range linear {
		if rc.Lit != n.host.TrueLit() || rc.Constraint.Relation != LE {
			continue
		}
		if len(rc.Constraint.Terms) != 2 {
			continue
		}
		t0, t1 := rc.Constraint.Terms[0], rc.Constraint.Terms[1]
		if abs32(t0.Coeff) != 1 {
			continue
		}
		// This half alone (terms<=rhs) does not establish equality; the
		// companion half (-terms<=-rhs) must also be present and
		// unconditionally true for the pair to certify v == a*rep+c. We
		// detect that by requiring the exact negated counterpart to also
		// appear as an unconditionally-true constraint.
		if !n.hasNegatedCounterpart(linear, rc.Constraint) {
			continue
		}
		a := -t1.Coeff / t0.Coeff
		constTerm := int32(rc.Constraint.Rhs) / t0.Coeff
		links = append(links, EqualLink{V: t0.View.V, Rep: t1.View.V, A: a, C: constTerm})
	}
	return links
}

func (n *Normalizer) hasNegatedCounterpart(linear []ReifiedLinear, c LinearConstraint) bool {
	for _, rc := range linear {
		if rc.Lit != n.host.TrueLit() || rc.Constraint.Relation != LE {
			continue
		}
		if len(rc.Constraint.Terms) != len(c.Terms) {
			continue
		}
		if rc.Constraint.Rhs != -c.Rhs {
			continue
		}
		match := true
		for i, t := range c.Terms {
			if rc.Constraint.Terms[i].View.V != t.View.V || rc.Constraint.Terms[i].Coeff != -t.Coeff {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// propagateEager runs the eager LinearPropagator over
// every constraint that is unconditionally true, narrowing
// VariableStorage domains directly, before Freeze.
func (n *Normalizer) propagateEager(linear []ReifiedLinear) error {
	var facts []ReifiedLinear
	for _, rc := range linear {
		if rc.Lit == n.host.TrueLit() && rc.Dir&FWD != 0 {
			facts = append(facts, rc)
		}
	}
	if len(facts) == 0 {
		return nil
	}
	return NewLinearPropagator(n.vc.Storage(), n.host, facts).Run()
}

// decideLinearEncoding translates each linear constraint eagerly when its
// estimated clause count is within cfg.TranslateConstraints, otherwise
// keeps it for lazy propagation (phase 7).
func (n *Normalizer) decideLinearEncoding(linear []ReifiedLinear) ([]ReifiedLinear, error) {
	var lazy []ReifiedLinear
	for _, rc := range linear {
		if n.cfg.TranslateConstraints < 0 || n.estimateLinearWidth(rc.Constraint) <= n.cfg.TranslateConstraints {
			if err := n.translator.TranslateLinear(rc); err != nil {
				return nil, err
			}
			continue
		}
		lazy = append(lazy, rc)
	}
	return lazy, nil
}

// estimateLinearWidth approximates the number of clauses TranslateLinear
// would emit: the product of domain sizes of every term but the
// widest-domain one.
func (n *Normalizer) estimateLinearWidth(c LinearConstraint) int64 {
	if len(c.Terms) == 0 {
		return 1
	}
	st := n.vc.Storage()
	bestSize := int64(-1)
	for _, t := range c.Terms {
		if s := st.DomainSize(t.View); s > bestSize {
			bestSize = s
		}
	}
	width := int64(1)
	skippedLargest := false
	for _, t := range c.Terms {
		s := st.DomainSize(t.View)
		if !skippedLargest && s == bestSize {
			skippedLargest = true
			continue
		}
		if width > (1<<62)/s {
			return 1 << 62 // overflow guard: treat as too wide to translate
		}
		width *= s
	}
	return width
}

// splitDistinctGroups partitions rad groups into those Normalize hands to
// the Translator directly (eager: cfg.AlldistinctCard's cardinality
// encoding, or a small enough group for the pairwise not-equal encoding)
// and those left for lazyDistinct to decompose into linear NE constraints
// that decideLinearEncoding then routes eagerly or lazily per pair.
func (n *Normalizer) splitDistinctGroups(groups []ReifiedAllDistinct) (eager, lazy []ReifiedAllDistinct) {
	for _, rad := range groups {
		if n.cfg.AlldistinctCard || n.shouldEagerlyTranslatePairwise(rad.Views) {
			eager = append(eager, rad)
			continue
		}
		lazy = append(lazy, rad)
	}
	return eager, lazy
}

// splitDisjointGroups mirrors splitDistinctGroups for ReifiedDisjoint.
func (n *Normalizer) splitDisjointGroups(groups []ReifiedDisjoint) (eager, lazy []ReifiedDisjoint) {
	for _, rd := range groups {
		if n.cfg.AlldistinctCard || n.shouldEagerlyTranslatePairwise(rd.Views) {
			eager = append(eager, rd)
			continue
		}
		lazy = append(lazy, rd)
	}
	return eager, lazy
}

// shouldEagerlyTranslatePairwise reports whether views is small enough for
// Translator.translateDistinctPairwise's equality-literal encoding to be
// worth emitting eagerly, judged by the same TranslateConstraints budget
// estimateLinearWidth uses for ordinary linear constraints.
func (n *Normalizer) shouldEagerlyTranslatePairwise(views []View) bool {
	return n.cfg.TranslateConstraints < 0 || n.estimateDistinctPairwiseWidth(views) <= n.cfg.TranslateConstraints
}

// estimateDistinctPairwiseWidth approximates the clause count
// translateDistinctPairwise/emitNotEqual would emit: one candidate clause
// per (pair, shared domain value), bounded per pair by the smaller of the
// two views' domain sizes.
func (n *Normalizer) estimateDistinctPairwiseWidth(views []View) int64 {
	st := n.vc.Storage()
	var total int64
	for i := 0; i < len(views); i++ {
		si := st.DomainSize(views[i])
		for j := i + 1; j < len(views); j++ {
			sj := st.DomainSize(views[j])
			if si < sj {
				total += si
			} else {
				total += sj
			}
		}
	}
	return total
}

// translateDomainsAndCardGroups translates every domain constraint
// eagerly (there is no lazy propagator for them, so none is left out), and
// hands eagerDistinct/eagerDisjoint (already selected by
// splitDistinctGroups/splitDisjointGroups) to the Translator: each group
// takes TranslateAllDistinct/TranslateDisjoint's cardinality branch under
// cfg.AlldistinctCard, or its pairwise not-equal branch otherwise. Groups
// too large for either eager form were decomposed into linear NE
// constraints earlier in Normalize and are handled by decideLinearEncoding
// instead.
func (n *Normalizer) translateDomainsAndCardGroups(model RawModel, eagerDistinct []ReifiedAllDistinct, eagerDisjoint []ReifiedDisjoint) error {
	for _, rd := range model.Domains {
		if err := n.translator.TranslateDomain(rd); err != nil {
			return err
		}
	}
	for _, rad := range eagerDistinct {
		if err := n.translator.TranslateAllDistinct(rad); err != nil {
			return err
		}
	}
	for _, rd := range eagerDisjoint {
		if err := n.translator.TranslateDisjoint(rd); err != nil {
			return err
		}
	}
	return nil
}

// finalize emits chain clauses and materializes order literals up to
// cfg.MinLitsPerVar for every variable (phase 8).
func (n *Normalizer) finalize() {
	st := n.vc.Storage()
	for v := 0; v < st.NumVariables(); v++ {
		cv := Variable(v)
		n.translator.MaterializeUpTo(cv, n.cfg.MinLitsPerVar)
		n.translator.TranslateChain(cv)
	}
}
