package clingcon

// This core does not attempt Hall-interval / matching-based global
// consistency for all-distinct — only pairwise or cardinality filtering.
// Stronger global filtering is left as a future extension.

// DecomposeAllDistinct rewrites a ReifiedAllDistinct into a chain of
// pairwise reified "v_i != v_j" LinearConstraints sharing rad's
// reification literal and direction (phase 5, "Decomposition"). Used
// when the all-distinct constraint is kept for
// lazy propagation rather than eagerly translated.
func DecomposeAllDistinct(rad ReifiedAllDistinct) []ReifiedLinear {
	var out []ReifiedLinear
	n := len(rad.Views)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := LinearConstraint{
				Terms: []Term{
					{Coeff: 1, View: rad.Views[i]},
					{Coeff: -1, View: rad.Views[j]},
				},
				Rhs:      0,
				Relation: NE,
			}
			out = append(out, ReifiedLinear{Constraint: c, Lit: rad.Lit, Dir: rad.Dir})
		}
	}
	return out
}

// EstimateAllDistinctCardinalityWidth returns the number of values the
// union of the views' domains spans — the number of cardinality
// constraints a CardSort-style encoding would emit, one per value
// (the alldistinctCard mode).
func EstimateAllDistinctCardinalityWidth(views []View, st *VariableStorage) int64 {
	if len(views) == 0 {
		return 0
	}
	lo, hi := int64(DomainMax)+1, int64(DomainMin)-1
	for _, v := range views {
		d := st.ViewDomain(v)
		if d.Empty() {
			continue
		}
		if d.Lower() < lo {
			lo = d.Lower()
		}
		if d.Upper() > hi {
			hi = d.Upper()
		}
	}
	if lo > hi {
		return 0
	}
	return hi - lo + 1
}
