package clingcon

// ReifiedDisjoint models non-overlap between a set of unit-length tasks
// placed at the given views (e.g. the N-Queens diagonal constraints
// q_i+i and q_i-i). Structurally this is identical to all-distinct over
// the same views; it is kept as its own type (rather than folded into
// ReifiedAllDistinct) purely so a caller's intent — "these are disjoint
// placements", not "these happen to be an all-distinct group" — survives
// as a separate type through normalization and translation
// (Translator.TranslateDisjoint).

// DecomposeDisjoint rewrites a ReifiedDisjoint the same way
// DecomposeAllDistinct does.
func DecomposeDisjoint(rd ReifiedDisjoint) []ReifiedLinear {
	return DecomposeAllDistinct(ReifiedAllDistinct{Views: rd.Views, Lit: rd.Lit, Dir: rd.Dir})
}
