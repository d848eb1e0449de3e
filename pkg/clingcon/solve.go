package clingcon

// Solve drives a single-threaded lazy-clause-generation loop to a
// solution: repeatedly ask the host for a model of the boolean
// abstraction built so far, verify it against every lazily-kept
// constraint via ClingconPropagator.Check, and block the model with a
// blocking clause when it fails, until a verified model is found or the
// abstraction becomes unsatisfiable.
//
// This driver exists only so the module has a runnable end-to-end path;
// the host engine's decision loop and its embedding of
// init/propagate/undo around individual decisions is left to the host. A
// full CDCL engine would call
// ClingconPropagator.Propagate incrementally after every decision instead
// of re-verifying a whole model at a time.
func Solve(vc *VariableCreator, host *GiniHost, model RawModel, cfg Config) (map[Variable]int32, error) {
	sol, _, err := SolveWithStats(vc, host, model, cfg)
	return sol, err
}

// SolveWithStats is Solve plus the PropagatorStats gathered along the
// way, for callers that want to report search effort.
func SolveWithStats(vc *VariableCreator, host *GiniHost, model RawModel, cfg Config) (map[Variable]int32, *PropagatorStats, error) {
	mon := NewMonitor()
	vc.Storage().SetMonitor(mon)
	defer mon.Finish()

	norm := NewNormalizer(vc, host, cfg)
	nm, err := norm.Normalize(model)
	if err != nil {
		return nil, mon.Stats(), err
	}

	prop := NewClingconPropagator(vc.Storage(), host, nm.Lazy, cfg, mon)
	for _, link := range nm.EqualLinks {
		prop.lits.SetEqualTo(link.V, link.Rep, link.A, link.C)
	}

	sol, err := runSolveLoop(vc, host, prop, nm)
	return sol, mon.Stats(), err
}

func runSolveLoop(vc *VariableCreator, host *GiniHost, prop *ClingconPropagator, nm *NormalizedModel) (map[Variable]int32, error) {
	for {
		sat, ok := host.Solve(nil)
		if !ok {
			return nil, ErrUnsatisfiable
		}
		if !sat {
			return nil, ErrUnsatisfiable
		}
		if err := prop.Check(nm.Lazy); err != nil {
			conflict, isConflict := err.(*Conflict)
			if !isConflict {
				return nil, err
			}
			host.CreateClause(blockingClause(host, conflict.Reason))
			continue
		}
		return extractSolution(vc.Storage(), host), nil
	}
}

// blockingClause negates every literal in reason, so the clause forbids
// the host from ever reproducing the same combination of witness
// literals again.
func blockingClause(host Host, reason []Lit) []Lit {
	out := make([]Lit, len(reason))
	for i, l := range reason {
		out[i] = host.Not(l)
	}
	return out
}

// extractSolution reads off each variable's pinned value from the
// current model by binary-searching its chain of (monotone) le-literals
// for the smallest threshold the host reports true — every domain's top
// threshold is always TrueLit, so the search always terminates with a
// value, regardless of which literals happened to be materialized
// earlier.
func extractSolution(st *VariableStorage, host Host) map[Variable]int32 {
	out := make(map[Variable]int32, st.NumVariables())
	for v := 0; v < st.NumVariables(); v++ {
		cv := Variable(v)
		dom := st.Domain(cv)
		size := int(dom.Size())
		lo, hi := 0, size-1
		for lo < hi {
			mid := lo + (hi-lo)/2
			it := dom.Iterator()
			it.Advance(mid)
			lit, err := st.GetLELiteral(host, cv, it, true)
			if err != nil {
				break
			}
			if host.IsTrue(lit) {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		it := dom.Iterator()
		it.Advance(lo)
		out[cv] = it.Value()
	}
	return out
}
