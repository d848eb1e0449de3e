package clingcon

import "fmt"

// variableEntry holds the per-variable state owned by a VariableStorage:
// its current domain plus a sparse table mapping an original-domain
// threshold position to an order (<=) literal, and another for equality
// literals. Positions are indices into the domain as it existed the last
// time the entry's literals were (re)indexed — see VariableStorage.Freeze.
type variableEntry struct {
	domain *Domain
	leLits map[int]Lit // threshold position -> (v <= dom[pos])
	eqLits map[int]Lit // threshold position -> (v == dom[pos])
	frozen bool        // true once normalization has finished shrinking domain
}

// VariableCreator builds the variables and views that make up a problem
// before search starts. It owns a VariableStorage and exposes only the
// creation operations; once
// normalization finishes, callers switch to reading the VariableStorage
// (and, at search time, a VolatileVariableStorage) directly.
type VariableCreator struct {
	storage *VariableStorage
}

// NewVariableCreator returns an empty VariableCreator.
func NewVariableCreator() *VariableCreator {
	return &VariableCreator{storage: newVariableStorage()}
}

// CreateVariable allocates a fresh Variable with the given initial domain.
func (vc *VariableCreator) CreateVariable(dom *Domain) Variable {
	return vc.storage.createVariable(dom)
}

// CreateView allocates a fresh Variable with the given domain and returns
// the identity View over it.
func (vc *VariableCreator) CreateView(dom *Domain) View {
	return IdentityView(vc.CreateVariable(dom))
}

// Storage returns the underlying VariableStorage. Once the Normalizer has
// frozen it (VariableStorage.Freeze), the returned storage's domains and literal tables
// are treated as frozen shared state.
func (vc *VariableCreator) Storage() *VariableStorage { return vc.storage }

// VariableStorage owns per-variable domains and the order-literal table.
// Before Freeze it is mutated in place by the Normalizer/LinearPropagator;
// after Freeze its domains and literal table are read-only shared state
// consumed concurrently by per-thread VolatileVariableStorage instances.
type VariableStorage struct {
	vars []*variableEntry
	mon  *Monitor
}

func newVariableStorage() *VariableStorage {
	return &VariableStorage{}
}

// SetMonitor attaches mon so literal creation is reflected in its stats.
// A nil VariableStorage.mon (the default) simply records nothing, since
// every Monitor method is nil-receiver-safe.
func (s *VariableStorage) SetMonitor(mon *Monitor) { s.mon = mon }

func (s *VariableStorage) createVariable(dom *Domain) Variable {
	s.vars = append(s.vars, &variableEntry{domain: dom})
	return Variable(len(s.vars) - 1)
}

// NumVariables returns the number of variables created so far.
func (s *VariableStorage) NumVariables() int { return len(s.vars) }

func (s *VariableStorage) entry(v Variable) *variableEntry {
	return s.vars[int(v)]
}

// Domain returns the current domain of variable v. Before Freeze this is
// the live, mutable domain; the Normalizer and LinearPropagator narrow it
// in place. After Freeze, callers must treat it as read-only.
func (s *VariableStorage) Domain(v Variable) *Domain {
	return s.entry(v).domain
}

// NarrowDomain intersects variable v's domain with dom in place. Used by
// the eager LinearPropagator during normalization, before
// any order literals have been finalized. Returns ErrEmptyDomain if the
// result is empty.
func (s *VariableStorage) NarrowDomain(v Variable, dom *Domain) error {
	e := s.entry(v)
	if e.frozen {
		panic("clingcon: NarrowDomain called on a frozen VariableStorage")
	}
	if !e.domain.Intersect(dom) {
		return ErrEmptyDomain
	}
	return nil
}

// DomainSize returns the number of values in the given view's domain.
func (s *VariableStorage) DomainSize(vw View) int64 {
	return s.Domain(vw.V).Size()
}

// ViewDomain returns view's current domain as a*dom(v)+c.
func (s *VariableStorage) ViewDomain(vw View) *WideDomain {
	return vw.Domain(s)
}

// Freeze marks every variable's domain as immutable and indexes its order
// literal positions against the domain as it stands at the moment of the
// call. GetLELiteral/GetEqualLit always address positions within this
// frozen domain even though a search thread's active bound range (see
// VolatileVariableStorage) later shrinks further.
func (s *VariableStorage) Freeze() {
	for _, e := range s.vars {
		e.frozen = true
		if e.leLits == nil {
			e.leLits = make(map[int]Lit)
		}
		if e.eqLits == nil {
			e.eqLits = make(map[int]Lit)
		}
	}
}

// positionOf returns the 0-based index of it within v's frozen domain.
func positionOf(it *DomainIterator) int { return it.NumElement() }

// GetLELiteral returns the literal encoding "v <= *it". If
// not present, and create is true, a fresh literal is allocated from host
// and recorded; the top threshold (the domain's maximum) is always
// TrueLit(), per invariant (b) of the order literal table.
func (s *VariableStorage) GetLELiteral(host Host, v Variable, it *DomainIterator, create bool) (Lit, error) {
	e := s.entry(v)
	pos := positionOf(it)
	last := int(e.domain.Size()) - 1
	if pos == last {
		return host.TrueLit(), nil
	}
	if pos < 0 || pos > last {
		return LitNull, fmt.Errorf("%w: le-literal position %d out of range [0,%d]", ErrInvalidArgument, pos, last)
	}
	if e.leLits == nil {
		e.leLits = make(map[int]Lit)
	}
	if l, ok := e.leLits[pos]; ok {
		return l, nil
	}
	if !create {
		return LitNull, nil
	}
	l := host.CreateLiteral(true)
	e.leLits[pos] = l
	s.mon.RecordLELiteralCreated()
	return l, nil
}

// GetEqualLit returns the literal encoding "v == *it": it is
// equivalent to (v <= d_i) and not (v <= d_{i-1}), materialized on demand
// from the two enclosing le-literals.
func (s *VariableStorage) GetEqualLit(host Host, v Variable, it *DomainIterator, create bool) (Lit, error) {
	e := s.entry(v)
	pos := positionOf(it)
	if l, ok := e.eqLits[pos]; ok {
		return l, nil
	}
	if !create {
		return LitNull, nil
	}
	hi, err := s.GetLELiteral(host, v, it, true)
	if err != nil {
		return LitNull, err
	}
	var lo Lit
	if pos == 0 {
		lo = host.FalseLit()
	} else {
		prev := e.domain.Iterator()
		prev.Advance(pos - 1)
		lo, err = s.GetLELiteral(host, v, prev, true)
		if err != nil {
			return LitNull, err
		}
	}
	eq := host.CreateLiteral(true)
	// eq <-> hi and not lo
	host.CreateClause([]Lit{host.Not(eq), hi})
	host.CreateClause([]Lit{host.Not(eq), host.Not(lo)})
	host.CreateClause([]Lit{eq, host.Not(hi), lo})
	s.mon.RecordClause()
	s.mon.RecordClause()
	s.mon.RecordClause()
	s.mon.RecordEqLiteralCreated()
	if e.eqLits == nil {
		e.eqLits = make(map[int]Lit)
	}
	e.eqLits[pos] = eq
	return eq, nil
}

// LELiterals returns v's materialized le-literals keyed by threshold
// position — used by the Translator to emit monotonicity chain clauses.
// The map is the storage's own table, not a copy, and has no order;
// TranslateChain sorts the positions itself.
func (s *VariableStorage) LELiterals(v Variable) map[int]Lit {
	return s.entry(v).leLits
}

// EqLiterals returns v's materialized equality literals keyed by
// position; the map is the storage's own table, not a copy.
func (s *VariableStorage) EqLiterals(v Variable) map[int]Lit {
	return s.entry(v).eqLits
}
