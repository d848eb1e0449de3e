package clingcon

// monitor.go: lock-free monitoring and statistics for the clingcon
// propagator, tracked in units of work (order literals, reified
// constraints, decision levels) rather than generic search nodes.

import (
	"fmt"
	"sync/atomic"
	"time"
)

// PropagatorStats holds statistics about one thread's propagation
// activity. The int64 counters use atomic operations for lock-free
// updates, so a Monitor can be shared across the per-thread goroutines
// internal/parallel.SolverPool spawns; SearchTime is written by Finish
// without atomics.
type PropagatorStats struct {
	// Search statistics
	DecisionLevels int64         // Number of addLevel calls
	Undos          int64         // Number of removeLevel calls
	Conflicts      int64         // Number of *Conflict results returned
	SearchTime     time.Duration // Time spent under this monitor

	// Propagation statistics
	PropagationRuns int64 // Number of ClingconPropagator.Propagate() invocations
	PropagationTime int64 // Time spent propagating (nanoseconds)
	ClausesAsserted int64 // Number of host.CreateClause calls attributed here

	// Literal-table statistics
	LELiteralsCreated int64 // Order literals allocated on demand
	EqLiteralsCreated int64 // Equality literals allocated on demand

	// Queue statistics
	PeakQueueSize int64 // Peak size of a propagator's work queue
}

// Monitor provides lock-free monitoring for a single search thread's
// ClingconPropagator.
type Monitor struct {
	stats     PropagatorStats
	startTime time.Time
	propStart atomic.Int64
}

// NewMonitor returns a Monitor with its clock started.
func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// Stats returns a consistent snapshot of the current statistics. Safe to
// call on a nil Monitor (returns nil) and concurrently from any goroutine.
func (m *Monitor) Stats() *PropagatorStats {
	if m == nil {
		return nil
	}
	return &PropagatorStats{
		DecisionLevels:    atomic.LoadInt64(&m.stats.DecisionLevels),
		Undos:             atomic.LoadInt64(&m.stats.Undos),
		Conflicts:         atomic.LoadInt64(&m.stats.Conflicts),
		SearchTime:        m.stats.SearchTime,
		PropagationRuns:   atomic.LoadInt64(&m.stats.PropagationRuns),
		PropagationTime:   atomic.LoadInt64(&m.stats.PropagationTime),
		ClausesAsserted:   atomic.LoadInt64(&m.stats.ClausesAsserted),
		LELiteralsCreated: atomic.LoadInt64(&m.stats.LELiteralsCreated),
		EqLiteralsCreated: atomic.LoadInt64(&m.stats.EqLiteralsCreated),
		PeakQueueSize:     atomic.LoadInt64(&m.stats.PeakQueueSize),
	}
}

// StartPropagation marks the beginning of a Propagate/Run call.
func (m *Monitor) StartPropagation() {
	if m == nil {
		return
	}
	m.propStart.Store(time.Now().UnixNano())
}

// EndPropagation marks the end of a Propagate/Run call.
func (m *Monitor) EndPropagation() {
	if m == nil {
		return
	}
	start := m.propStart.Load()
	if start != 0 {
		atomic.AddInt64(&m.stats.PropagationTime, time.Now().UnixNano()-start)
		atomic.AddInt64(&m.stats.PropagationRuns, 1)
		m.propStart.Store(0)
	}
}

// RecordLevel records one AddLevel call.
func (m *Monitor) RecordLevel() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.DecisionLevels, 1)
}

// RecordUndo records one RemoveLevel call.
func (m *Monitor) RecordUndo() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.Undos, 1)
}

// RecordConflict records a *Conflict returned by Propagate or Check.
func (m *Monitor) RecordConflict() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.Conflicts, 1)
}

// RecordClause records one host.CreateClause call.
func (m *Monitor) RecordClause() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.ClausesAsserted, 1)
}

// RecordLELiteralCreated records one freshly-allocated order literal.
func (m *Monitor) RecordLELiteralCreated() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.LELiteralsCreated, 1)
}

// RecordEqLiteralCreated records one freshly-allocated equality literal.
func (m *Monitor) RecordEqLiteralCreated() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.EqLiteralsCreated, 1)
}

// RecordQueueSize records a propagator work-queue size, keeping the peak.
func (m *Monitor) RecordQueueSize(size int) {
	if m == nil {
		return
	}
	size64 := int64(size)
	for {
		old := atomic.LoadInt64(&m.stats.PeakQueueSize)
		if size64 <= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.stats.PeakQueueSize, old, size64) {
			break
		}
	}
}

// Finish records the total elapsed time since NewMonitor.
func (m *Monitor) Finish() {
	if m == nil {
		return
	}
	m.stats.SearchTime = time.Since(m.startTime)
}

// String formats the statistics as a short human-readable report.
func (s *PropagatorStats) String() string {
	return fmt.Sprintf(
		"Propagator Statistics:\n"+
			"  Decision Levels: %d\n"+
			"  Undos:           %d\n"+
			"  Conflicts:       %d\n"+
			"  Search Time:     %v\n"+
			"  Propagations:    %d\n"+
			"  Prop Time:       %v\n"+
			"  Clauses:         %d\n"+
			"  LE Literals:     %d\n"+
			"  Eq Literals:     %d\n"+
			"  Peak Queue:      %d\n",
		s.DecisionLevels,
		s.Undos,
		s.Conflicts,
		s.SearchTime,
		s.PropagationRuns,
		time.Duration(s.PropagationTime),
		s.ClausesAsserted,
		s.LELiteralsCreated,
		s.EqLiteralsCreated,
		s.PeakQueueSize,
	)
}
