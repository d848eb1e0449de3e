package parallel

import (
	"context"
	"runtime"
	"sync"
)

// SearchThread is one independent attempt at solving a problem: it owns
// its own per-thread mutable state (a VolatileVariableStorage overlay and
// propagator instance in package clingcon) layered over state shared
// read-only with every other thread, and returns either a solution or an
// error. The core's no-cross-thread-communication rule means a
// SearchThread must never reach into another thread's state.
type SearchThread func(ctx context.Context, threadID int) (solution interface{}, err error)

// SolverPool runs a fixed number of SearchThreads concurrently via a
// WorkerPool, racing them against each other and returning the first
// solution found (or the last error, if every thread fails). This
// realizes a scheduling model where the host engine runs one or more
// search threads, each driving its own propagator through
// init/propagate/check/undo, with no locks shared between them beyond
// the frozen base state they all read.
type SolverPool struct {
	pool *WorkerPool
}

// NewSolverPool returns a SolverPool backed by a WorkerPool sized to run
// up to maxThreads search threads concurrently. maxThreads<=0 defaults to
// the number of CPU cores.
func NewSolverPool(maxThreads int) *SolverPool {
	if maxThreads <= 0 {
		maxThreads = runtime.NumCPU()
	}
	return &SolverPool{pool: NewDynamicWorkerPool(maxThreads, maxThreads)}
}

// searchResult is the outcome of one racing SearchThread.
type searchResult struct {
	threadID int
	solution interface{}
	err      error
}

// Solve submits one SearchThread per entry in threads, each running as an
// independent search attempt (e.g. a distinct variable/value ordering, or
// a distinct sub-problem slice for a portfolio/divide-and-conquer search).
// It returns the first non-error result; if every thread fails, it
// returns the error from the last thread to finish.
func (sp *SolverPool) Solve(ctx context.Context, threads []SearchThread) (interface{}, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan searchResult, len(threads))
	var wg sync.WaitGroup

	for i, thread := range threads {
		i, thread := i, thread
		wg.Add(1)
		submitErr := sp.pool.Submit(ctx, func() {
			defer wg.Done()
			solution, err := thread(ctx, i)
			select {
			case results <- searchResult{threadID: i, solution: solution, err: err}:
			case <-ctx.Done():
			}
		})
		if submitErr != nil {
			wg.Done()
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for r := range results {
		if r.err == nil {
			cancel() // stop the remaining threads; first solution wins
			return r.solution, nil
		}
		lastErr = r.err
	}
	return nil, lastErr
}

// Stats exposes the underlying WorkerPool's execution statistics, e.g.
// for a Monitor to report per-search-thread throughput.
func (sp *SolverPool) Stats() *ExecutionStats { return sp.pool.GetStats() }

// Shutdown releases the pool's worker goroutines.
func (sp *SolverPool) Shutdown() { sp.pool.Shutdown() }
