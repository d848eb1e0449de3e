// Package clingcon implements the core of an integer-linear constraint
// solver that cooperates with a Boolean SAT-style search engine through a
// lazy propagator interface.
package clingcon

import "errors"

// Sentinel errors returned by the core. Callers should use errors.Is to
// test for these rather than comparing strings.
var (
	// ErrEmptyDomain is returned when a domain operation (or a bound
	// tightening on a view) would leave a variable with no admissible
	// values. It is recoverable: the caller propagates falsification of
	// the enclosing reification literal, and it is only fatal if that
	// literal is already fixed true.
	ErrEmptyDomain = errors.New("clingcon: domain became empty")

	// ErrUnsatisfiable is returned by Prepare/Finalize when the problem
	// is found unsatisfiable before search starts.
	ErrUnsatisfiable = errors.New("clingcon: unsatisfiable at normalization")

	// ErrOverflow signals a value outside the representable domain bounds
	// (DomainMin..DomainMax, or the wide equivalents). Domain and
	// WideDomain operations never clamp and do not return it: they set a
	// sticky overflow flag (see their Overflow methods) and drop the
	// out-of-range values. It is returned by
	// Host.IntermediateVariableOutOfRange.
	ErrOverflow = errors.New("clingcon: domain value out of representable range")

	// ErrInvalidArgument flags a contract violation such as asking for
	// a literal at an iterator past a view's end.
	ErrInvalidArgument = errors.New("clingcon: invalid argument")
)
