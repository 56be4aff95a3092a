package plumbing

import (
	"errors"
	"fmt"
)

// ErrStop is returned by a walk callback to stop iteration early without
// signaling failure.
var ErrStop = errors.New("stop iter")

// noSuchObject is returned when a commit identifier does not resolve in a
// Graph. The UnknownCommit condition for event commits is handled earlier,
// by graph.EventSet.Filter checking Exists; a noSuchObject returned from
// Parents or Children during a walk is wrapped in a GraphAccessError and
// surfaced like any other provider error.
type noSuchObject struct {
	oid Hash
}

func (e *noSuchObject) Error() string {
	return fmt.Sprintf("osv-impact: no such commit: %s", e.oid)
}

// NoSuchObject builds the sentinel error for a missing commit.
func NoSuchObject(oid Hash) error {
	return &noSuchObject{oid: oid}
}

// IsNoSuchObject reports whether err is (or wraps) a NoSuchObject error.
func IsNoSuchObject(err error) bool {
	var nso *noSuchObject
	return errors.As(err, &nso)
}

// graphAccessError wraps a failure from the underlying Graph provider
// (spec §7: GraphAccessError — surfaced, analysis aborts, never retried
// inside the core).
type graphAccessError struct {
	oid Hash
	err error
}

func (e *graphAccessError) Error() string {
	return fmt.Sprintf("osv-impact: graph access error at %s: %v", e.oid, e.err)
}

func (e *graphAccessError) Unwrap() error { return e.err }

// NewGraphAccessError wraps a lower-level Graph provider error.
func NewGraphAccessError(oid Hash, err error) error {
	return &graphAccessError{oid: oid, err: err}
}

// IsGraphAccessError reports whether err is (or wraps) a GraphAccessError.
func IsGraphAccessError(err error) bool {
	var gae *graphAccessError
	return errors.As(err, &gae)
}

// invariantViolation signals a caller-shaped bug that the core refuses to
// paper over (spec §7: InvariantViolation — surfaced, must not corrupt
// caller state).
type invariantViolation struct {
	reason string
}

func (e *invariantViolation) Error() string {
	return fmt.Sprintf("osv-impact: invariant violation: %s", e.reason)
}

// NewInvariantViolation builds an InvariantViolation error.
func NewInvariantViolation(format string, a ...any) error {
	return &invariantViolation{reason: fmt.Sprintf(format, a...)}
}

// IsInvariantViolation reports whether err is (or wraps) an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *invariantViolation
	return errors.As(err, &iv)
}
