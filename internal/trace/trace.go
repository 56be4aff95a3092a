// Package trace provides the logging conventions shared across the
// analyzer: structured, leveled logging via logrus, plus a helper that
// stamps an error with its call site the way modules/trace does in the
// teacher repository.
package trace

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Location returns the function name and line of the caller skip frames up
// the stack, for attaching to log lines without a full stack trace.
func Location(skip int) (string, int) {
	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		return "?", line
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "?", line
	}
	return fn.Name(), line
}

// Errorf formats an error, logs it at error level with its call site, and
// returns it. Used sparingly — only for conditions that are genuinely
// unexpected, not for the normal UnknownCommit drop path (see DroppedCommit).
func Errorf(format string, a ...any) error {
	fn, line := Location(2)
	msg := fmt.Sprintf(format, a...)
	logrus.WithField("at", fmt.Sprintf("%s:%d", fn, line)).Error(msg)
	return errors.New(msg)
}

// DroppedCommit logs an UnknownCommit condition (spec §7): an event
// referenced a commit hash absent from the graph. This is expected input
// shape, not an error — analysis continues with the commit dropped.
func DroppedCommit(kind string, hex string) {
	logrus.WithFields(logrus.Fields{
		"event":  kind,
		"commit": hex,
	}).Debug("dropping event for unknown commit")
}
