// Package transiterr defines the typed error kinds raised by the
// network/schedule/routing/scheduler/simulation packages, and wraps
// them with a stack trace at the point they're raised so CLI and
// server logs can report where a violation actually occurred.
package transiterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which invariant or precondition failed.
type Kind int

const (
	// InvalidInput marks malformed network/passenger input files.
	InvalidInput Kind = iota
	// InvalidRouteQuery marks a schedule query referencing an unknown route.
	InvalidRouteQuery
	// BackwardInterval marks a [from,to) interval query with to < from;
	// the empty interval [t,t) is not an error.
	BackwardInterval
	// NoRoute marks a passenger for whom no time-respecting path exists.
	// Callers treat this as informational, not fatal.
	NoRoute
	// UnsupportedPassenger marks a passenger a scheduler strategy cannot
	// seed a route for (e.g. non-zero start time under Scheduler2).
	UnsupportedPassenger
	// PassengersStranded marks a simulated train that reached its
	// terminal with passengers still boarded, an internal routing/
	// simulation invariant violation.
	PassengersStranded
	// PassengerDesync marks a passenger move requested from a location
	// other than the passenger's current journey step, an internal
	// bookkeeping mismatch.
	PassengerDesync
	// TimeWentBackwards marks an attempt to advance simulated time to a
	// point at or before the current simulated time.
	TimeWentBackwards
	// TrainDepartsInPast marks a synthesized train whose first departure
	// predates the simulation's current time.
	TrainDepartsInPast
	// NegativeAdvance marks a RunForTime call with a non-positive
	// duration or step size.
	NegativeAdvance
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidRouteQuery:
		return "InvalidRouteQuery"
	case BackwardInterval:
		return "BackwardInterval"
	case NoRoute:
		return "NoRoute"
	case UnsupportedPassenger:
		return "UnsupportedPassenger"
	case PassengersStranded:
		return "PassengersStranded"
	case PassengerDesync:
		return "PassengerDesync"
	case TimeWentBackwards:
		return "TimeWentBackwards"
	case TrainDepartsInPast:
		return "TrainDepartsInPast"
	case NegativeAdvance:
		return "NegativeAdvance"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carrying a Kind alongside its message.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.msg) }

// New builds a transiterr.Error of the given kind, wrapped with a stack
// trace via github.com/pkg/errors so the raise site survives into logs.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

// Is reports whether err (or anything it wraps) is a transiterr.Error of
// the given kind. Works through both pkg/errors.WithStack and stdlib
// fmt.Errorf("%w", ...) wrapping.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if te, ok := err.(*Error); ok {
			e = te
			break
		}
		type causer interface{ Cause() error }
		type unwrapper interface{ Unwrap() error }
		if c, ok := err.(causer); ok {
			err = c.Cause()
			continue
		}
		if u, ok := err.(unwrapper); ok {
			err = u.Unwrap()
			continue
		}
		break
	}
	return e != nil && e.Kind == kind
}
