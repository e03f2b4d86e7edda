// Package booking implements the conversational reservation pipeline:
// parsing the agent's confirmation line into a structured intent,
// resolving the customer by phone, allocating the tightest-fitting
// free table, persisting the reservation and reporting the outcome.
//
// This file defines the error taxonomy of the pipeline.  Handlers use
// errors.Is/errors.As on these types to decide how an attempt failed
// and what to surface to the operator.
package booking

import (
    "errors"
    "fmt"
)

// ErrNoConfirmation is returned by ParseIntent when the agent output
// contains no confirmation marker.  It means "no booking requested
// yet", not a failure; callers should treat it as a passthrough and
// leave the conversation untouched.
var ErrNoConfirmation = errors.New("no confirmation marker in agent output")

// ParseError reports a confirmation line that did not carry the five
// positional fields the upstream prompt contract fixes.  It keeps the
// observed field count and the raw segment so the failure is
// attributable to its input rather than silently misassigning data.
type ParseError struct {
    Fields int    // number of comma-separated fields observed
    Raw    string // the offending confirmation line, unparsed
}

func (e *ParseError) Error() string {
    return fmt.Sprintf("confirmation line has %d fields, want at least %d", e.Fields, minIntentFields)
}

// LookupError wraps a transient data-access failure during a customer
// or table read.  It must never be conflated with a definitive
// empty result (which repositories express as sql.ErrNoRows).
type LookupError struct {
    Op  string // which read failed, e.g. "customer by phone"
    Err error
}

func (e *LookupError) Error() string { return fmt.Sprintf("lookup %s: %v", e.Op, e.Err) }
func (e *LookupError) Unwrap() error { return e.Err }

// WriteError wraps a failed insert or update of a customer or
// reservation record.  It is fatal for the current attempt.
type WriteError struct {
    Op  string // which write failed, e.g. "create reservation"
    Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Op, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// StateDesyncError reports a table-status transition that failed after
// the reservation row was already written, for a reason other than
// losing the allocation race.  The stores are left inconsistent and
// require manual reconciliation; callers must log this distinctly and
// never swallow it.
type StateDesyncError struct {
    TableID       uint64
    ReservationID uint64
    Err           error
}

func (e *StateDesyncError) Error() string {
    return fmt.Sprintf("table %d could not be marked reserved after reservation %d was written: %v",
        e.TableID, e.ReservationID, e.Err)
}

func (e *StateDesyncError) Unwrap() error { return e.Err }
