// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between failure scenarios without
// string matching. Definitive empty results are expressed as
// sql.ErrNoRows from the standard library, never wrapped into a
// repository-specific error, so that callers can tell "not found"
// apart from transient data-access failures.
package repository

import "errors"

// ErrNotFound is returned when an update targets a row that does not
// exist, such as releasing a table id that was never registered.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
