package booking

import (
    "strconv"
    "strings"
)

// ConfirmationMarker is the fixed token the conversational agent is
// prompted to emit when a guest confirms a booking.  The single line
// carrying this marker is the only wire format the pipeline consumes
// from the upstream text generator.
const ConfirmationMarker = "CONFIRMAR_RESERVA"

// minIntentFields is the number of comma-separated fields the
// confirmation line must carry, in fixed order: name, phone,
// date/time, party size, plan/zone.
const minIntentFields = 5

// defaultPartySize is used when the party-size field is missing or not
// numeric.  The fallback is deliberate and documented behavior, not an
// unbounded default.
const defaultPartySize = 2

// ReservationIntent is the structured booking intent extracted from a
// confirmation line.  It is produced fresh per attempt and only drives
// the following pipeline stages; it is never persisted itself.
type ReservationIntent struct {
    Name      string // guest name from field 0
    Phone     string // phone from field 1, verbatim (identity key)
    WhenText  string // combined date/time text from field 2, opaque
    PartySize int    // parsed from field 3; >= 1, defaulted when invalid
    Plan      string // plan/zone label from field 4, verbatim
}

// HasConfirmation reports whether the agent output contains the
// confirmation marker.  It is the upstream gate: when it returns false
// the parser is not invoked and no booking attempt exists.
func HasConfirmation(text string) bool {
    return strings.Contains(text, ConfirmationMarker)
}

// ParseIntent extracts a ReservationIntent from the full agent
// response text.  Only the single line containing the marker is
// considered; everything else is discarded.  The line is split on
// commas into trimmed fields with the square brackets the prompt uses
// as visual delimiters stripped.  Fewer than five fields is a
// *ParseError carrying the observed count and the raw segment.  The
// marker being absent entirely yields ErrNoConfirmation.
func ParseIntent(text string) (*ReservationIntent, error) {
    idx := strings.Index(text, ConfirmationMarker)
    if idx < 0 {
        return nil, ErrNoConfirmation
    }

    // Isolate the line carrying the marker: from the previous line
    // break (or start of text) up to the next one.
    start := strings.LastIndex(text[:idx], "\n") + 1
    line := text[start:]
    if end := strings.Index(line, "\n"); end >= 0 {
        line = line[:end]
    }
    line = strings.TrimSpace(line)

    parts := strings.Split(line, ",")
    fields := make([]string, 0, len(parts))
    for _, p := range parts {
        fields = append(fields, strings.TrimSpace(strings.Trim(strings.TrimSpace(p), "[]")))
    }
    if len(fields) < minIntentFields {
        return nil, &ParseError{Fields: len(fields), Raw: line}
    }

    return &ReservationIntent{
        Name:      parseName(fields[0]),
        Phone:     fields[1],
        WhenText:  fields[2],
        PartySize: parsePartySize(fields[3]),
        Plan:      fields[4],
    }, nil
}

// parseName extracts the guest name from field 0, which carries the
// marker label.  The name is whatever follows the first colon; when no
// colon is present, the marker token itself is removed instead.
func parseName(field string) string {
    if i := strings.Index(field, ":"); i >= 0 {
        return strings.TrimSpace(field[i+1:])
    }
    return strings.TrimSpace(strings.ReplaceAll(field, ConfirmationMarker, ""))
}

// parsePartySize parses field 3 as a positive integer, falling back to
// defaultPartySize on non-numeric or non-positive input.
func parsePartySize(field string) int {
    n, err := strconv.Atoi(field)
    if err != nil || n < 1 {
        return defaultPartySize
    }
    return n
}
