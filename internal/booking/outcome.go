package booking

import (
    "fmt"

    "github.com/mesaflow/reservations-backend/internal/model"
)

// WaitlistMarker takes the place of a table number in receipts for
// waitlisted reservations; VirtualQueueLabel takes the place of the
// zone.  Both are fixed so the UI can key off them.
const (
    WaitlistMarker    = "LISTA_ESPERA"
    VirtualQueueLabel = "Cola virtual"
)

// Receipt is the structured summary of a successful attempt, rendered
// by the dashboard next to the conversation transcript.
type Receipt struct {
    TableLabel string `json:"table"`      // table id, or WaitlistMarker
    Zone       string `json:"zone"`       // dining zone, or VirtualQueueLabel
    Name       string `json:"name"`       // guest name as spoken in this booking
    Time       string `json:"time"`       // raw date/time text, displayed as-is
    PartySize  int    `json:"party_size"` // number of guests
    Waitlisted bool   `json:"waitlisted"` // true when no table was allocated
}

// Diagnostic is the operator-facing payload retained when an attempt
// fails.  The raw segment is kept so a malformed confirmation line can
// be inspected verbatim.
type Diagnostic struct {
    AttemptID  string `json:"attempt_id"`
    Message    string `json:"message"`
    RawSegment string `json:"raw_segment,omitempty"`
}

// Outcome is the final product of a booking attempt: the user-facing
// acknowledgment, the structured receipt, and the records the attempt
// produced (for event publishing and dashboard refresh).
type Outcome struct {
    Message     string
    Receipt     Receipt
    Customer    *model.Customer
    Reservation *model.Reservation
    Table       *model.Table // nil when waitlisted
}

// buildOutcome assembles the acknowledgment and receipt for a
// persisted reservation.  The confirmed wording and the waitlist
// wording are deliberately distinct.
func buildOutcome(intent *ReservationIntent, cust *model.Customer, res *model.Reservation, table *model.Table) *Outcome {
    r := Receipt{
        TableLabel: WaitlistMarker,
        Zone:       VirtualQueueLabel,
        Name:       intent.Name,
        Time:       intent.WhenText,
        PartySize:  intent.PartySize,
        Waitlisted: table == nil,
    }
    var msg string
    if table != nil {
        r.TableLabel = fmt.Sprintf("%d", table.ID)
        r.Zone = table.Zone
        msg = fmt.Sprintf("¡Reserva confirmada! Mesa %d en %s para %d personas, %s. Te esperamos, %s.",
            table.ID, table.Zone, intent.PartySize, intent.WhenText, intent.Name)
    } else {
        msg = fmt.Sprintf("Por el momento no tenemos una mesa libre para %d personas. "+
            "Quedaste en la lista de espera, %s, y te avisaremos en cuanto se libere una mesa.",
            intent.PartySize, intent.Name)
    }
    return &Outcome{
        Message:     msg,
        Receipt:     r,
        Customer:    cust,
        Reservation: res,
        Table:       table,
    }
}
