package model

import "time"

// Reservation status values.  TableID is non-nil iff the status is
// ReservationConfirmed.
const (
    ReservationConfirmed   = "CONFIRMED"
    ReservationWaitingList = "WAITING_LIST"
)

// Reservation category values.  The category is derived once from the
// plan text at creation time and never recomputed.
const (
    CategoryVIP    = "VIP"
    CategoryNormal = "NORMAL"
)

// Reservation records a booking produced by the conversational
// pipeline, as stored in the `reservations` table.  ReservedFor is the
// date/time text exactly as it appeared in the confirmation line; it
// is opaque to this system and only ever displayed, never parsed into
// a calendar type.
//
// Fields:
//  ID          – primary key identifier.
//  CustomerID  – customer who made the reservation.
//  TableID     – allocated table; nil when waitlisted.
//  ReservedFor – raw date/time text from the confirmation line.
//  PartySize   – number of guests; always >= 1.
//  Plan        – plan/zone label from the confirmation line, verbatim.
//  Status      – ReservationConfirmed or ReservationWaitingList.
//  Category    – CategoryVIP or CategoryNormal.
//  CreatedAt   – creation timestamp.
type Reservation struct {
    ID          uint64    // reservations.id
    CustomerID  uint64    // reservations.customer_id
    TableID     *uint64   // reservations.table_id (nullable)
    ReservedFor string    // reservations.reserved_for
    PartySize   int       // reservations.party_size
    Plan        string    // reservations.plan
    Status      string    // reservations.status
    Category    string    // reservations.category
    CreatedAt   time.Time // reservations.created_at
}
