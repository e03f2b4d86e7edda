// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationOutcomeEvent is published when a booking attempt ends in
// a persisted reservation, either confirmed with a table or routed to the
// waitlist.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary
// database.  Table fields are zero-valued for waitlisted outcomes.
type ReservationOutcomeEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    CustomerID    uint64 `json:"customer_id"`
    CustomerName  string `json:"customer_name"`
    Phone         string `json:"phone"`
    TableID       uint64 `json:"table_id,omitempty"`
    Zone          string `json:"zone,omitempty"`
    ReservedFor   string `json:"reserved_for"`
    PartySize     int    `json:"party_size"`
    Category      string `json:"category"`
    Waitlisted    bool   `json:"waitlisted"`
    OccurredAt    string `json:"occurred_at"`
}
