package model

import "time"

// Customer represents a guest identity as stored in the `customers`
// table.  The phone number is the natural identity key: a customer is
// looked up by exact phone match and created on first sighting.  An
// existing record is never updated by the booking flow, so the stored
// name wins over whatever name arrives with a later booking under the
// same phone.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – guest name captured at first sighting.
//  Phone     – phone number, stored verbatim (no normalization).
//  VIP       – whether the guest has VIP status; false at creation.
//  CreatedAt – timestamp of creation.
type Customer struct {
    ID        uint64    // customers.id
    Name      string    // customers.name
    Phone     string    // customers.phone
    VIP       bool      // customers.vip_status
    CreatedAt time.Time // customers.created_at
}
