package model

import "time"

// Table status values.  A table transitions FREE -> RESERVED at most
// once per allocation; the reverse transition happens only through the
// table-management release endpoint, never through the booking
// pipeline.
const (
    TableFree     = "FREE"
    TableReserved = "RESERVED"
)

// Table represents a physical table in the dining room as stored in
// the `restaurant_tables` table.  Capacity is immutable after
// creation.  Status is mutated exclusively by the allocator/writer
// pair (FREE -> RESERVED, conditionally) and by the release endpoint.
//
// Fields:
//  ID        – primary key identifier.
//  Zone      – dining zone label (e.g. "Terraza", "Salón").
//  Capacity  – maximum party size the table seats.
//  Status    – TableFree or TableReserved.
//  CreatedAt – timestamp of creation.
type Table struct {
    ID        uint64    // restaurant_tables.id
    Zone      string    // restaurant_tables.zone
    Capacity  int       // restaurant_tables.capacity
    Status    string    // restaurant_tables.status
    CreatedAt time.Time // restaurant_tables.created_at
}
