package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/mesaflow/reservations-backend/internal/model"
)

// ReservationRepo provides data access to the `reservations` table.
// Rows are written exactly once by the booking pipeline; the only
// subsequent mutation this repository supports is the waitlist
// demotion applied when the table allocation race was lost after the
// insert.  All timestamp columns are assumed to be stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a reservation and populates the generated ID and
// creation timestamp on the provided record.  TableID must be nil iff
// the status is WAITING_LIST.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    var tableID sql.NullInt64
    if res.TableID != nil {
        tableID = sql.NullInt64{Int64: int64(*res.TableID), Valid: true}
    }
    const q = `INSERT INTO reservations
               (customer_id, table_id, reserved_for, party_size, plan, status, category)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        res.CustomerID, tableID, res.ReservedFor, res.PartySize, res.Plan, res.Status, res.Category)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the creation timestamp to populate the DB default.
    return r.db.QueryRowContext(ctx,
        `SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt)
}

// Demote rewrites a reservation to WAITING_LIST with no table.  It is
// the compensation applied when the conditional table transition found
// the table already taken by a concurrent attempt.
func (r *ReservationRepo) Demote(ctx context.Context, reservationID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET status = ?, table_id = NULL WHERE id = ?`,
        model.ReservationWaitingList, reservationID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// ReservationDetail joins a reservation with its customer and table
// for dashboard display.  Table fields are nil for waitlisted rows.
type ReservationDetail struct {
    ID          uint64  `json:"id"`
    Customer    string  `json:"customer"`
    Phone       string  `json:"phone"`
    TableID     *uint64 `json:"table_id,omitempty"`
    Zone        *string `json:"zone,omitempty"`
    ReservedFor string  `json:"reserved_for"`
    PartySize   int     `json:"party_size"`
    Plan        string  `json:"plan"`
    Status      string  `json:"status"`
    Category    string  `json:"category"`
    CreatedAt   string  `json:"created_at"`
}

// ListRecent returns the most recent reservations (newest first) with
// customer and table details resolved.  When none exist, an empty
// slice is returned.
func (r *ReservationRepo) ListRecent(ctx context.Context, limit int) ([]ReservationDetail, error) {
    if limit <= 0 {
        limit = 50
    }
    const q = `SELECT r.id, c.name, c.phone, r.table_id, t.zone,
                      r.reserved_for, r.party_size, r.plan, r.status, r.category, r.created_at
               FROM reservations r
               JOIN customers c ON c.id = r.customer_id
               LEFT JOIN restaurant_tables t ON t.id = r.table_id
               ORDER BY r.created_at DESC, r.id DESC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        var tableID sql.NullInt64
        var zone sql.NullString
        var createdAt time.Time
        if err := rows.Scan(&d.ID, &d.Customer, &d.Phone, &tableID, &zone,
            &d.ReservedFor, &d.PartySize, &d.Plan, &d.Status, &d.Category, &createdAt); err != nil {
            return nil, err
        }
        d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
        if tableID.Valid {
            id := uint64(tableID.Int64)
            d.TableID = &id
        }
        if zone.Valid {
            z := zone.String
            d.Zone = &z
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
