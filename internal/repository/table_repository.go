package repository

import (
    "context"
    "database/sql"

    "github.com/mesaflow/reservations-backend/internal/model"
)

// TableRepo provides data access to the `restaurant_tables` table.
// Status transitions performed here follow the compare-and-set
// discipline: the FREE -> RESERVED update only applies when the row is
// still FREE, which is what guarantees at most one successful
// allocation per table under concurrent booking attempts.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// FindSmallestFree returns the free table with the smallest capacity
// that still seats the party, ties broken deterministically by lowest
// id.  An empty result is not an error: it returns (nil, nil) and the
// caller routes the attempt to the waitlist.
func (r *TableRepo) FindSmallestFree(ctx context.Context, partySize int) (*model.Table, error) {
    const q = `SELECT id, zone, capacity, status, created_at
               FROM restaurant_tables
               WHERE status = ? AND capacity >= ?
               ORDER BY capacity ASC, id ASC
               LIMIT 1`
    var t model.Table
    err := r.db.QueryRowContext(ctx, q, model.TableFree, partySize).
        Scan(&t.ID, &t.Zone, &t.Capacity, &t.Status, &t.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// TryReserve performs the conditional FREE -> RESERVED transition.  It
// returns true when this caller won the row, false when the table was
// no longer free (another attempt got there first).  Errors are
// transport failures, not race losses.
func (r *TableRepo) TryReserve(ctx context.Context, tableID uint64) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE restaurant_tables SET status = ? WHERE id = ? AND status = ?`,
        model.TableReserved, tableID, model.TableFree)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

// Release transitions a table back to FREE unconditionally.  It backs
// the table-management endpoint, which lives outside the booking
// pipeline.  ErrNotFound is returned when the id does not exist.
func (r *TableRepo) Release(ctx context.Context, tableID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE restaurant_tables SET status = ? WHERE id = ?`,
        model.TableFree, tableID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is 0 both for a missing row and for a row that
        // is already FREE; distinguish them with an existence check.
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM restaurant_tables WHERE id = ?)`, tableID).
            Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrNotFound
        }
    }
    return nil
}

// Create inserts a new table in the FREE state and populates its ID.
// Capacity is immutable after this point.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
    t.Status = model.TableFree
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO restaurant_tables (zone, capacity, status) VALUES (?, ?, ?)`,
        t.Zone, t.Capacity, t.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// List returns the full table inventory ordered by id for the
// dashboard's floor view.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, zone, capacity, status, created_at FROM restaurant_tables ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tables := make([]model.Table, 0)
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.Zone, &t.Capacity, &t.Status, &t.CreatedAt); err != nil {
            return nil, err
        }
        tables = append(tables, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return tables, nil
}
