package booking

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/mesaflow/reservations-backend/internal/model"
)

// vipMarker is the keyword whose case-insensitive presence in the plan
// field classifies a reservation as VIP.  The classification happens
// once, at creation time.
const vipMarker = "master"

// CustomerStore is the customer persistence surface the pipeline
// needs.  FindByPhone returns sql.ErrNoRows when no customer exists
// for the phone: a definitive empty result, distinct from any
// transient error.  Create must populate the record's ID.
type CustomerStore interface {
    FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
    Create(ctx context.Context, c *model.Customer) error
}

// TableStore is the table persistence surface the pipeline needs.
// FindSmallestFree returns the free table with the smallest capacity
// that seats the party, ties broken by lowest id, or (nil, nil) when
// nothing fits.  TryReserve is the conditional FREE -> RESERVED
// transition: it reports false, nil when the table was no longer free,
// which is how a lost allocation race manifests.
type TableStore interface {
    FindSmallestFree(ctx context.Context, partySize int) (*model.Table, error)
    TryReserve(ctx context.Context, tableID uint64) (bool, error)
}

// ReservationStore is the reservation persistence surface the pipeline
// needs.  Create must populate the record's ID.  Demote rewrites an
// already inserted reservation to WAITING_LIST with no table, which is
// how a lost allocation race is compensated.
type ReservationStore interface {
    Create(ctx context.Context, r *model.Reservation) error
    Demote(ctx context.Context, reservationID uint64) error
}

// Service runs one booking attempt end to end.  Stages execute
// sequentially; nothing is retried automatically and partial writes
// are never rolled back by this layer.
type Service struct {
    customers    CustomerStore
    tables       TableStore
    reservations ReservationStore
}

// NewService constructs the pipeline over the given stores.
func NewService(customers CustomerStore, tables TableStore, reservations ReservationStore) *Service {
    if customers == nil || tables == nil || reservations == nil {
        panic("nil store passed to booking.NewService")
    }
    return &Service{customers: customers, tables: tables, reservations: reservations}
}

// Process executes a single booking attempt against the raw agent
// response text.  It returns ErrNoConfirmation when no booking was
// requested, a *ParseError for a malformed confirmation line, and
// *LookupError / *WriteError / *StateDesyncError per the pipeline's
// error taxonomy.  A table that stops being free between allocation
// and the conditional transition is not an error: the attempt is
// demoted to the waitlist.
func (s *Service) Process(ctx context.Context, rawText string) (*Outcome, error) {
    intent, err := ParseIntent(rawText)
    if err != nil {
        return nil, err
    }

    cust, err := s.resolveCustomer(ctx, intent)
    if err != nil {
        return nil, err
    }

    table, err := s.tables.FindSmallestFree(ctx, intent.PartySize)
    if err != nil {
        return nil, &LookupError{Op: "free table", Err: err}
    }

    res := &model.Reservation{
        CustomerID:  cust.ID,
        ReservedFor: intent.WhenText,
        PartySize:   intent.PartySize,
        Plan:        intent.Plan,
        Status:      model.ReservationWaitingList,
        Category:    deriveCategory(intent.Plan),
    }
    if table != nil {
        id := table.ID
        res.TableID = &id
        res.Status = model.ReservationConfirmed
    }

    // The reservation row goes in before the table transition so a
    // failed insert can never leave a table falsely marked reserved.
    if err := s.reservations.Create(ctx, res); err != nil {
        return nil, &WriteError{Op: "create reservation", Err: err}
    }

    if table != nil {
        won, err := s.tables.TryReserve(ctx, table.ID)
        if err != nil {
            return nil, &StateDesyncError{TableID: table.ID, ReservationID: res.ID, Err: err}
        }
        if !won {
            // Another attempt took the table first.  Demote the
            // already written reservation instead of reporting a
            // false success.
            if err := s.reservations.Demote(ctx, res.ID); err != nil {
                return nil, &WriteError{Op: "demote reservation to waitlist", Err: err}
            }
            res.TableID = nil
            res.Status = model.ReservationWaitingList
            table = nil
        }
    }

    return buildOutcome(intent, cust, res, table), nil
}

// resolveCustomer finds the customer by exact phone match or creates a
// new one on a definitive empty result.  An existing record is
// returned unchanged even when the parsed name differs from the stored
// one; repeat bookings never rewrite the profile.
func (s *Service) resolveCustomer(ctx context.Context, intent *ReservationIntent) (*model.Customer, error) {
    cust, err := s.customers.FindByPhone(ctx, intent.Phone)
    if err == nil {
        return cust, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return nil, &LookupError{Op: "customer by phone", Err: err}
    }
    cust = &model.Customer{Name: intent.Name, Phone: intent.Phone, VIP: false}
    if err := s.customers.Create(ctx, cust); err != nil {
        return nil, &WriteError{Op: "create customer", Err: err}
    }
    return cust, nil
}

// deriveCategory classifies the reservation from the plan text.
func deriveCategory(plan string) string {
    if strings.Contains(strings.ToLower(plan), vipMarker) {
        return model.CategoryVIP
    }
    return model.CategoryNormal
}
