package booking

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaflow/reservations-backend/internal/model"
)

// memCustomers is an in-memory CustomerStore keyed by phone.
type memCustomers struct {
	mu      sync.Mutex
	nextID  uint64
	byPhone map[string]*model.Customer
	findErr error // forced lookup failure when set
}

func newMemCustomers() *memCustomers {
	return &memCustomers{nextID: 1, byPhone: make(map[string]*model.Customer)}
}

func (m *memCustomers) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if c, ok := m.byPhone[phone]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memCustomers) Create(_ context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	cp := *c
	m.byPhone[c.Phone] = &cp
	return nil
}

// memTables is an in-memory TableStore with a compare-and-set
// transition, so concurrent attempts contend the same way they would
// against the conditional UPDATE.
type memTables struct {
	mu         sync.Mutex
	tables     []*model.Table
	reserveErr error // forced transition failure when set
}

func (m *memTables) FindSmallestFree(_ context.Context, partySize int) (*model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.Table
	for _, t := range m.tables {
		if t.Status != model.TableFree || t.Capacity < partySize {
			continue
		}
		if best == nil || t.Capacity < best.Capacity || (t.Capacity == best.Capacity && t.ID < best.ID) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memTables) TryReserve(_ context.Context, tableID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return false, m.reserveErr
	}
	for _, t := range m.tables {
		if t.ID == tableID && t.Status == model.TableFree {
			t.Status = model.TableReserved
			return true, nil
		}
	}
	return false, nil
}

// memReservations is an in-memory ReservationStore.
type memReservations struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*model.Reservation
}

func newMemReservations() *memReservations {
	return &memReservations{nextID: 1}
}

func (m *memReservations) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	cp := *r
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memReservations) Demote(_ context.Context, reservationID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == reservationID {
			r.Status = model.ReservationWaitingList
			r.TableID = nil
			return nil
		}
	}
	return errors.New("reservation not found")
}

func (m *memReservations) byStatus(status string) []*model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func table(id uint64, zone string, capacity int) *model.Table {
	return &model.Table{ID: id, Zone: zone, Capacity: capacity, Status: model.TableFree}
}

func TestProcessEndToEnd(t *testing.T) {
	customers := newMemCustomers()
	tables := &memTables{tables: []*model.Table{table(7, "Terraza", 4)}}
	reservations := newMemReservations()
	svc := NewService(customers, tables, reservations)

	text := "CONFIRMAR_RESERVA: Ana Gomez, 3001234567, 2024-05-01 20:00, 4, Master"
	outcome, err := svc.Process(context.Background(), text)
	require.NoError(t, err)

	// A new customer was created from the intent.
	require.NotNil(t, outcome.Customer)
	assert.Equal(t, "Ana Gomez", outcome.Customer.Name)
	assert.Equal(t, "3001234567", outcome.Customer.Phone)
	assert.False(t, outcome.Customer.VIP)

	// The reservation is confirmed against table 7 and classified VIP
	// from the plan text.
	require.NotNil(t, outcome.Reservation.TableID)
	assert.Equal(t, uint64(7), *outcome.Reservation.TableID)
	assert.Equal(t, model.ReservationConfirmed, outcome.Reservation.Status)
	assert.Equal(t, model.CategoryVIP, outcome.Reservation.Category)

	// Table 7 transitioned to reserved.
	assert.Equal(t, model.TableReserved, tables.tables[0].Status)

	// The acknowledgment names the table; the waitlist wording is different.
	assert.False(t, outcome.Receipt.Waitlisted)
	assert.Equal(t, "7", outcome.Receipt.TableLabel)
	assert.Equal(t, "Terraza", outcome.Receipt.Zone)
	assert.Contains(t, outcome.Message, "Mesa 7 en Terraza")
	assert.NotContains(t, outcome.Message, "lista de espera")
}

func TestProcessReturningCustomerNotRewritten(t *testing.T) {
	customers := newMemCustomers()
	existing := &model.Customer{Name: "Ana Gomez", Phone: "3001234567", VIP: true}
	require.NoError(t, customers.Create(context.Background(), existing))

	tables := &memTables{tables: []*model.Table{table(1, "Salón", 4)}}
	svc := NewService(customers, tables, newMemReservations())

	// Same phone, different spoken name: the stored profile wins.
	text := "CONFIRMAR_RESERVA: Anita G., 3001234567, sábado 19:00, 2, Standard"
	outcome, err := svc.Process(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, outcome.Customer.ID)
	assert.Equal(t, "Ana Gomez", outcome.Customer.Name)
	assert.True(t, outcome.Customer.VIP)
	// The receipt still shows the name spoken in this booking.
	assert.Equal(t, "Anita G.", outcome.Receipt.Name)
}

func TestProcessPicksSmallestFittingTable(t *testing.T) {
	tables := &memTables{tables: []*model.Table{
		table(1, "Salón", 2),
		table(2, "Salón", 4),
		table(3, "Terraza", 6),
		table(4, "Terraza", 8),
	}}
	svc := NewService(newMemCustomers(), tables, newMemReservations())

	text := "CONFIRMAR_RESERVA: Luis, 311, hoy 20:00, 3, Standard"
	outcome, err := svc.Process(context.Background(), text)
	require.NoError(t, err)

	require.NotNil(t, outcome.Reservation.TableID)
	assert.Equal(t, uint64(2), *outcome.Reservation.TableID)
}

func TestProcessWaitlistWhenNoTableFits(t *testing.T) {
	tables := &memTables{tables: []*model.Table{table(1, "Salón", 2)}}
	reservations := newMemReservations()
	svc := NewService(newMemCustomers(), tables, reservations)

	text := "CONFIRMAR_RESERVA: Sofia, 320, viernes, 6, Standard"
	outcome, err := svc.Process(context.Background(), text)
	require.NoError(t, err)

	assert.Nil(t, outcome.Reservation.TableID)
	assert.Equal(t, model.ReservationWaitingList, outcome.Reservation.Status)
	assert.True(t, outcome.Receipt.Waitlisted)
	assert.Equal(t, WaitlistMarker, outcome.Receipt.TableLabel)
	assert.Equal(t, VirtualQueueLabel, outcome.Receipt.Zone)
	assert.Contains(t, outcome.Message, "lista de espera")

	// The small free table stays free.
	assert.Equal(t, model.TableFree, tables.tables[0].Status)
}

func TestProcessCategoryFromPlan(t *testing.T) {
	cases := []struct {
		plan string
		want string
	}{
		{"Master Experience", model.CategoryVIP},
		{"menú master parrilla", model.CategoryVIP},
		{"Standard", model.CategoryNormal},
		{"Degustación", model.CategoryNormal},
	}
	for _, tc := range cases {
		tables := &memTables{tables: []*model.Table{table(1, "Salón", 4)}}
		svc := NewService(newMemCustomers(), tables, newMemReservations())
		outcome, err := svc.Process(context.Background(), "CONFIRMAR_RESERVA: X, 300, hoy, 2, "+tc.plan)
		require.NoError(t, err)
		assert.Equal(t, tc.want, outcome.Reservation.Category, "plan %q", tc.plan)
	}
}

func TestProcessLookupErrorPropagates(t *testing.T) {
	customers := newMemCustomers()
	customers.findErr = errors.New("connection refused")
	svc := NewService(customers, &memTables{}, newMemReservations())

	outcome, err := svc.Process(context.Background(), "CONFIRMAR_RESERVA: X, 300, hoy, 2, Standard")
	assert.Nil(t, outcome)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "customer by phone", lookupErr.Op)
	assert.ErrorContains(t, err, "connection refused")
}

func TestProcessStateDesync(t *testing.T) {
	tables := &memTables{tables: []*model.Table{table(3, "Salón", 4)}}
	tables.reserveErr = errors.New("driver: bad connection")
	reservations := newMemReservations()
	svc := NewService(newMemCustomers(), tables, reservations)

	outcome, err := svc.Process(context.Background(), "CONFIRMAR_RESERVA: X, 300, hoy, 2, Standard")
	assert.Nil(t, outcome)

	var desync *StateDesyncError
	require.True(t, errors.As(err, &desync))
	assert.Equal(t, uint64(3), desync.TableID)
	// The reservation row was already written before the transition failed.
	assert.Equal(t, desync.ReservationID, reservations.rows[0].ID)
}

func TestProcessRaceLoserIsDemoted(t *testing.T) {
	tables := &memTables{tables: []*model.Table{table(1, "Salón", 4)}}
	reservations := newMemReservations()
	svc := NewService(newMemCustomers(), tables, reservations)

	texts := []string{
		"CONFIRMAR_RESERVA: Ana, 300, hoy 20:00, 2, Standard",
		"CONFIRMAR_RESERVA: Luis, 311, hoy 20:30, 2, Standard",
	}

	var wg sync.WaitGroup
	outcomes := make([]*Outcome, len(texts))
	errs := make([]error, len(texts))
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Process(context.Background(), text)
		}(i, text)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	// Exactly one attempt holds the table; the other landed on the
	// waitlist, whether it lost the allocation or the transition.
	confirmed := reservations.byStatus(model.ReservationConfirmed)
	waitlisted := reservations.byStatus(model.ReservationWaitingList)
	require.Len(t, confirmed, 1)
	require.Len(t, waitlisted, 1)
	assert.Nil(t, waitlisted[0].TableID)
	assert.Equal(t, model.TableReserved, tables.tables[0].Status)

	var confirmedCount int
	for _, out := range outcomes {
		if !out.Receipt.Waitlisted {
			confirmedCount++
		}
	}
	assert.Equal(t, 1, confirmedCount)
}
