package repository

import (
	"context"
	"database/sql"

	"github.com/mesaflow/reservations-backend/internal/model"
)

// CustomerRepo provides data access to the `customers` table.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

// FindByPhone fetches a customer by exact phone match. The phone is
// used verbatim as the identity key; no normalization is applied.
// A missing customer surfaces as sql.ErrNoRows.
func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, phone, vip_status, created_at FROM customers WHERE phone = ? LIMIT 1",
		phone).Scan(&c.ID, &c.Name, &c.Phone, &c.VIP, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer and populates its ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (name, phone, vip_status) VALUES (?, ?, ?)",
		c.Name, c.Phone, c.VIP)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}
