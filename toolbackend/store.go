package toolbackend

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// CustomerPatch holds the fields of a partial update. Nil leaves the column
// unchanged.
type CustomerPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *string
}

func (p CustomerPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Status == nil
}

// Fields lists the patched columns and their new values.
func (p CustomerPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if p.Phone != nil {
		out["phone"] = *p.Phone
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	return out
}

// Store is the customer and ticket storage. Operations are independent; no
// transaction spans two of them.
type Store struct {
	db  bun.IDB
	now func() time.Time
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	c := new(Customer)
	err := s.db.NewSelect().Model(c).Where("c.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Customer not found")
	}
	if err != nil {
		return nil, internal("get customer", err)
	}
	return c, nil
}

// ListCustomers filters by exact status when status is non-empty.
func (s *Store) ListCustomers(ctx context.Context, status string, limit int) ([]Customer, error) {
	customers := []Customer{}
	q := s.db.NewSelect().Model(&customers).Order("c.id ASC")
	if status != "" {
		q = q.Where("c.status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, internal("list customers", err)
	}
	return customers, nil
}

// UpdateCustomer applies a non-empty patch and reports NotFound when no row
// matched.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, patch CustomerPatch) error {
	q := s.db.NewUpdate().Model((*Customer)(nil)).Where("id = ?", id)
	for col, val := range patch.Fields() {
		q = q.Set("? = ?", bun.Ident(col), val)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return internal("update customer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return internal("update customer", err)
	}
	if n == 0 {
		return notFound("Customer not found")
	}
	return nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.Status == "" {
		c.Status = StatusActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return internal("create customer", err)
	}
	return nil
}

// CreateTicket inserts an open ticket and fills in its id.
func (s *Store) CreateTicket(ctx context.Context, t *Ticket) error {
	t.Status = TicketOpen
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if _, err := s.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return internal("create ticket", err)
	}
	return nil
}

// CustomerHistory returns the customer's tickets newest first. An unknown
// customer yields an empty list.
func (s *Store) CustomerHistory(ctx context.Context, customerID int64) ([]Ticket, error) {
	tickets := []Ticket{}
	err := s.db.NewSelect().
		Model(&tickets).
		Where("t.customer_id = ?", customerID).
		Order("t.created_at DESC", "t.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal("customer history", err)
	}
	return tickets, nil
}

func (s *Store) CustomersWithOpenTickets(ctx context.Context) ([]Customer, error) {
	customers := []Customer{}
	open := s.db.NewSelect().
		Model((*Ticket)(nil)).
		ColumnExpr("t.customer_id").
		Where("t.status = ?", TicketOpen)
	err := s.db.NewSelect().
		Model(&customers).
		Where("c.id IN (?)", open).
		Order("c.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal("customers with open tickets", err)
	}
	return customers, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Customer)(nil)).Count(ctx)
	if err != nil {
		return 0, internal("count customers", err)
	}
	return n, nil
}
