package toolbackend

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"

	TicketOpen = "open"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,nullzero" json:"email"`
	Phone     string    `bun:"phone,nullzero" json:"phone"`
	Status    string    `bun:"status,notnull" json:"status"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Ticket.CustomerID is not enforced by a foreign key.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	CustomerID int64     `bun:"customer_id,notnull" json:"customer_id"`
	Issue      string    `bun:"issue,notnull" json:"issue"`
	Status     string    `bun:"status,notnull" json:"status"`
	Priority   string    `bun:"priority,notnull" json:"priority"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

func validCustomerStatus(s string) bool {
	return s == StatusActive || s == StatusDisabled
}
