package toolbackend

import (
	"context"
	"time"
)

var seedCustomers = []Customer{
	{Name: "John Doe", Email: "john.doe@example.com", Phone: "+1-555-0101", Status: StatusActive},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+1-555-0102", Status: StatusActive},
	{Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1-555-0103", Status: StatusDisabled},
	{Name: "Alice Williams", Email: "alice.w@techcorp.com", Phone: "+1-555-0104", Status: StatusActive},
	{Name: "Charlie Brown", Email: "charlie.brown@email.com", Phone: "+1-555-0105", Status: StatusActive},
	{Name: "Diana Prince", Email: "diana.prince@company.org", Phone: "+1-555-0106", Status: StatusActive},
	{Name: "Edward Norton", Email: "e.norton@business.net", Phone: "+1-555-0107", Status: StatusDisabled},
	{Name: "Fiona Green", Email: "fiona.green@startup.io", Phone: "+1-555-0108", Status: StatusActive},
	{Name: "George Miller", Email: "george.m@enterprise.com", Phone: "+1-555-0109", Status: StatusActive},
	{Name: "Hannah Lee", Email: "hannah.lee@global.com", Phone: "+1-555-0110", Status: StatusActive},
}

type seedTicket struct {
	customer int // index into seedCustomers
	issue    string
	status   string
	priority string
	age      time.Duration
}

var seedTickets = []seedTicket{
	{0, "Cannot login to account", TicketOpen, "high", 48 * time.Hour},
	{0, "Request for account upgrade options", "resolved", "medium", 240 * time.Hour},
	{1, "Billing discrepancy on last invoice", "in_progress", "medium", 72 * time.Hour},
	{3, "Data export feature not working", TicketOpen, "high", 24 * time.Hour},
	{4, "Password reset email not received", "resolved", "low", 120 * time.Hour},
	{5, "API rate limit questions", TicketOpen, "low", 12 * time.Hour},
	{7, "Integration with third-party CRM failing", TicketOpen, "high", 6 * time.Hour},
	{8, "Invoice shows wrong company name", "in_progress", "medium", 36 * time.Hour},
	{9, "Feature request: dark mode", TicketOpen, "low", 96 * time.Hour},
	{2, "Account reactivation request", "resolved", "medium", 480 * time.Hour},
}

// Seed loads the demo customers and tickets into an empty database. It
// reports false when customers already exist.
func Seed(ctx context.Context, store *Store) (bool, error) {
	n, err := store.CountCustomers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	now := store.now()
	ids := make([]int64, len(seedCustomers))
	for i := range seedCustomers {
		c := seedCustomers[i]
		c.CreatedAt = now.Add(-time.Duration(len(seedCustomers)-i) * 24 * time.Hour)
		if err := store.CreateCustomer(ctx, &c); err != nil {
			return false, err
		}
		ids[i] = c.ID
	}

	for _, st := range seedTickets {
		t := &Ticket{
			CustomerID: ids[st.customer],
			Issue:      st.issue,
			Status:     st.status,
			Priority:   st.priority,
			CreatedAt:  now.Add(-st.age),
		}
		if _, err := store.db.NewInsert().Model(t).Exec(ctx); err != nil {
			return false, internal("seed ticket", err)
		}
	}
	return true, nil
}
