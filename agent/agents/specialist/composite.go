package specialist

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	openTicketsScanLimit   = 20
	openTicketsConcurrency = 4
	noOpenTickets          = "No active customers with open tickets found"
)

type openTicketsEntry struct {
	CustomerID    int64             `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	OpenTickets   []json.RawMessage `json:"open_tickets"`
}

// openTicketsFragment fetches the history of the first customers of a list
// result and keeps those with open tickets, in list order. A failed history
// lookup drops only that customer.
func openTicketsFragment(ctx context.Context, tools contractx.ToolGateway, listResult json.RawMessage, logger zerolog.Logger) string {
	customers := gjson.ParseBytes(listResult).Array()
	if len(customers) > openTicketsScanLimit {
		customers = customers[:openTicketsScanLimit]
	}

	entries := make([]*openTicketsEntry, len(customers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(openTicketsConcurrency)

	for i, c := range customers {
		id := c.Get("id").Int()
		if id <= 0 {
			continue
		}
		g.Go(func() error {
			history, err := tools.Call(gctx, toolx.GetCustomerHistory, map[string]any{"customer_id": id})
			if err != nil {
				logger.Warn().Err(err).Int64("customer_id", id).Msg("history lookup failed")
				return nil
			}
			open := gjson.GetBytes(history, `#(status=="open")#`).Array()
			if len(open) == 0 {
				return nil
			}
			tickets := make([]json.RawMessage, 0, len(open))
			for _, t := range open {
				tickets = append(tickets, json.RawMessage(t.Raw))
			}
			entries[i] = &openTicketsEntry{
				CustomerID:    id,
				CustomerName:  c.Get("name").String(),
				CustomerEmail: c.Get("email").String(),
				OpenTickets:   tickets,
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]*openTicketsEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			results = append(results, e)
		}
	}
	if len(results) == 0 {
		return noOpenTickets
	}

	body, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return noOpenTickets
	}
	return "filtered_results: " + string(body)
}
