package toolbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/metrics"
)

const publishTimeout = 5 * time.Second

type Option func(*Service)

func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service runs tool operations by name over a Store.
type Service struct {
	store   *Store
	events  EventPublisher
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: NoopPublisher{},
		logger: logx.Component("tool_backend"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type UpdateResult struct {
	Status  string         `json:"status,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
	Message string         `json:"message,omitempty"`
}

type TicketResult struct {
	Status   string `json:"status"`
	TicketID int64  `json:"ticket_id"`
}

// Dispatch decodes loosely typed arguments and runs the named operation.
func (s *Service) Dispatch(ctx context.Context, name string, raw map[string]any) (result any, err error) {
	defer func() {
		s.metrics.ObserveTool(name, outcome(err))
		if err != nil {
			s.logger.Warn().Err(err).Str("tool", name).Msg("tool call failed")
		}
	}()

	args, err := toolx.Decode(name, raw)
	if err != nil {
		return nil, err
	}

	switch a := args.(type) {
	case *toolx.GetCustomerArgs:
		return s.store.GetCustomer(ctx, a.CustomerID)
	case *toolx.ListCustomersArgs:
		return s.store.ListCustomers(ctx, a.Status, a.Limit)
	case *toolx.UpdateCustomerArgs:
		return s.UpdateCustomer(ctx, a)
	case *toolx.CreateTicketArgs:
		return s.CreateTicket(ctx, a)
	case *toolx.GetCustomerHistoryArgs:
		return s.store.CustomerHistory(ctx, a.CustomerID)
	case *toolx.OpenTicketsArgs:
		return s.store.CustomersWithOpenTickets(ctx)
	default:
		return nil, toolx.UnknownOperationError(name)
	}
}

// Call runs an operation and returns its JSON encoded result.
func (s *Service) Call(ctx context.Context, name string, raw map[string]any) (json.RawMessage, error) {
	result, err := s.Dispatch(ctx, name, raw)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, internal("encode result", err)
	}
	return out, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, a *toolx.UpdateCustomerArgs) (*UpdateResult, error) {
	patch := CustomerPatch{Name: a.Name, Email: a.Email, Phone: a.Phone, Status: a.Status}
	if patch.Empty() {
		return &UpdateResult{Message: "No fields to update"}, nil
	}
	if patch.Status != nil && !validCustomerStatus(*patch.Status) {
		return nil, invalidArgument(fmt.Sprintf("status must be %s or %s", StatusActive, StatusDisabled))
	}
	if err := s.store.UpdateCustomer(ctx, a.CustomerID, patch); err != nil {
		return nil, err
	}

	fields := patch.Fields()
	s.publish(ctx, newEvent(EventCustomerUpdated, a.CustomerID, fields))
	return &UpdateResult{Status: "updated", Fields: fields}, nil
}

func (s *Service) CreateTicket(ctx context.Context, a *toolx.CreateTicketArgs) (*TicketResult, error) {
	t := &Ticket{CustomerID: a.CustomerID, Issue: a.Issue, Priority: a.Priority}
	if err := s.store.CreateTicket(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, newEvent(EventTicketCreated, t.CustomerID, t))
	return &TicketResult{Status: "ticket_created", TicketID: t.ID}, nil
}

func (s *Service) publish(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("event", e.Type).Int64("customer_id", e.CustomerID).Msg("publish event failed")
	}
}

func (s *Service) Close() error {
	return s.events.Close()
}
