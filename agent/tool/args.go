package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// Args is the typed argument set of one operation.
type Args interface {
	Operation() string
	// Validate reports missing or malformed required fields.
	Validate() error
}

type GetCustomerArgs struct {
	CustomerID int64 `json:"customer_id" jsonschema:"required,description=Numeric customer id"`
}

type ListCustomersArgs struct {
	Status string `json:"status,omitempty" jsonschema:"description=Filter by exact status,enum=active,enum=disabled"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum number of customers,default=100,minimum=1"`
}

type UpdateCustomerArgs struct {
	CustomerID int64   `json:"customer_id" jsonschema:"required,description=Numeric customer id"`
	Name       *string `json:"name,omitempty" jsonschema:"description=New name"`
	Email      *string `json:"email,omitempty" jsonschema:"description=New email address"`
	Phone      *string `json:"phone,omitempty" jsonschema:"description=New phone number"`
	Status     *string `json:"status,omitempty" jsonschema:"description=New status,enum=active,enum=disabled"`
}

type CreateTicketArgs struct {
	CustomerID int64  `json:"customer_id" jsonschema:"required,description=Numeric customer id"`
	Issue      string `json:"issue" jsonschema:"required,description=Description of the problem"`
	Priority   string `json:"priority" jsonschema:"required,description=Ticket priority,enum=low,enum=medium,enum=high"`
}

type GetCustomerHistoryArgs struct {
	CustomerID int64 `json:"customer_id" jsonschema:"required,description=Numeric customer id"`
}

type OpenTicketsArgs struct{}

func (*GetCustomerArgs) Operation() string        { return GetCustomer }
func (*ListCustomersArgs) Operation() string      { return ListCustomers }
func (*UpdateCustomerArgs) Operation() string     { return UpdateCustomer }
func (*CreateTicketArgs) Operation() string       { return CreateTicket }
func (*GetCustomerHistoryArgs) Operation() string { return GetCustomerHistory }
func (*OpenTicketsArgs) Operation() string        { return GetCustomersWithOpenTickets }

func (a *GetCustomerArgs) Validate() error        { return requireID(a.CustomerID) }
func (a *GetCustomerHistoryArgs) Validate() error { return requireID(a.CustomerID) }
func (a *UpdateCustomerArgs) Validate() error     { return requireID(a.CustomerID) }
func (*OpenTicketsArgs) Validate() error          { return nil }

func (a *ListCustomersArgs) Validate() error {
	if a.Limit < 0 {
		return fmt.Errorf("%w: limit must be positive", contractx.ErrInvalidArgument)
	}
	return nil
}

func (a *CreateTicketArgs) Validate() error {
	var missing []string
	if a.CustomerID <= 0 {
		missing = append(missing, "customer_id")
	}
	if strings.TrimSpace(a.Issue) == "" {
		missing = append(missing, "issue")
	}
	if strings.TrimSpace(a.Priority) == "" {
		missing = append(missing, "priority")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required field(s): %s", contractx.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	if !ValidPriority(a.Priority) {
		return fmt.Errorf("%w: priority must be one of low, medium, high", contractx.ErrInvalidArgument)
	}
	return nil
}

// Empty reports whether the patch carries no field to change.
func (a *UpdateCustomerArgs) Empty() bool {
	return a.Name == nil && a.Email == nil && a.Phone == nil && a.Status == nil
}

func ValidPriority(p string) bool {
	switch p {
	case "low", "medium", "high":
		return true
	}
	return false
}

func requireID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: customer_id is required", contractx.ErrInvalidArgument)
	}
	return nil
}

// Decode converts a loosely typed argument mapping into the operation's typed
// arguments and validates them. Numeric strings are accepted for numbers.
func Decode(name string, raw map[string]any) (Args, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, UnknownOperationError(name)
	}

	args := spec.newArgs()
	if err := decodeInto(raw, args); err != nil {
		return nil, fmt.Errorf("%w: %s arguments: %v", contractx.ErrInvalidArgument, name, err)
	}
	if l, ok := args.(*ListCustomersArgs); ok && l.Limit == 0 {
		l.Limit = DefaultListLimit
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}
	return args, nil
}

func UnknownOperationError(name string) error {
	return fmt.Errorf("%w: unknown tool %q, valid tools: %s", contractx.ErrNotFound, name, strings.Join(Names(), ", "))
}

// ToMap renders typed arguments back into the wire mapping.
func ToMap(args Args) (map[string]any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInto(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func parseID(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), x > 0
	case int64:
		return x, x > 0
	case float64:
		if x <= 0 || x != float64(int64(x)) {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil && n > 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}
