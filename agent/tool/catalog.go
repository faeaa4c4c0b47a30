package tool

import (
	"sort"

	"github.com/cloudwego/eino/schema"
)

const (
	GetCustomer                 = "get_customer"
	ListCustomers               = "list_customers"
	UpdateCustomer              = "update_customer"
	CreateTicket                = "create_ticket"
	GetCustomerHistory          = "get_customer_history"
	GetCustomersWithOpenTickets = "get_customers_with_open_tickets"
)

const DefaultListLimit = 100

// Spec describes one tool backend operation.
type Spec struct {
	Name        string
	Description string
	// DataAgent marks operations offered to the data agent's model.
	DataAgent bool
	Params    map[string]*schema.ParameterInfo
	newArgs   func() Args
}

var catalog = []Spec{
	{
		Name:        GetCustomer,
		Description: "Get a customer record by id.",
		DataAgent:   true,
		Params: map[string]*schema.ParameterInfo{
			"customer_id": {Type: schema.Integer, Desc: "Numeric customer id", Required: true},
		},
		newArgs: func() Args { return &GetCustomerArgs{} },
	},
	{
		Name:        ListCustomers,
		Description: "List customers, optionally filtered by status.",
		DataAgent:   true,
		Params: map[string]*schema.ParameterInfo{
			"status": {Type: schema.String, Desc: "Filter by status", Enum: []string{"active", "disabled"}},
			"limit":  {Type: schema.Integer, Desc: "Maximum number of customers, default 100"},
		},
		newArgs: func() Args { return &ListCustomersArgs{} },
	},
	{
		Name:        UpdateCustomer,
		Description: "Update customer fields. Only supplied fields change.",
		DataAgent:   true,
		Params: map[string]*schema.ParameterInfo{
			"customer_id": {Type: schema.Integer, Desc: "Numeric customer id", Required: true},
			"name":        {Type: schema.String, Desc: "New name"},
			"email":       {Type: schema.String, Desc: "New email address"},
			"phone":       {Type: schema.String, Desc: "New phone number"},
			"status":      {Type: schema.String, Desc: "New status", Enum: []string{"active", "disabled"}},
		},
		newArgs: func() Args { return &UpdateCustomerArgs{} },
	},
	{
		Name:        CreateTicket,
		Description: "Open a support ticket for a customer.",
		DataAgent:   true,
		Params: map[string]*schema.ParameterInfo{
			"customer_id": {Type: schema.Integer, Desc: "Numeric customer id", Required: true},
			"issue":       {Type: schema.String, Desc: "Description of the problem", Required: true},
			"priority":    {Type: schema.String, Desc: "Ticket priority", Enum: []string{"low", "medium", "high"}, Required: true},
		},
		newArgs: func() Args { return &CreateTicketArgs{} },
	},
	{
		Name:        GetCustomerHistory,
		Description: "Get all tickets for a customer, newest first.",
		DataAgent:   true,
		Params: map[string]*schema.ParameterInfo{
			"customer_id": {Type: schema.Integer, Desc: "Numeric customer id", Required: true},
		},
		newArgs: func() Args { return &GetCustomerHistoryArgs{} },
	},
	{
		Name:        GetCustomersWithOpenTickets,
		Description: "List customers that have at least one open ticket.",
		Params:      map[string]*schema.ParameterInfo{},
		newArgs:     func() Args { return &OpenTicketsArgs{} },
	},
}

func Specs() []Spec {
	return append([]Spec(nil), catalog...)
}

func Lookup(name string) (Spec, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns every operation name in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

func (s Spec) ToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(s.Params),
	}
}

// DataAgentTools returns the tool infos bound to the data agent's model.
func DataAgentTools() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(catalog))
	for _, s := range catalog {
		if s.DataAgent {
			infos = append(infos, s.ToolInfo())
		}
	}
	return infos
}
