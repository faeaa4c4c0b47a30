package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/extract"
)

// positional keys some models use instead of named parameters
var positionalKeys = []string{"__arg1", "arg1", "input", "args"}

var idAliases = []string{"customer_id", "customerId", "customerID", "id", "customer"}

// Normalize turns an untrusted tool call from the data agent's model into typed
// arguments. Missing identifiers are recovered from the user's query; no
// default id is ever invented.
func Normalize(name string, raw map[string]any, query string) (Args, error) {
	in, text := flatten(raw)

	switch name {
	case GetCustomer:
		id, err := customerID(in, query)
		if err != nil {
			return nil, err
		}
		return &GetCustomerArgs{CustomerID: id}, nil

	case GetCustomerHistory:
		id, err := customerID(in, query)
		if err != nil {
			return nil, err
		}
		return &GetCustomerHistoryArgs{CustomerID: id}, nil

	case ListCustomers:
		return normalizeList(in, query), nil

	case UpdateCustomer:
		return normalizeUpdate(in, text, query)

	case CreateTicket:
		return normalizeCreateTicket(in, text, query)

	case GetCustomersWithOpenTickets:
		return &OpenTicketsArgs{}, nil
	}

	return nil, UnknownOperationError(name)
}

func normalizeList(in map[string]any, query string) *ListCustomersArgs {
	out := &ListCustomersArgs{Limit: DefaultListLimit}
	if s, ok := stringField(in, "status"); ok {
		out.Status = normalizeStatus(s)
	} else if s, ok := extract.Status(query); ok {
		out.Status = s
	}
	if v, ok := in["limit"]; ok {
		if n, ok := parseID(v); ok {
			out.Limit = int(n)
		}
	}
	return out
}

func normalizeUpdate(in map[string]any, text string, query string) (*UpdateCustomerArgs, error) {
	id, err := customerID(in, query)
	if err != nil {
		return nil, err
	}
	out := &UpdateCustomerArgs{CustomerID: id}

	if s, ok := stringField(in, "name"); ok {
		out.Name = &s
	}
	if s, ok := stringField(in, "phone"); ok {
		out.Phone = &s
	}
	if s, ok := stringField(in, "status"); ok {
		s = normalizeStatus(s)
		out.Status = &s
	}

	if s, ok := stringField(in, "email"); ok {
		out.Email = &s
	} else if s, ok := extract.QuotedEmail(text); ok {
		out.Email = &s
	} else if extract.HasUpdateEmailIntent(query) {
		if s, ok := extract.Email(query); ok {
			out.Email = &s
		}
	}

	return out, nil
}

// normalizeCreateTicket also redirects help and upgrade requests to a
// customer lookup: those queries need the account, not a new ticket.
func normalizeCreateTicket(in map[string]any, text string, query string) (Args, error) {
	id, err := customerID(in, query)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "upgrade") || strings.Contains(lower, "need help") {
		return &GetCustomerArgs{CustomerID: id}, nil
	}

	out := &CreateTicketArgs{CustomerID: id, Priority: "medium"}
	if s, ok := stringField(in, "issue"); ok {
		out.Issue = s
	} else if s, ok := stringField(in, "description"); ok {
		out.Issue = s
	} else if s, ok := extract.Issue(text); ok {
		out.Issue = s
	} else {
		out.Issue = strings.TrimSpace(query)
	}
	if s, ok := stringField(in, "priority"); ok {
		if p, ok := extract.Priority(s); ok {
			out.Priority = p
		}
	}
	return out, nil
}

// normalizeStatus maps the model's wording onto a stored status. Unknown values are
// passed through lowercased so the backend rejects them.
func normalizeStatus(s string) string {
	if st, ok := extract.Status(s); ok {
		return st
	}
	return strings.ToLower(s)
}

// customerID reads the id from the structured arguments, falling back to the
// query text when the argument is missing or unparseable.
func customerID(in map[string]any, query string) (int64, error) {
	for _, key := range idAliases {
		if v, ok := in[key]; ok {
			if id, ok := parseID(v); ok {
				return id, nil
			}
		}
	}
	if id, ok := extract.CustomerID(query); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: customer_id is required and none was found in the request", contractx.ErrInvalidArgument)
}

// flatten merges positional arguments into the named mapping. A digit string
// becomes customer_id, a stringified mapping is parsed and merged, and any
// other text is returned for field extraction.
func flatten(raw map[string]any) (map[string]any, string) {
	out := make(map[string]any, len(raw))
	var text string

	for k, v := range raw {
		if isPositional(k) {
			continue
		}
		out[k] = v
	}

	for _, key := range positionalKeys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case map[string]any:
			mergeMissing(out, x)
		case string:
			s := strings.TrimSpace(x)
			if m, ok := parseLooseMap(s); ok {
				mergeMissing(out, m)
				text = s
				continue
			}
			if _, ok := parseID(s); ok {
				setMissing(out, "customer_id", s)
				continue
			}
			text = s
		default:
			if _, ok := parseID(x); ok {
				setMissing(out, "customer_id", x)
			}
		}
	}

	return out, text
}

func isPositional(key string) bool {
	for _, k := range positionalKeys {
		if k == key {
			return true
		}
	}
	return false
}

// parseLooseMap accepts JSON or a Python-style dict literal.
func parseLooseMap(s string) (map[string]any, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, true
	}
	replacer := strings.NewReplacer("'", `"`, "None", "null", "True", "true", "False", "false")
	if err := json.Unmarshal([]byte(replacer.Replace(s)), &out); err == nil {
		return out, true
	}
	return nil, false
}

func mergeMissing(dst, src map[string]any) {
	for k, v := range src {
		setMissing(dst, k, v)
	}
}

func setMissing(m map[string]any, key string, v any) {
	if _, exists := m[key]; !exists {
		m[key] = v
	}
}

func stringField(in map[string]any, key string) (string, bool) {
	v, ok := in[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
