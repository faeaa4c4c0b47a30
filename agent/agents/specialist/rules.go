package specialist

import (
	"context"
	"strings"

	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/extract"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
)

// ruleStep is one operation chosen by the rule pass.
type ruleStep struct {
	args      toolx.Args
	composite bool
}

// planRules maps common phrasings to operations. It is used when the model
// makes no tool call. A non-empty note is reported when nothing applies.
func planRules(query string) ([]ruleStep, string) {
	lower := strings.ToLower(query)
	id, hasID := extract.CustomerID(query)

	switch {
	case strings.Contains(lower, "get customer") || strings.Contains(lower, "customer information"):
		if !hasID {
			return nil, ""
		}
		return []ruleStep{{args: &toolx.GetCustomerArgs{CustomerID: id}}}, ""

	case strings.Contains(lower, "i'm customer") || strings.Contains(lower, "i am customer") ||
		(strings.Contains(lower, "customer") && strings.Contains(lower, "need help")):
		if !hasID {
			return nil, ""
		}
		return []ruleStep{{args: &toolx.GetCustomerArgs{CustomerID: id}}}, ""

	case strings.Contains(lower, "update") && strings.Contains(lower, "email"):
		if !hasID {
			return nil, "Could not determine customer id from query: " + query
		}
		var steps []ruleStep
		if email, ok := extract.Email(query); ok {
			steps = append(steps, ruleStep{args: &toolx.UpdateCustomerArgs{CustomerID: id, Email: &email}})
		}
		if strings.Contains(lower, "history") || strings.Contains(lower, "ticket") {
			steps = append(steps, ruleStep{args: &toolx.GetCustomerHistoryArgs{CustomerID: id}})
		}
		return steps, ""

	case strings.Contains(lower, "ticket history") || strings.Contains(lower, "show my tickets"):
		if !hasID {
			return nil, "Could not determine customer id from query: " + query
		}
		return []ruleStep{{args: &toolx.GetCustomerHistoryArgs{CustomerID: id}}}, ""

	case strings.Contains(lower, "active customers") ||
		(strings.Contains(lower, "show") && strings.Contains(lower, "active") && strings.Contains(lower, "customers")):
		return []ruleStep{{
			args:      &toolx.ListCustomersArgs{Status: "active", Limit: toolx.DefaultListLimit},
			composite: true,
		}}, ""
	}

	if hasID {
		return []ruleStep{{args: &toolx.GetCustomerArgs{CustomerID: id}}}, ""
	}
	return nil, "Could not determine action from query: " + query
}

func (a *DataAgent) runRules(ctx context.Context, query string) []string {
	steps, note := planRules(query)
	var fragments []string
	for _, step := range steps {
		fragments = append(fragments, a.run(ctx, step.args, step.composite)...)
	}
	if note != "" {
		fragments = append(fragments, note)
	}
	return fragments
}
