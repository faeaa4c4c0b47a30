package specialist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
)

func newTestDataAgent(t *testing.T, model *fakeToolCallingModel, tools *fakeToolGateway) *DataAgent {
	t.Helper()
	agent, err := NewDataAgent(context.Background(), model, "data prompt", tools)
	if err != nil {
		t.Fatalf("NewDataAgent() error = %v", err)
	}
	return agent
}

func TestDataAgentPositionalArgument(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("call-1", toolx.GetCustomer, `{"__arg1":"5"}`),
			{Role: schema.Assistant, Content: "done"},
		},
	}
	tools := &fakeToolGateway{results: map[string]string{
		toolx.GetCustomer: `{"id": 5, "name": "Alice"}`,
	}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("Get customer information for ID 5"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	want := `Data Agent Result: get_customer: {"id":5,"name":"Alice"}`
	if out != want {
		t.Fatalf("unexpected result:\n got %q\nwant %q", out, want)
	}
	if len(tools.calls) != 1 || tools.calls[0].Args["customer_id"] != float64(5) {
		t.Fatalf("unexpected tool calls: %#v", tools.calls)
	}
	if len(model.inputs) != 2 {
		t.Fatalf("expected two model rounds, got %d", len(model.inputs))
	}
	last := model.inputs[1][len(model.inputs[1])-1]
	if last.Role != schema.Tool || last.ToolCallID != "call-1" {
		t.Fatalf("tool result not fed back: %#v", last)
	}
}

func TestDataAgentNoToolCallUsesRules(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{{Role: schema.Assistant, Content: "I can help with that."}},
	}
	tools := &fakeToolGateway{results: map[string]string{
		toolx.GetCustomer: `{"id":5}`,
	}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("Get customer information for ID 5"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != `Data Agent Result: get_customer: {"id":5}` {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestDataAgentModelErrorUsesRules(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{err: errors.New("upstream down")}
	tools := &fakeToolGateway{results: map[string]string{}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("What are your opening hours?"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	want := "Data Agent Result: Could not determine action from query: What are your opening hours?"
	if out != want {
		t.Fatalf("unexpected result: %q", out)
	}
	if len(tools.calls) != 0 {
		t.Fatalf("expected no tool calls, got %#v", tools.calls)
	}
}

func TestDataAgentToolErrorIsInline(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("c1", toolx.GetCustomer, `{"customer_id": 12345}`),
			{Role: schema.Assistant, Content: "not found"},
		},
	}
	tools := &fakeToolGateway{errs: map[string]error{
		toolx.GetCustomer: fmt.Errorf("%w: Customer not found", contractx.ErrNotFound),
	}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("I'm customer 12345 and need help upgrading my account"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "Error executing get_customer: not found: Customer not found") {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestDataAgentRejectsMissingID(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("c1", toolx.GetCustomerHistory, `{}`),
			{Role: schema.Assistant, Content: "stop"},
		},
	}
	tools := &fakeToolGateway{}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("show my ticket history"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.HasPrefix(out, "Data Agent Result: Error executing get_customer_history:") {
		t.Fatalf("unexpected result: %q", out)
	}
	if len(tools.calls) != 0 {
		t.Fatalf("no id must mean no backend call, got %#v", tools.calls)
	}
}

func TestDataAgentRedirectsUpgradeTicket(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("c1", toolx.CreateTicket, `{"customer_id": 7, "issue": "upgrade"}`),
			{Role: schema.Assistant, Content: "ok"},
		},
	}
	tools := &fakeToolGateway{results: map[string]string{toolx.GetCustomer: `{"id":7}`}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("I'm customer 7 and want to upgrade"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if names := tools.callNames(); len(names) != 1 || names[0] != toolx.GetCustomer {
		t.Fatalf("expected redirect to get_customer, got %v", names)
	}
	if !strings.Contains(out, "get_customer: ") {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestDataAgentOpenTicketsComposite(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("c1", toolx.ListCustomers, `{"status":"active"}`),
			{Role: schema.Assistant, Content: "done"},
		},
	}
	tools := &fakeToolGateway{results: map[string]string{
		toolx.ListCustomers:             `[{"id":1,"name":"Ann","email":"ann@example.com"},{"id":2,"name":"Bob","email":"bob@example.com"}]`,
		toolx.GetCustomerHistory + "/1": `[{"id":10,"status":"open","issue":"login"},{"id":11,"status":"closed","issue":"old"}]`,
		toolx.GetCustomerHistory + "/2": `[]`,
	}}

	out, err := newTestDataAgent(t, model, tools).Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("Show me all active customers who have open tickets"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "filtered_results:") {
		t.Fatalf("expected composite output, got %q", out)
	}
	if !strings.Contains(out, `"customer_name": "Ann"`) || strings.Contains(out, `"customer_name": "Bob"`) {
		t.Fatalf("unexpected composite customers: %q", out)
	}
	if strings.Contains(out, `"old"`) {
		t.Fatalf("closed ticket leaked into composite: %q", out)
	}
	if tools.calls[0].Args["status"] != "active" {
		t.Fatalf("unexpected list args: %#v", tools.calls[0].Args)
	}
}

func TestDataAgentRoundCapForcesFinal(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("c1", toolx.GetCustomer, `{"customer_id": 1}`),
			toolCallMessage("c2", toolx.GetCustomer, `{"customer_id": 1}`),
			{Role: schema.Assistant, Content: "customer 1 is Ann"},
		},
	}
	tools := &fakeToolGateway{results: map[string]string{toolx.GetCustomer: `{"id":1}`}}

	agent := newTestDataAgent(t, model, tools)
	agent.maxRounds = 2

	out, err := agent.Invoke(context.Background(), []contractx.Message{contractx.UserMessage("get customer 1")})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.HasSuffix(out, "summary: customer 1 is Ann") {
		t.Fatalf("expected forced final summary, got %q", out)
	}
	if len(tools.calls) != 2 {
		t.Fatalf("expected two tool calls, got %d", len(tools.calls))
	}
}

func TestDataAgentEmptyQuery(t *testing.T) {
	t.Parallel()

	agent := newTestDataAgent(t, &fakeToolCallingModel{}, &fakeToolGateway{})
	if _, err := agent.Invoke(context.Background(), nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPlanRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
		ops   []string
		note  string
	}{
		{name: "get customer", query: "Get customer information for ID 5", ops: []string{toolx.GetCustomer}},
		{name: "need help", query: "I'm customer 12345 and need help", ops: []string{toolx.GetCustomer}},
		{name: "update email with history", query: "Update my email to new@example.com and show my ticket history for customer 3",
			ops: []string{toolx.UpdateCustomer, toolx.GetCustomerHistory}},
		{name: "ticket history", query: "show my tickets, id 4", ops: []string{toolx.GetCustomerHistory}},
		{name: "ticket history without id", query: "show my tickets", note: "Could not determine customer id from query: show my tickets"},
		{name: "active customers", query: "list active customers", ops: []string{toolx.ListCustomers}},
		{name: "bare id", query: "anything about customer 9", ops: []string{toolx.GetCustomer}},
		{name: "nothing", query: "hello there", note: "Could not determine action from query: hello there"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			steps, note := planRules(tc.query)
			if note != tc.note {
				t.Fatalf("note = %q, want %q", note, tc.note)
			}
			if len(steps) != len(tc.ops) {
				t.Fatalf("got %d steps, want %d", len(steps), len(tc.ops))
			}
			for i, op := range tc.ops {
				if steps[i].args.Operation() != op {
					t.Fatalf("step %d = %s, want %s", i, steps[i].args.Operation(), op)
				}
			}
		})
	}
}

func TestPlanRulesActiveCustomersIsComposite(t *testing.T) {
	t.Parallel()

	steps, _ := planRules("Show me all active customers")
	if len(steps) != 1 || !steps[0].composite {
		t.Fatalf("expected composite list step, got %#v", steps)
	}
	list, ok := steps[0].args.(*toolx.ListCustomersArgs)
	if !ok || list.Status != "active" || list.Limit != toolx.DefaultListLimit {
		t.Fatalf("unexpected list args: %#v", steps[0].args)
	}
}
