package specialist

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

func TestExtractSupportContext(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		msgs      []contractx.Message
		wantQuery string
		wantData  string
	}{
		{
			name: "earlier data result",
			msgs: []contractx.Message{
				contractx.AssistantMessage(`Data Agent Result: get_customer: {"id":5}`),
				contractx.UserMessage("Can I upgrade?"),
			},
			wantQuery: "Can I upgrade?",
			wantData:  `get_customer: {"id":5}`,
		},
		{
			name: "most recent result wins",
			msgs: []contractx.Message{
				contractx.AssistantMessage("list_customers: []"),
				contractx.AssistantMessage(`get_customer: {"id":2}`),
				contractx.UserMessage("thanks"),
			},
			wantQuery: "thanks",
			wantData:  `get_customer: {"id":2}`,
		},
		{
			name: "composite query",
			msgs: []contractx.Message{
				contractx.UserMessage("Customer Query: I need help\n\nData Agent Result: Data Agent Result: get_customer: {\"id\":1}\n\nSupport Context: wants help"),
			},
			wantQuery: "I need help",
			wantData:  "get_customer: {\"id\":1}\n\nSupport Context: wants help",
		},
		{
			name: "multi-line composite query",
			msgs: []contractx.Message{
				contractx.UserMessage("Customer Query: I was charged twice.\nOrder 77 and order 78.\n\nData Agent Result: Data Agent Result: get_customer: {\"id\":2}"),
			},
			wantQuery: "I was charged twice.\nOrder 77 and order 78.",
			wantData:  "get_customer: {\"id\":2}",
		},
		{
			name: "json fragment",
			msgs: []contractx.Message{
				contractx.UserMessage(`here is my record {"id": 3, "name": "Cy"} please help`),
			},
			wantQuery: `here is my record {"id": 3, "name": "Cy"} please help`,
			wantData:  `{"id": 3, "name": "Cy"}`,
		},
		{
			name:      "no data",
			msgs:      []contractx.Message{contractx.UserMessage("What are your hours?")},
			wantQuery: "What are your hours?",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractSupportContext(tc.msgs)
			if got.Query != tc.wantQuery {
				t.Fatalf("query = %q, want %q", got.Query, tc.wantQuery)
			}
			if got.Data != tc.wantData {
				t.Fatalf("data = %q, want %q", got.Data, tc.wantData)
			}
		})
	}
}

func TestSupportAgentWithoutContextAsksForID(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{{Role: schema.Assistant, Content: "Could you share your customer ID?"}},
	}
	agent, err := NewSupportAgent(context.Background(), model, "support prompt")
	if err != nil {
		t.Fatalf("NewSupportAgent() error = %v", err)
	}

	out, err := agent.Invoke(context.Background(), []contractx.Message{contractx.UserMessage("Why was I charged twice?")})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "Could you share your customer ID?" {
		t.Fatalf("unexpected reply: %q", out)
	}

	prompt := model.inputs[0][len(model.inputs[0])-1].Content
	if !strings.Contains(prompt, "Customer Query: Why was I charged twice?") {
		t.Fatalf("query missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, noCustomerData) {
		t.Fatalf("no-data instruction missing from prompt: %q", prompt)
	}
}

func TestSupportAgentKeepsJSONBraces(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{{Role: schema.Assistant, Content: "Hi Ann"}},
	}
	agent, err := NewSupportAgent(context.Background(), model, "support prompt")
	if err != nil {
		t.Fatalf("NewSupportAgent() error = %v", err)
	}

	_, err = agent.Invoke(context.Background(), []contractx.Message{
		contractx.UserMessage("Customer Query: upgrade please\n\nData Agent Result: get_customer: {\"id\":1,\"name\":\"Ann\"}"),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	prompt := model.inputs[0][len(model.inputs[0])-1].Content
	if !strings.Contains(prompt, `{"id":1,"name":"Ann"}`) {
		t.Fatalf("data context not passed through: %q", prompt)
	}
}

func TestSupportAgentEmptyReply(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{responses: []*schema.Message{{Role: schema.Assistant, Content: "  "}}}
	agent, err := NewSupportAgent(context.Background(), model, "support prompt")
	if err != nil {
		t.Fatalf("NewSupportAgent() error = %v", err)
	}
	if _, err := agent.Invoke(context.Background(), []contractx.Message{contractx.UserMessage("hi")}); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

type closableModel struct {
	fakeToolCallingModel
	closed int
}

func (m *closableModel) Close() error {
	m.closed++
	return nil
}

func TestAgentsCloseTheirModel(t *testing.T) {
	t.Parallel()

	supportModel := &closableModel{}
	support, err := NewSupportAgent(context.Background(), supportModel, "support prompt")
	if err != nil {
		t.Fatalf("NewSupportAgent() error = %v", err)
	}
	if err := support.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if supportModel.closed != 1 {
		t.Fatalf("support model closed %d times, want 1", supportModel.closed)
	}

	dataModel := &closableModel{}
	data, err := NewDataAgent(context.Background(), dataModel, "data prompt", &fakeToolGateway{})
	if err != nil {
		t.Fatalf("NewDataAgent() error = %v", err)
	}
	if err := data.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if dataModel.closed != 1 {
		t.Fatalf("data model closed %d times, want 1", dataModel.closed)
	}

	if err := (RouterModels{}).Close(); err != nil {
		t.Fatalf("RouterModels.Close() without a model error = %v", err)
	}
}

func TestAgentsWithoutClosableModel(t *testing.T) {
	t.Parallel()

	support, err := NewSupportAgent(context.Background(), &fakeToolCallingModel{}, "support prompt")
	if err != nil {
		t.Fatalf("NewSupportAgent() error = %v", err)
	}
	if err := support.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
