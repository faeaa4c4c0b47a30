package routernode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

type fakeCaller struct {
	replies map[contractx.AgentType]string
	errs    map[contractx.AgentType]error
	sent    map[contractx.AgentType][]string
}

func (f *fakeCaller) Call(ctx context.Context, agentID contractx.AgentType, msgs []contractx.Message) (string, error) {
	if f.sent == nil {
		f.sent = map[contractx.AgentType][]string{}
	}
	f.sent[agentID] = append(f.sent[agentID], contractx.LastUserContent(msgs))
	if err := f.errs[agentID]; err != nil {
		return "", err
	}
	return f.replies[agentID], nil
}

type fakeClassifier struct {
	mode  contractx.Mode
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, query string) (contractx.Mode, error) {
	f.calls++
	return f.mode, f.err
}

type fakeAnalyst struct {
	out   string
	err   error
	calls int
}

func (f *fakeAnalyst) Analyze(ctx context.Context, query, dataResult string) (string, error) {
	f.calls++
	return f.out, f.err
}

func fixedNow() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func newState(t *testing.T, query string) *GraphState {
	t.Helper()
	st, err := ValidateRequest(GraphInput{Messages: []contractx.Message{contractx.UserMessage(query)}}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	st, err = AnnotateQuery(st)
	if err != nil {
		t.Fatalf("AnnotateQuery() error = %v", err)
	}
	return st
}

func alwaysSupport(string) contractx.Mode { return contractx.ModeSupport }

func TestValidateRequestRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := ValidateRequest(GraphInput{Messages: []contractx.Message{contractx.UserMessage("  ")}}, fixedNow)
	if !errors.Is(err, ErrInvalidMessage) || !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected invalid message, got %v", err)
	}
}

func TestClassifyFallbackOnError(t *testing.T) {
	t.Parallel()

	st := newState(t, "hello")
	classifier := &fakeClassifier{err: errors.New("model down")}
	st, err := Classify(context.Background(), st, classifier, alwaysSupport, zerolog.Nop())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if st.Conversation.Mode() != contractx.ModeSupport {
		t.Fatalf("unexpected mode: %s", st.Conversation.Mode())
	}
	if classifier.calls != 1 {
		t.Fatalf("classifier must be called once, got %d", classifier.calls)
	}
}

func TestClassifyFallbackOnInvalidLabel(t *testing.T) {
	t.Parallel()

	st := newState(t, "hello")
	st, err := Classify(context.Background(), st, &fakeClassifier{mode: "MAYBE"}, alwaysSupport, zerolog.Nop())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if route, _ := Route(st); route != NodeSupportPath {
		t.Fatalf("unexpected route: %s", route)
	}
}

func TestClassifyOnlyOnce(t *testing.T) {
	t.Parallel()

	st := newState(t, "hello")
	classifier := &fakeClassifier{mode: contractx.ModeData}
	st, err := Classify(context.Background(), st, classifier, alwaysSupport, zerolog.Nop())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if _, err := Classify(context.Background(), st, classifier, alwaysSupport, zerolog.Nop()); err == nil {
		t.Fatal("expected second classification to fail")
	}
}

func TestDataPathWrapsResult(t *testing.T) {
	t.Parallel()

	st := newState(t, "Get customer information for ID 5")
	caller := &fakeCaller{replies: map[contractx.AgentType]string{contractx.AgentTypeData: "Data Agent Result: get_customer: {}"}}
	st, err := DataPath(context.Background(), st, caller, zerolog.Nop())
	if err != nil {
		t.Fatalf("DataPath() error = %v", err)
	}
	if st.Reply != "Data retrieved: Data Agent Result: get_customer: {}" {
		t.Fatalf("unexpected reply: %q", st.Reply)
	}
	if len(caller.sent[contractx.AgentTypeSupport]) != 0 {
		t.Fatal("data path must not call support")
	}
}

func TestSupportPathSendsRawQuery(t *testing.T) {
	t.Parallel()

	st := newState(t, "my id 42 is broken")
	caller := &fakeCaller{replies: map[contractx.AgentType]string{contractx.AgentTypeSupport: "Sorry to hear that"}}
	st, err := SupportPath(context.Background(), st, caller, zerolog.Nop())
	if err != nil {
		t.Fatalf("SupportPath() error = %v", err)
	}
	if got := caller.sent[contractx.AgentTypeSupport][0]; got != "my id 42 is broken" {
		t.Fatalf("support must receive the raw query, got %q", got)
	}
	if st.Reply != "Sorry to hear that" {
		t.Fatalf("unexpected reply: %q", st.Reply)
	}
}

func TestCoordinationPathWithAnalysis(t *testing.T) {
	t.Parallel()

	st := newState(t, "I'm customer 1 and need help upgrading")
	caller := &fakeCaller{replies: map[contractx.AgentType]string{
		contractx.AgentTypeData:    `Data Agent Result: get_customer: {"id":1}`,
		contractx.AgentTypeSupport: "Hi Ann, here is how to upgrade.",
	}}
	analyst := &fakeAnalyst{out: "Wants an upgrade"}

	st, err := CoordinationPath(context.Background(), st, caller, analyst, zerolog.Nop())
	if err != nil {
		t.Fatalf("CoordinationPath() error = %v", err)
	}
	want := "Customer Query: I'm customer 1 and need help upgrading\n\n" +
		`Data Agent Result: Data Agent Result: get_customer: {"id":1}` +
		"\n\nSupport Context: Wants an upgrade"
	if got := caller.sent[contractx.AgentTypeSupport][0]; got != want {
		t.Fatalf("unexpected support message:\n got %q\nwant %q", got, want)
	}
	if st.Reply != "Hi Ann, here is how to upgrade." {
		t.Fatalf("unexpected reply: %q", st.Reply)
	}
}

func TestCoordinationPathNotFoundSkipsAnalysis(t *testing.T) {
	t.Parallel()

	st := newState(t, "I'm customer 12345 and need help upgrading my account")
	data := "Data Agent Result: Error executing get_customer: not found: Customer not found"
	caller := &fakeCaller{replies: map[contractx.AgentType]string{
		contractx.AgentTypeData:    data,
		contractx.AgentTypeSupport: "I'm sorry, we could not find that customer ID.",
	}}
	analyst := &fakeAnalyst{out: "unused"}

	if _, err := CoordinationPath(context.Background(), st, caller, analyst, zerolog.Nop()); err != nil {
		t.Fatalf("CoordinationPath() error = %v", err)
	}
	if analyst.calls != 0 {
		t.Fatal("analysis must be skipped on a failed lookup")
	}
	sent := caller.sent[contractx.AgentTypeSupport][0]
	if !strings.Contains(sent, FailedLookupNote(data)) {
		t.Fatalf("failed lookup note missing: %q", sent)
	}
}

func TestCoordinationPathDataTransportFailure(t *testing.T) {
	t.Parallel()

	st := newState(t, "refund for customer 3")
	caller := &fakeCaller{
		replies: map[contractx.AgentType]string{contractx.AgentTypeSupport: "We are looking into it."},
		errs:    map[contractx.AgentType]error{contractx.AgentTypeData: errors.New("connection refused")},
	}

	st, err := CoordinationPath(context.Background(), st, caller, &fakeAnalyst{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("CoordinationPath() error = %v", err)
	}
	if len(caller.sent[contractx.AgentTypeSupport]) != 1 {
		t.Fatal("support must still be called")
	}
	if !strings.Contains(caller.sent[contractx.AgentTypeSupport][0], "ERROR: connection refused") {
		t.Fatalf("error context missing: %q", caller.sent[contractx.AgentTypeSupport][0])
	}
	if st.Reply != "We are looking into it." {
		t.Fatalf("unexpected reply: %q", st.Reply)
	}
}

func TestCoordinationPathAnalysisErrorIsDropped(t *testing.T) {
	t.Parallel()

	st := newState(t, "billing issue for customer 2")
	caller := &fakeCaller{replies: map[contractx.AgentType]string{
		contractx.AgentTypeData:    `Data Agent Result: get_customer: {"id":2}`,
		contractx.AgentTypeSupport: "ok",
	}}

	if _, err := CoordinationPath(context.Background(), st, caller, &fakeAnalyst{err: errors.New("boom")}, zerolog.Nop()); err != nil {
		t.Fatalf("CoordinationPath() error = %v", err)
	}
	if strings.Contains(caller.sent[contractx.AgentTypeSupport][0], "Support Context:") {
		t.Fatalf("failed analysis must be omitted: %q", caller.sent[contractx.AgentTypeSupport][0])
	}
}

func TestFinalizeReplyRejectsEmpty(t *testing.T) {
	t.Parallel()

	st := newState(t, "hi")
	if _, err := FinalizeReply(st); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCoordinationPathRecordsHistory(t *testing.T) {
	t.Parallel()

	st := newState(t, "I'm customer 1 and need help upgrading")
	data := `Data Agent Result: get_customer: {"id":1}`
	caller := &fakeCaller{replies: map[contractx.AgentType]string{
		contractx.AgentTypeData:    data,
		contractx.AgentTypeSupport: "Hi Ann, here is how to upgrade.",
	}}

	st, err := CoordinationPath(context.Background(), st, caller, &fakeAnalyst{out: "Wants an upgrade"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("CoordinationPath() error = %v", err)
	}
	out, err := FinalizeReply(st)
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}

	want := []contractx.Message{
		contractx.UserMessage("I'm customer 1 and need help upgrading"),
		contractx.ToolMessage(data),
		contractx.AssistantMessage("Wants an upgrade"),
		contractx.AssistantMessage("Hi Ann, here is how to upgrade."),
	}
	if len(out.Messages) != len(want) {
		t.Fatalf("history = %#v, want %#v", out.Messages, want)
	}
	for i := range want {
		if out.Messages[i] != want[i] {
			t.Fatalf("message %d = %#v, want %#v", i, out.Messages[i], want[i])
		}
	}
	if st.Conversation.DataContext() != data {
		t.Fatalf("unexpected data context: %q", st.Conversation.DataContext())
	}
}

func TestDataPathRecordsToolMessage(t *testing.T) {
	t.Parallel()

	st := newState(t, "Get customer information for ID 5")
	data := "Data Agent Result: get_customer: {}"
	caller := &fakeCaller{replies: map[contractx.AgentType]string{contractx.AgentTypeData: data}}
	st, err := DataPath(context.Background(), st, caller, zerolog.Nop())
	if err != nil {
		t.Fatalf("DataPath() error = %v", err)
	}
	out, err := FinalizeReply(st)
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}

	roles := make([]contractx.Role, 0, len(out.Messages))
	for _, m := range out.Messages {
		roles = append(roles, m.Role)
	}
	want := []contractx.Role{contractx.RoleUser, contractx.RoleTool, contractx.RoleAssistant}
	if len(roles) != len(want) || roles[0] != want[0] || roles[1] != want[1] || roles[2] != want[2] {
		t.Fatalf("roles = %v, want %v", roles, want)
	}
	if out.Messages[1].Content != data || out.Messages[2].Content != "Data retrieved: "+data {
		t.Fatalf("unexpected history: %#v", out.Messages)
	}
}
