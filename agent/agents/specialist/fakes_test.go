package specialist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func toolCallMessage(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

type gatewayCall struct {
	Name string
	Args map[string]any
}

type fakeToolGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	results map[string]string
	errs    map[string]error
}

func (f *fakeToolGateway) Call(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, gatewayCall{Name: name, Args: args})

	key := name
	if id, ok := args["customer_id"]; ok {
		key = fmt.Sprintf("%s/%v", name, id)
	}
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if res, ok := f.results[key]; ok {
		return json.RawMessage(res), nil
	}
	if res, ok := f.results[name]; ok {
		return json.RawMessage(res), nil
	}
	return nil, fmt.Errorf("%w: no fake result for %s", contractx.ErrInternal, key)
}

func (f *fakeToolGateway) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.Name)
	}
	return names
}
