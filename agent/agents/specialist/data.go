package specialist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/extract"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
)

const (
	// DataResultMarker prefixes every data agent reply.
	DataResultMarker = "Data Agent Result:"

	DefaultMaxToolRounds = 10
	noDataRetrieved      = "No data retrieved"
)

// DataAgent answers data questions by letting a tool-bound model pick tool
// backend operations, normalising its arguments and running them.
type DataAgent struct {
	tools       contractx.ToolGateway
	toolRunner  compose.Runnable[map[string]any, *schema.Message]
	finalRunner compose.Runnable[map[string]any, *schema.Message]
	maxRounds   int
	closer      io.Closer
	logger      zerolog.Logger
}

var _ contractx.Agent = (*DataAgent)(nil)

func NewDataAgent(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools contractx.ToolGateway,
) (*DataAgent, error) {
	if tools == nil {
		return nil, fmt.Errorf("%w: tool gateway is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: data agent prompt", contractx.ErrPromptMissing)
	}

	toolModel, err := chatModel.WithTools(toolx.DataAgentTools())
	if err != nil {
		return nil, fmt.Errorf("%w: bind data agent tools: %v", contractx.ErrModelInvoke, err)
	}
	toolRunner, err := compileConversationGraph(ctx, toolModel, systemPrompt, "data.tool_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	finalRunner, err := compileConversationGraph(ctx, chatModel, systemPrompt, "data.final_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	return &DataAgent{
		tools:       tools,
		toolRunner:  toolRunner,
		finalRunner: finalRunner,
		maxRounds:   DefaultMaxToolRounds,
		closer:      modelCloser(chatModel),
		logger:      logx.Component("data_agent"),
	}, nil
}

func (a *DataAgent) Close() error {
	return closeModel(a.closer)
}

// Invoke never fails on tool or model errors; they are reported inline in
// the result text.
func (a *DataAgent) Invoke(ctx context.Context, msgs []contractx.Message) (string, error) {
	query := contractx.LastUserContent(msgs)
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", contractx.ErrValidation)
	}

	fragments := a.runToolLoop(ctx, msgs, query)
	return formatDataResult(fragments), nil
}

func (a *DataAgent) runToolLoop(ctx context.Context, msgs []contractx.Message, query string) []string {
	history := toSchemaMessages(msgs)
	var fragments []string

	for round := 0; round < a.maxRounds; round++ {
		reply, err := a.toolRunner.Invoke(ctx, map[string]any{historyKey: history})
		if err != nil {
			if round == 0 {
				a.logger.Warn().Err(err).Msg("tool model failed, using rule pass")
				return a.runRules(ctx, query)
			}
			a.logger.Warn().Err(err).Int("round", round).Msg("tool model failed, stopping")
			return fragments
		}
		if reply == nil || len(reply.ToolCalls) == 0 {
			if round == 0 {
				a.logger.Info().Msg("model made no tool call, using rule pass")
				return a.runRules(ctx, query)
			}
			return fragments
		}

		history = append(history, reply)
		for _, call := range reply.ToolCalls {
			out := a.executeCall(ctx, call, query)
			fragments = append(fragments, out...)
			history = append(history, schema.ToolMessage(strings.Join(out, "\n"), call.ID))
		}
	}

	a.logger.Warn().Int("rounds", a.maxRounds).Msg("tool round cap reached, forcing final response")
	final, err := a.finalRunner.Invoke(ctx, map[string]any{historyKey: history})
	if err != nil {
		a.logger.Warn().Err(err).Msg("forced final response failed")
		return fragments
	}
	if content := strings.TrimSpace(final.Content); content != "" {
		fragments = append(fragments, "summary: "+content)
	}
	return fragments
}

func (a *DataAgent) executeCall(ctx context.Context, call schema.ToolCall, query string) []string {
	name := strings.TrimSpace(call.Function.Name)
	raw := decodeRawArgs(call.Function.Arguments)

	args, err := toolx.Normalize(name, raw, query)
	if err != nil {
		a.logger.Warn().Err(err).Str("tool", name).Msg("tool arguments rejected")
		return []string{toolError(name, err)}
	}
	if args.Operation() != name {
		a.logger.Info().Str("from", name).Str("to", args.Operation()).Msg("tool call redirected")
	}

	composite := args.Operation() == toolx.ListCustomers && extract.MentionsOpenTickets(query)
	return a.run(ctx, args, composite)
}

// run executes one normalised operation. With composite set, a customer
// list is followed by the open ticket fan-out.
func (a *DataAgent) run(ctx context.Context, args toolx.Args, composite bool) []string {
	op := args.Operation()
	payload, err := toolx.ToMap(args)
	if err != nil {
		return []string{toolError(op, err)}
	}

	a.logger.Debug().Str("tool", op).Interface("args", payload).Msg("calling tool backend")
	result, err := a.tools.Call(ctx, op, payload)
	if err != nil {
		a.logger.Warn().Err(err).Str("tool", op).Msg("tool call failed")
		return []string{toolError(op, err)}
	}

	out := []string{op + ": " + compactJSON(result)}
	if composite {
		out = append(out, openTicketsFragment(ctx, a.tools, result, a.logger))
	}
	return out
}

func toolError(op string, err error) string {
	return fmt.Sprintf("Error executing %s: %v", op, err)
}

func formatDataResult(fragments []string) string {
	if len(fragments) == 0 {
		return DataResultMarker + " " + noDataRetrieved
	}
	return DataResultMarker + " " + strings.Join(fragments, "\n")
}

// decodeRawArgs parses model arguments. Text that is not a JSON object is
// kept as a positional argument for the normaliser.
func decodeRawArgs(arguments string) map[string]any {
	trimmed := strings.TrimSpace(arguments)
	if trimmed == "" {
		return map[string]any{}
	}
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(trimmed), &raw); err == nil {
		return raw
	}
	return map[string]any{"__arg1": trimmed}
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
