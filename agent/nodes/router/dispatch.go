package routernode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/extract"
)

const (
	dataRetrievedPrefix = "Data retrieved: "
	errorPrefix         = "ERROR: "
)

// callAgent never fails: a transport or agent error becomes an ERROR string
// that downstream steps treat as a result.
func callAgent(
	ctx context.Context,
	caller contractx.AgentCaller,
	agentID contractx.AgentType,
	text string,
	logger zerolog.Logger,
) string {
	logger.Info().Str("agent", string(agentID)).Msg("router -> agent")
	out, err := caller.Call(ctx, agentID, []contractx.Message{contractx.UserMessage(text)})
	if err != nil {
		logger.Error().Err(err).Str("agent", string(agentID)).Msg("agent call failed")
		return errorPrefix + err.Error()
	}
	logger.Info().Str("agent", string(agentID)).Int("len", len(out)).Msg("agent -> router")
	return out
}

func DataPath(ctx context.Context, in *GraphState, caller contractx.AgentCaller, logger zerolog.Logger) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	result := callAgent(ctx, caller, contractx.AgentTypeData, in.AnnotatedQuery, logger)
	if err := recordDataResult(in, result); err != nil {
		return nil, err
	}
	in.Reply = dataRetrievedPrefix + result
	return in, nil
}

func SupportPath(ctx context.Context, in *GraphState, caller contractx.AgentCaller, logger zerolog.Logger) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Reply = callAgent(ctx, caller, contractx.AgentTypeSupport, in.Query, logger)
	return in, nil
}

// CoordinationPath fetches customer data, analyses it when the lookup
// worked, and hands both to the support agent.
func CoordinationPath(
	ctx context.Context,
	in *GraphState,
	caller contractx.AgentCaller,
	analyst contractx.Analyst,
	logger zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	data := callAgent(ctx, caller, contractx.AgentTypeData, in.AnnotatedQuery, logger)
	if err := recordDataResult(in, data); err != nil {
		return nil, err
	}

	switch {
	case extract.HasErrorMarker(data):
		logger.Warn().Msg("customer data retrieval failed, skipping analysis")
		in.Analysis = FailedLookupNote(data)
	case analyst != nil:
		analysis, err := analyst.Analyze(ctx, in.Query, data)
		if err != nil {
			logger.Warn().Err(err).Msg("analysis failed, continuing without it")
		}
		in.Analysis = strings.TrimSpace(analysis)
	}
	if in.Analysis != "" {
		if err := in.Conversation.Append(contractx.AssistantMessage(in.Analysis)); err != nil {
			return nil, err
		}
	}

	in.Reply = callAgent(ctx, caller, contractx.AgentTypeSupport, SupportMessage(in.Query, data, in.Analysis), logger)
	return in, nil
}

// recordDataResult keeps the data agent's answer as the request's data
// context and as a tool message in the history.
func recordDataResult(in *GraphState, result string) error {
	in.Conversation.SetDataContext(result)
	return in.Conversation.Append(contractx.ToolMessage(result))
}

func FailedLookupNote(dataResult string) string {
	return fmt.Sprintf("Customer data retrieval failed: %s. The customer ID may not exist in the database.", dataResult)
}

// SupportMessage is the composite the support agent receives on the
// coordination path. The analysis line is left out when there is none.
func SupportMessage(query, dataResult, analysis string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer Query: %s\n\nData Agent Result: %s", query, dataResult)
	if analysis != "" {
		fmt.Fprintf(&b, "\n\nSupport Context: %s", analysis)
	}
	return b.String()
}
