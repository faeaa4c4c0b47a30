package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// GraphAnalyst summarises the support a customer needs before the router
// hands over to the support agent.
type GraphAnalyst struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Analyst = (*GraphAnalyst)(nil)

func NewGraphAnalyst(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*GraphAnalyst, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: router analysis prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileConversationGraph(ctx, chatModel, systemPrompt, "router.analysis_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &GraphAnalyst{runner: runner}, nil
}

func AnalysisQuery(query, dataResult string) string {
	return fmt.Sprintf(
		"Original Query: %s\n\nCustomer Data: %s\n\nWhat support does this customer need? Provide a brief summary for the support agent.",
		query, dataResult,
	)
}

func (a *GraphAnalyst) Analyze(ctx context.Context, query string, dataResult string) (string, error) {
	reply, err := a.runner.Invoke(ctx, map[string]any{
		historyKey: []*schema.Message{schema.UserMessage(AnalysisQuery(query, dataResult))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: analysis: %v", contractx.ErrModelInvoke, err)
	}
	content := strings.TrimSpace(reply.Content)
	if content == "" {
		return "", fmt.Errorf("%w: analysis is empty", contractx.ErrSchemaViolation)
	}
	return content, nil
}
