package specialist

import (
	"context"
	"fmt"
	"io"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
)

const noCustomerData = "No customer data available. Ask the customer for their customer ID to retrieve their information."

const supportUserTemplate = "Customer Query: {query}\n\n" +
	"Data from Data Agent:\n{context}\n\n" +
	"Answer the customer's query using the data above and reference its details. " +
	"Do not ask for information the data already contains. " +
	"If the data shows an error, address that in your reply."

// SupportAgent writes the customer facing reply from a query and whatever
// customer data accompanies it.
type SupportAgent struct {
	runner compose.Runnable[map[string]any, *schema.Message]
	closer io.Closer
	logger zerolog.Logger
}

var _ contractx.Agent = (*SupportAgent)(nil)

func NewSupportAgent(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*SupportAgent, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: support agent prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileTemplateGraph(ctx, chatModel, systemPrompt, supportUserTemplate, "support.reply_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &SupportAgent{
		runner: runner,
		closer: modelCloser(chatModel),
		logger: logx.Component("support_agent"),
	}, nil
}

func (a *SupportAgent) Close() error {
	return closeModel(a.closer)
}

func (a *SupportAgent) Invoke(ctx context.Context, msgs []contractx.Message) (string, error) {
	sc := ExtractSupportContext(msgs)
	if sc.Query == "" {
		return "", fmt.Errorf("%w: empty query", contractx.ErrValidation)
	}

	data := sc.Data
	if data == "" {
		data = noCustomerData
	}
	a.logger.Debug().Int("context_len", len(sc.Data)).Msg("support context extracted")

	reply, err := a.runner.Invoke(ctx, map[string]any{
		"query":   sc.Query,
		"context": data,
	})
	if err != nil {
		return "", fmt.Errorf("%w: support reply: %v", contractx.ErrModelInvoke, err)
	}
	content := strings.TrimSpace(reply.Content)
	if content == "" {
		return "", fmt.Errorf("%w: support reply is empty", contractx.ErrSchemaViolation)
	}
	return content, nil
}
