package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

var (
	coordinationKeywords = []string{"help", "upgrade", "refund", "cancel", "billing", "charged"}
	dataKeywords         = []string{"get", "show", "list", "update"}
)

// KeywordClassify is the deterministic fallback used when the classifier
// model fails or answers with an unknown label.
func KeywordClassify(query string) contractx.Mode {
	lower := strings.ToLower(query)
	for _, w := range coordinationKeywords {
		if strings.Contains(lower, w) {
			return contractx.ModeCoordination
		}
	}
	for _, w := range dataKeywords {
		if strings.Contains(lower, w) {
			return contractx.ModeData
		}
	}
	return contractx.ModeSupport
}

// GraphClassifier asks an eino chat model for the label.
type GraphClassifier struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Classifier = (*GraphClassifier)(nil)

func NewGraphClassifier(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*GraphClassifier, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: router classify prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileConversationGraph(ctx, chatModel, systemPrompt, "router.classify_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &GraphClassifier{runner: runner}, nil
}

func (c *GraphClassifier) Classify(ctx context.Context, query string) (contractx.Mode, error) {
	reply, err := c.runner.Invoke(ctx, map[string]any{
		historyKey: []*schema.Message{schema.UserMessage(query)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return contractx.ParseMode(reply.Content)
}

// CompletionClassifier makes one short chat completion call through the
// OpenAI SDK. It skips the eino graph because the answer is a single token.
type CompletionClassifier struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
}

var _ contractx.Classifier = (*CompletionClassifier)(nil)

func NewCompletionClassifier(client *openaisdk.Client, model string, systemPrompt string) (*CompletionClassifier, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: classifier model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: router classify prompt", contractx.ErrPromptMissing)
	}
	return &CompletionClassifier{client: client, model: model, systemPrompt: systemPrompt}, nil
}

func (c *CompletionClassifier) Classify(ctx context.Context, query string) (contractx.Mode, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(c.systemPrompt),
			openaisdk.UserMessage(query),
		},
		Temperature: openaisdk.Float(0),
		MaxTokens:   openaisdk.Int(16),
	})
	if err != nil {
		return "", fmt.Errorf("%w: classify completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: classify completion has no choices", contractx.ErrSchemaViolation)
	}
	return contractx.ParseMode(resp.Choices[0].Message.Content)
}
