package specialist

import (
	"context"
	"io"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	llmx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/llm"
	promptx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/prompt"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
)

// RouterModels are the model backed steps the router uses.
type RouterModels struct {
	Classifier contractx.Classifier
	Analyst    contractx.Analyst

	closer io.Closer
}

func (m RouterModels) Close() error {
	return closeModel(m.closer)
}

// modelCloser returns the model's client closer when its provider holds one.
func modelCloser(m any) io.Closer {
	c, _ := m.(io.Closer)
	return c
}

func closeModel(c io.Closer) error {
	if c == nil {
		return nil
	}
	return c.Close()
}

func loadPrompts() (promptx.PromptSet, error) {
	prompts := promptx.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		return promptx.PromptSet{}, err
	}
	return prompts, nil
}

func NewDataFromConfig(ctx context.Context, cfg llmx.Config, tools contractx.ToolGateway) (*DataAgent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prompts, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	chatModel, err := cfg.ChatModel(ctx, contractx.AgentTypeData)
	if err != nil {
		return nil, err
	}
	agent, err := NewDataAgent(ctx, chatModel, prompts.Data, tools)
	if err != nil {
		_ = closeModel(modelCloser(chatModel))
		return nil, err
	}
	return agent, nil
}

func NewSupportFromConfig(ctx context.Context, cfg llmx.Config) (*SupportAgent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prompts, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	chatModel, err := cfg.ChatModel(ctx, contractx.AgentTypeSupport)
	if err != nil {
		return nil, err
	}
	agent, err := NewSupportAgent(ctx, chatModel, prompts.Support)
	if err != nil {
		_ = closeModel(modelCloser(chatModel))
		return nil, err
	}
	return agent, nil
}

// NewRouterModelsFromConfig prefers the direct completion classifier when the
// provider offers an OpenAI compatible client.
func NewRouterModelsFromConfig(ctx context.Context, cfg llmx.Config) (RouterModels, error) {
	if err := cfg.Validate(); err != nil {
		return RouterModels{}, err
	}
	prompts, err := loadPrompts()
	if err != nil {
		return RouterModels{}, err
	}
	chatModel, err := cfg.ChatModel(ctx, contractx.AgentTypeRouter)
	if err != nil {
		return RouterModels{}, err
	}
	closer := modelCloser(chatModel)

	analyst, err := NewGraphAnalyst(ctx, chatModel, prompts.RouterAnalysis)
	if err != nil {
		_ = closeModel(closer)
		return RouterModels{}, err
	}

	var classifier contractx.Classifier
	if client, modelName := cfg.ClassifierClient(); client != nil {
		classifier, err = NewCompletionClassifier(client, modelName, prompts.RouterClassify)
	} else {
		classifier, err = NewGraphClassifier(ctx, chatModel, prompts.RouterClassify)
	}
	if err != nil {
		_ = closeModel(closer)
		return RouterModels{}, err
	}
	logger := logx.Component("router_models")
	logger.Info().Str("classifier", classifierKind(classifier)).Msg("router models ready")

	return RouterModels{Classifier: classifier, Analyst: analyst, closer: closer}, nil
}

func classifierKind(c contractx.Classifier) string {
	switch c.(type) {
	case *CompletionClassifier:
		return "completion"
	case *GraphClassifier:
		return "graph"
	}
	return "unknown"
}
