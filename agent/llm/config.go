package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	geminix "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/gemini"
	openrouterx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Provider           string        `envconfig:"PROVIDER" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"google/gemini-2.5-flash-lite"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RouterModel        string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	DataModel          string  `envconfig:"DATA_MODEL" split_words:"true"`
	SupportModel       string  `envconfig:"SUPPORT_MODEL" split_words:"true"`
	RouterTemperature  float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"0"`
	DataTemperature    float32 `envconfig:"DATA_TEMPERATURE" split_words:"true" default:"-1"`
	SupportTemperature float32 `envconfig:"SUPPORT_TEMPERATURE" split_words:"true" default:"0.7"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.provider() {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenRouter
	}
	return p
}

// modelFor resolves the model name and temperature of one agent. A negative
// per-agent temperature means the default applies.
func (c Config) modelFor(agentType contractx.AgentType) (string, float32) {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	var override string
	var overrideTemp float32 = -1
	switch agentType {
	case contractx.AgentTypeRouter:
		override, overrideTemp = c.RouterModel, c.RouterTemperature
	case contractx.AgentTypeData:
		override, overrideTemp = c.DataModel, c.DataTemperature
	case contractx.AgentTypeSupport:
		override, overrideTemp = c.SupportModel, c.SupportTemperature
	}
	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}
	if overrideTemp >= 0 {
		temp = overrideTemp
	}
	return modelName, temp
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName, temp := c.modelFor(agentType)
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) GeminiFor(agentType contractx.AgentType) geminix.Config {
	modelName, temp := c.modelFor(agentType)
	return geminix.Config{
		APIKey:          strings.TrimSpace(c.APIKey),
		Model:           modelName,
		Temperature:     temp,
		MaxOutputTokens: int32(c.MaxCompletionToken),
		Timeout:         c.Timeout,
	}
}

// ChatModel builds the configured provider's model for one agent.
func (c Config) ChatModel(ctx context.Context, agentType contractx.AgentType) (einomodel.ToolCallingChatModel, error) {
	var (
		m   einomodel.ToolCallingChatModel
		err error
	)
	switch c.provider() {
	case ProviderGemini:
		cfg := c.GeminiFor(agentType)
		m, err = cfg.New(ctx)
	default:
		cfg := c.OpenRouterFor(agentType)
		m, err = cfg.New(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, agentType, err)
	}
	return m, nil
}

// ClassifierClient returns a raw OpenAI SDK client for the router's single
// label call. Only the OpenAI-compatible provider has one.
func (c Config) ClassifierClient() (*openaisdk.Client, string) {
	if c.provider() != ProviderOpenRouter {
		return nil, ""
	}
	cfg := c.OpenRouterFor(contractx.AgentTypeRouter)
	return openrouterx.NewClient(cfg), cfg.Model
}
