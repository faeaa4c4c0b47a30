package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

func baseConfig() Config {
	return Config{
		Provider:           ProviderOpenRouter,
		APIKey:             "sk-test",
		Model:              "default-model",
		Temperature:        0.2,
		MaxCompletionToken: 500,
		RouterTemperature:  0,
		DataTemperature:    -1,
		SupportTemperature: 0.7,
	}
}

func TestModelForOverrides(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.SupportModel = "support-model"

	tests := []struct {
		agent     contractx.AgentType
		wantModel string
		wantTemp  float32
	}{
		{contractx.AgentTypeRouter, "default-model", 0},
		{contractx.AgentTypeData, "default-model", 0.2},
		{contractx.AgentTypeSupport, "support-model", 0.7},
	}
	for _, tt := range tests {
		t.Run(string(tt.agent), func(t *testing.T) {
			t.Parallel()
			model, temp := cfg.modelFor(tt.agent)
			if model != tt.wantModel || temp != tt.wantTemp {
				t.Fatalf("modelFor(%s) = %s, %v; want %s, %v", tt.agent, model, temp, tt.wantModel, tt.wantTemp)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noKey := baseConfig()
	noKey.APIKey = " "
	if err := noKey.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	badProvider := baseConfig()
	badProvider.Provider = "anthropic-direct"
	if err := badProvider.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClassifierClientOnlyForOpenRouter(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.RouterModel = "router-model"
	client, model := cfg.ClassifierClient()
	if client == nil || model != "router-model" {
		t.Fatalf("ClassifierClient() = %v, %q", client, model)
	}

	cfg.Provider = ProviderGemini
	if client, _ := cfg.ClassifierClient(); client != nil {
		t.Fatal("gemini provider should not expose a completion client")
	}
}
