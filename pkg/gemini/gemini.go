// Package gemini adapts Google's Gemini API to the eino chat model interface
// so agents can switch providers without touching their graphs.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey          string        `envconfig:"API_KEY" split_words:"true"`
	Model           string        `envconfig:"MODEL" split_words:"true" default:"gemini-2.0-flash"`
	Temperature     float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	MaxOutputTokens int32         `envconfig:"MAX_OUTPUT_TOKENS" split_words:"true" default:"2000"`
	Timeout         time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type ChatModel struct {
	client      *genai.Client
	closeOnce   *sync.Once
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	tools       []*genai.Tool
}

var (
	_ model.ToolCallingChatModel = (*ChatModel)(nil)
	_ io.Closer                  = (*ChatModel)(nil)
)

func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini: init client: %w", err)
	}
	return &ChatModel{
		client:      client,
		closeOnce:   &sync.Once{},
		model:       strings.TrimSpace(c.Model),
		temperature: c.Temperature,
		maxTokens:   c.MaxOutputTokens,
		timeout:     c.Timeout,
	}, nil
}

// Close releases the client. Models returned by WithTools share it, so the
// first Close from any of them wins and later calls are no-ops.
func (m *ChatModel) Close() error {
	if m.client == nil || m.closeOnce == nil {
		return nil
	}
	var err error
	m.closeOnce.Do(func() {
		err = m.client.Close()
	})
	return err
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		if t == nil {
			continue
		}
		params, err := toGenaiSchema(t)
		if err != nil {
			return nil, fmt.Errorf("gemini: tool %s: %w", t.Name, err)
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Desc,
			Parameters:  params,
		})
	}

	clone := *m
	clone.tools = []*genai.Tool{{FunctionDeclarations: decls}}
	return &clone, nil
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if len(input) == 0 {
		return nil, errors.New("gemini: empty input")
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	gm := m.client.GenerativeModel(m.model)
	gm.SetTemperature(m.temperature)
	if m.maxTokens > 0 {
		gm.SetMaxOutputTokens(m.maxTokens)
	}
	gm.Tools = m.tools

	system, history := toContents(input)
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(history) == 0 {
		return nil, errors.New("gemini: no user content")
	}

	session := gm.StartChat()
	session.History = history[:len(history)-1]
	last := history[len(history)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: empty response")
	}

	return fromParts(resp.Candidates[0].Content.Parts)
}

// Stream returns the full response as a single chunk.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toContents(input []*schema.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(input))
	callNames := map[string]string{}

	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			parts := []genai.Part{}
			if strings.TrimSpace(msg.Content) != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				args := map[string]any{}
				_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
				parts = append(parts, genai.FunctionCall{Name: call.Function.Name, Args: args})
				callNames[call.ID] = call.Function.Name
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		case schema.Tool:
			name := callNames[msg.ToolCallID]
			if name == "" {
				name = "tool"
			}
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     name,
					Response: map[string]any{"result": msg.Content},
				}},
			})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	return strings.Join(system, "\n\n"), contents
}

func fromParts(parts []genai.Part) (*schema.Message, error) {
	out := &schema.Message{Role: schema.Assistant}
	var text strings.Builder

	for i, part := range parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			raw, err := json.Marshal(p.Args)
			if err != nil {
				return nil, fmt.Errorf("gemini: marshal args for %s: %w", p.Name, err)
			}
			out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
				ID:   fmt.Sprintf("call_%d", i),
				Type: "function",
				Function: schema.FunctionCall{
					Name:      p.Name,
					Arguments: string(raw),
				},
			})
		}
	}

	out.Content = text.String()
	return out, nil
}

type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	Required    []string               `json:"required"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Items       *jsonSchema            `json:"items"`
}

func toGenaiSchema(t *schema.ToolInfo) (*genai.Schema, error) {
	if t.ParamsOneOf == nil {
		return nil, nil
	}
	spec, err := t.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	var js jsonSchema
	if err := json.Unmarshal(raw, &js); err != nil {
		return nil, err
	}
	return convertSchema(&js), nil
}

func convertSchema(js *jsonSchema) *genai.Schema {
	if js == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(js.Type),
		Description: js.Description,
		Enum:        js.Enum,
		Required:    js.Required,
		Items:       convertSchema(js.Items),
	}
	if len(js.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, prop := range js.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}
