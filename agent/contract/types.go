package contract

import (
	"fmt"
	"strings"
)

type AgentType string

const (
	AgentTypeRouter  AgentType = "router"
	AgentTypeData    AgentType = "customer_data"
	AgentTypeSupport AgentType = "support"
)

// Mode is the router's per-request classification.
type Mode string

const (
	ModeData         Mode = "DATA"
	ModeSupport      Mode = "SUPPORT"
	ModeCoordination Mode = "COORDINATION"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeData, ModeSupport, ModeCoordination:
		return true
	}
	return false
}

// ParseMode accepts a raw label from a model. Surrounding punctuation and
// case are ignored; anything else is a classification failure.
func ParseMode(raw string) (Mode, error) {
	label := strings.ToUpper(strings.Trim(strings.TrimSpace(raw), "'\"`.:"))
	m := Mode(label)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unrecognised label %q", ErrClassification, raw)
	}
	return m, nil
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage records a peer agent's result in the router's history.
func ToolMessage(content string) Message {
	return Message{Role: RoleTool, Content: content}
}

// LastUserContent returns the content of the most recent user message, or of
// the last message when no user message exists.
func LastUserContent(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// ToolCall is one normalised invocation requested by the data agent.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments,omitempty"`
}
