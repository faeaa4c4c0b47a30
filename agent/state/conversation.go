package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

var (
	ErrAlreadyClassified = errors.New("conversation already classified")
	ErrInvalidRole       = errors.New("invalid message role")
)

// Conversation is the router's state for one request. Messages only grow and
// the classification is decided once.
type Conversation struct {
	ID        string
	StartedAt time.Time

	messages    []contractx.Message
	mode        contractx.Mode
	dataContext string
}

func NewConversation(now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		StartedAt: now.UTC(),
	}
}

func (c *Conversation) Append(msg contractx.Message) error {
	switch msg.Role {
	case contractx.RoleUser, contractx.RoleAssistant, contractx.RoleTool:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
	}
	c.messages = append(c.messages, msg)
	return nil
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []contractx.Message {
	return append([]contractx.Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) Classify(mode contractx.Mode) error {
	if c.mode != "" {
		return fmt.Errorf("%w: %s", ErrAlreadyClassified, c.mode)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %q", contractx.ErrValidation, mode)
	}
	c.mode = mode
	return nil
}

func (c *Conversation) Mode() contractx.Mode {
	return c.mode
}

func (c *Conversation) SetDataContext(result string) {
	c.dataContext = result
}

func (c *Conversation) DataContext() string {
	return c.dataContext
}
