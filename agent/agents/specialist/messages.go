package specialist

import (
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// toSchemaMessages converts transport messages for the model. Tool role
// messages arrive without a call id, so they are replayed as user content.
func toSchemaMessages(msgs []contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
