package routernode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: agent returned empty message", contractx.ErrValidation)
	}
	if err := in.Conversation.Append(contractx.AssistantMessage(reply)); err != nil {
		return GraphOutput{}, err
	}
	return GraphOutput{
		Reply:    reply,
		Mode:     in.Conversation.Mode(),
		Messages: in.Conversation.Messages(),
	}, nil
}
