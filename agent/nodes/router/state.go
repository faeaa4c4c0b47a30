package routernode

import (
	"errors"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	statex "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/state"
)

// Branch targets after classification.
const (
	NodeDataPath         = "data_path"
	NodeSupportPath      = "support_path"
	NodeCoordinationPath = "coordination_path"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrNotClassified  = errors.New("conversation is not classified")
)

type GraphInput struct {
	Messages []contractx.Message
}

type GraphOutput struct {
	Reply string
	Mode  contractx.Mode
	// Messages is the request's full history: the incoming messages, each
	// peer result and the reply.
	Messages []contractx.Message
}

type GraphState struct {
	Conversation *statex.Conversation

	// Query is the last user message as received; AnnotatedQuery carries the
	// explicit customer id suffix when one was added.
	Query          string
	AnnotatedQuery string

	Analysis string
	Reply    string
}
