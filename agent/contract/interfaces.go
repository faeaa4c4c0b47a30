package contract

import (
	"context"
	"encoding/json"
)

// Agent answers one conversation. Every specialist and the router implement
// it, which is what the A2A server exposes.
type Agent interface {
	Invoke(ctx context.Context, msgs []Message) (string, error)
}

// Conversant is an Agent that also returns the history it built while
// answering, ending with the reply.
type Conversant interface {
	Converse(ctx context.Context, msgs []Message) (string, []Message, error)
}

// AgentCaller reaches a peer agent by id over the transport envelope.
type AgentCaller interface {
	Call(ctx context.Context, agentID AgentType, msgs []Message) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, query string) (Mode, error)
}

// Analyst summarises what support a customer needs from the data result.
type Analyst interface {
	Analyze(ctx context.Context, query string, dataResult string) (string, error)
}

// ToolGateway runs one tool backend operation and returns its raw JSON result.
type ToolGateway interface {
	Call(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}
