package routernode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/extract"
	statex "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/state"
)

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	query := strings.TrimSpace(contractx.LastUserContent(in.Messages))
	if query == "" {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidMessage)
	}

	conv := statex.NewConversation(nowFn())
	for _, msg := range in.Messages {
		if err := conv.Append(msg); err != nil {
			return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, err)
		}
	}

	return &GraphState{
		Conversation: conv,
		Query:        query,
	}, nil
}

func AnnotateQuery(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.AnnotatedQuery = extract.AnnotateCustomerID(in.Query)
	return in, nil
}
