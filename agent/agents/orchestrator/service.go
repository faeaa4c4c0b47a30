package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/agents/specialist"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	nodex "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/nodes/router"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Config struct {
	// Classifier may be nil, in which case every query is classified by
	// keywords.
	Classifier contractx.Classifier
	// Analyst may be nil; coordination then skips the analysis step.
	Analyst  contractx.Analyst
	Fallback nodex.KeywordFunc
}

// Orchestrator is the router agent. It classifies each query once and
// drives the data and support agents through the caller.
type Orchestrator struct {
	caller     contractx.AgentCaller
	classifier contractx.Classifier
	analyst    contractx.Analyst
	fallback   nodex.KeywordFunc

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	logger      zerolog.Logger

	now func() time.Time
}

var (
	_ contractx.Agent      = (*Orchestrator)(nil)
	_ contractx.Conversant = (*Orchestrator)(nil)
)

func New(caller contractx.AgentCaller, cfg Config) (*Orchestrator, error) {
	if caller == nil {
		return nil, errors.New("agent caller is required")
	}

	fallback := cfg.Fallback
	if fallback == nil {
		fallback = specialist.KeywordClassify
	}

	o := &Orchestrator{
		caller:     caller,
		classifier: cfg.Classifier,
		analyst:    cfg.Analyst,
		fallback:   fallback,
		logger:     logx.Component("router"),
		now:        time.Now,
	}

	graphRunner, err := o.compileRouteGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Route handles one query and reports the mode it was handled in.
func (o *Orchestrator) Route(ctx context.Context, msgs []contractx.Message) (nodex.GraphOutput, error) {
	return o.graphRunner.Invoke(ctx, nodex.GraphInput{Messages: msgs})
}

func (o *Orchestrator) Invoke(ctx context.Context, msgs []contractx.Message) (string, error) {
	out, err := o.Route(ctx, msgs)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (o *Orchestrator) Converse(ctx context.Context, msgs []contractx.Message) (string, []contractx.Message, error) {
	out, err := o.Route(ctx, msgs)
	if err != nil {
		return "", nil, err
	}
	return out.Reply, out.Messages, nil
}
