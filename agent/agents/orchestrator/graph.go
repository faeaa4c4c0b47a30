package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/nodes/router"
)

func (o *Orchestrator) compileRouteGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("annotate_query",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AnnotateQuery(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node annotate_query: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Classify(ctx, in, o.classifier, o.fallback, o.logger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeDataPath,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DataPath(ctx, in, o.caller, o.logger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node data_path: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSupportPath,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SupportPath(ctx, in, o.caller, o.logger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node support_path: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeCoordinationPath,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CoordinationPath(ctx, in, o.caller, o.analyst, o.logger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node coordination_path: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.Route(in)
		},
		map[string]bool{
			nodex.NodeDataPath:         true,
			nodex.NodeSupportPath:      true,
			nodex.NodeCoordinationPath: true,
		},
	)
	if err := graph.AddBranch("classify", branch); err != nil {
		return nil, fmt.Errorf("add classify branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "annotate_query"},
		{"annotate_query", "classify"},
		{nodex.NodeDataPath, "finalize_reply"},
		{nodex.NodeSupportPath, "finalize_reply"},
		{nodex.NodeCoordinationPath, "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.route_query"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}
