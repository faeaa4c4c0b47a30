package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	a2ax "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/a2a"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/agent/agents/specialist"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	llmx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/llm"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/gateway"
	configx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/config"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/httpserver"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/metrics"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/toolbackend"
)

type component func(ctx context.Context) error

var components = map[string]component{
	"tools":   runTools,
	"data":    runData,
	"support": runSupport,
	"router":  runRouter,
	"gateway": runGateway,
}

var componentOrder = []string{"tools", "data", "support", "router", "gateway"}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run one component, or all of them in one process",
	}
	for _, name := range componentOrder {
		run := components[name]
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Run the %s server", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSignals(cmd.Context(), run)
			},
		})
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run the tool backend, every agent and the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSignals(cmd.Context(), runAll)
		},
	})
	return cmd
}

func withSignals(parent context.Context, run component) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx)
}

func runAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range componentOrder {
		run := components[name]
		g.Go(func() error { return run(ctx) })
	}
	return g.Wait()
}

func loadRegistry() (a2ax.Registry, error) {
	reg, err := configx.New[a2ax.Registry]("AGENTS")
	if err != nil {
		return a2ax.Registry{}, err
	}
	return *reg, nil
}

func loadLLM() (llmx.Config, error) {
	cfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return llmx.Config{}, err
	}
	return *cfg, nil
}

func runTools(ctx context.Context) error {
	cfg, err := configx.New[toolbackend.Config]("TOOLS")
	if err != nil {
		return err
	}
	logger := logx.Component("tools")
	m := metrics.New("tools")

	backend, err := toolbackend.Open(ctx, *cfg, m, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error().Err(err).Msg("close tool backend")
		}
	}()

	r := httpserver.NewRouter(logger, m)
	backend.Service.Routes(r)
	return httpserver.Run(ctx, "tools", cfg.Port, r, logger)
}

// serveAgent exposes agent on its registry port.
func serveAgent(ctx context.Context, reg a2ax.Registry, agentID contractx.AgentType, agent contractx.Agent, m *metrics.Metrics) error {
	logger := logx.Component(string(agentID))
	port, ok := reg.Port(agentID)
	if !ok {
		return fmt.Errorf("%w: no port for agent %s", contractx.ErrNotFound, agentID)
	}
	baseURL, err := reg.BaseURL(agentID)
	if err != nil {
		return err
	}
	srv, err := a2ax.NewServer(agentID, agent, baseURL, logger)
	if err != nil {
		return err
	}

	r := httpserver.NewRouter(logger, m)
	srv.Routes(r)
	return httpserver.Run(ctx, string(agentID), port, r, logger)
}

// closeOnExit releases a component's model clients once its server stops.
func closeOnExit(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logx.Component(name).Error().Err(err).Msg("close model client")
	}
}

func runData(ctx context.Context) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	cfg, err := loadLLM()
	if err != nil {
		return err
	}
	tools := toolbackend.NewClient(reg.ToolsURL, reg.Timeout)
	agent, err := specialist.NewDataFromConfig(ctx, cfg, tools)
	if err != nil {
		return err
	}
	defer closeOnExit("data", agent)
	return serveAgent(ctx, reg, contractx.AgentTypeData, agent, metrics.New("data"))
}

func runSupport(ctx context.Context) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	cfg, err := loadLLM()
	if err != nil {
		return err
	}
	agent, err := specialist.NewSupportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOnExit("support", agent)
	return serveAgent(ctx, reg, contractx.AgentTypeSupport, agent, metrics.New("support"))
}

func runRouter(ctx context.Context) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	cfg, err := loadLLM()
	if err != nil {
		return err
	}
	models, err := specialist.NewRouterModelsFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOnExit("router", models)

	m := metrics.New("router")
	orch, err := orchestrator.New(a2ax.NewClient(reg, a2ax.WithMetrics(m)), orchestrator.Config{
		Classifier: models.Classifier,
		Analyst:    models.Analyst,
	})
	if err != nil {
		return err
	}
	return serveAgent(ctx, reg, contractx.AgentTypeRouter, orch, m)
}

func runGateway(ctx context.Context) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	cfg, err := configx.New[gateway.Config]("GATEWAY")
	if err != nil {
		return err
	}
	logger := logx.Component("gateway")
	m := metrics.New("gateway")

	reg.Timeout = cfg.Timeout
	h := gateway.New(a2ax.NewClient(reg, a2ax.WithMetrics(m)), *cfg, logger)

	r := httpserver.NewRouter(logger, m)
	h.Routes(r)
	return httpserver.Run(ctx, "gateway", cfg.Port, r, logger)
}
