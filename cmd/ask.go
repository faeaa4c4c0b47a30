package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	a2ax "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/a2a"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

type scenario struct {
	name  string
	query string
}

var scenarios = []scenario{
	{"Coordinated query", "I'm customer 1 and need help upgrading my account"},
	{"Escalation", "I've been charged twice (Customer ID 12345), please refund immediately!"},
	{"Multi-step", "Update my email to new@email.com and show my ticket history"},
	{"Simple query", "Get customer information for ID 5"},
	{"Complex query", "Show me all active customers who have open tickets"},
}

func askCmd() *cobra.Command {
	var (
		runScenarios bool
		timeout      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Send a query to the router agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			reg.Timeout = timeout
			client := a2ax.NewClient(reg)
			out := cmd.OutOrStdout()

			var queue []scenario
			if runScenarios {
				queue = scenarios
			}
			if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
				queue = append([]scenario{{"Query", q}}, queue...)
			}
			if len(queue) == 0 {
				return errors.New("give a query or --scenarios")
			}

			var failed int
			for _, sc := range queue {
				fmt.Fprintf(out, "%s\n%s\nQuery: %s\n", strings.Repeat("=", 70), sc.name, sc.query)
				reply, err := client.Call(cmd.Context(), contractx.AgentTypeRouter, []contractx.Message{contractx.UserMessage(sc.query)})
				if err != nil {
					failed++
					fmt.Fprintf(out, "Error: %v\n\n", err)
					continue
				}
				fmt.Fprintf(out, "Response:\n%s\n\n", reply)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(queue))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&runScenarios, "scenarios", false, "run the built-in demo scenarios")
	cmd.Flags().DurationVar(&timeout, "timeout", 120*time.Second, "timeout for each router call")
	return cmd
}
