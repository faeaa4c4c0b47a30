package toolbackend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
)

const mcpServerName = "chative-tool-backend"

type mcpCustomerInput struct {
	CustomerID int64 `json:"customer_id" jsonschema:"numeric customer id"`
}

type mcpListInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter by exact status, active or disabled"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of customers, default 100"`
}

type mcpUpdateInput struct {
	CustomerID int64   `json:"customer_id" jsonschema:"numeric customer id"`
	Name       *string `json:"name,omitempty" jsonschema:"new name"`
	Email      *string `json:"email,omitempty" jsonschema:"new email address"`
	Phone      *string `json:"phone,omitempty" jsonschema:"new phone number"`
	Status     *string `json:"status,omitempty" jsonschema:"new status, active or disabled"`
}

type mcpTicketInput struct {
	CustomerID int64  `json:"customer_id" jsonschema:"numeric customer id"`
	Issue      string `json:"issue" jsonschema:"description of the problem"`
	Priority   string `json:"priority" jsonschema:"low, medium or high"`
}

type mcpEmptyInput struct{}

// NewMCPServer exposes every tool operation over the Model Context Protocol.
func (s *Service) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: mcpServerName, Version: "1.0.0"}, nil)

	addMCPTool[mcpCustomerInput](server, s, toolx.GetCustomer)
	addMCPTool[mcpListInput](server, s, toolx.ListCustomers)
	addMCPTool[mcpUpdateInput](server, s, toolx.UpdateCustomer)
	addMCPTool[mcpTicketInput](server, s, toolx.CreateTicket)
	addMCPTool[mcpCustomerInput](server, s, toolx.GetCustomerHistory)
	addMCPTool[mcpEmptyInput](server, s, toolx.GetCustomersWithOpenTickets)
	return server
}

// MCPHandler serves the MCP server over streamable HTTP without sessions.
func (s *Service) MCPHandler() http.Handler {
	server := s.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return server },
		&mcp.StreamableHTTPOptions{Stateless: true},
	)
}

func addMCPTool[In any](server *mcp.Server, s *Service, name string) {
	spec, _ := toolx.Lookup(name)
	mcp.AddTool(server, &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		args, err := inputArgs(in)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := s.Call(ctx, name, args)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
		}, nil, nil
	})
}

func inputArgs(in any) (map[string]any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	args := map[string]any{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: Detail(err)}},
	}
}
