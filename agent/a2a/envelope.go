// Package a2a carries agent to agent calls: a JSON-RPC style envelope with a
// plain query fallback, the HTTP server every agent runs and the client the
// router uses to reach its peers.
package a2a

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

const (
	JSONRPCVersion = "2.0"
	MethodInvoke   = "invoke"

	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeAgentError     = -32000
)

const defaultRequestID = 1

type Params struct {
	Messages []contractx.Message `json:"messages"`
	Query    string              `json:"query,omitempty"`
}

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
	ID      any    `json:"id"`
}

type Result struct {
	Content  string              `json:"content"`
	Messages []contractx.Message `json:"messages"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("agent error %d: %s", e.Code, e.Message)
}

type Response struct {
	JSONRPC string  `json:"jsonrpc"`
	Result  *Result `json:"result,omitempty"`
	Error   *Error  `json:"error,omitempty"`
	ID      any     `json:"id"`
}

// PlainRequest is the fallback shape; either field carries the query.
type PlainRequest struct {
	Query   string `json:"query,omitempty"`
	Message string `json:"message,omitempty"`
}

type PlainResponse struct {
	Response string              `json:"response"`
	Messages []contractx.Message `json:"messages"`
}

// Card is the static description served at GET /a2a/{agent_id}.
type Card struct {
	AgentID      string   `json:"agent_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Endpoint     string   `json:"endpoint"`
	Capabilities []string `json:"capabilities"`
}

func NewRequest(id int64, msgs []contractx.Message) Request {
	return Request{
		JSONRPC: JSONRPCVersion,
		Method:  MethodInvoke,
		Params:  Params{Messages: msgs},
		ID:      id,
	}
}

func successResponse(id any, content string, msgs []contractx.Message) Response {
	if len(msgs) == 0 {
		msgs = []contractx.Message{contractx.AssistantMessage(content)}
	}
	return Response{
		JSONRPC: JSONRPCVersion,
		Result: &Result{
			Content:  content,
			Messages: msgs,
		},
		ID: id,
	}
}

func errorResponse(id any, code int, message string) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}
