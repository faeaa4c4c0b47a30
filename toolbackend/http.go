package toolbackend

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
)

const maxBodyBytes = 1 << 20

type CallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type CallResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

type ToolDescriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Routes mounts the tool endpoints and the MCP endpoint on r.
func (s *Service) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/tools", s.handleListTools)
	r.Post("/call_tool", s.handleCallTool)
	r.Handle("/mcp", s.MCPHandler())
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleListTools(w http.ResponseWriter, r *http.Request) {
	specs := toolx.Specs()
	tools := make([]ToolDescriptor, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, ToolDescriptor{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.InputSchema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Service) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CallResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}

	result, err := s.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		writeJSON(w, StatusCode(err), CallResponse{Detail: Detail(err)})
		return
	}
	writeJSON(w, http.StatusOK, CallResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
