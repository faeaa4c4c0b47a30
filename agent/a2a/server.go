package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

const (
	maxRequestBytes   = 1 << 20
	wellKnownCardPath = "/.well-known/agent-card.json"
)

// Server exposes one agent over HTTP.
type Server struct {
	agentID contractx.AgentType
	agent   contractx.Agent
	card    http.Handler
	logger  zerolog.Logger
}

func NewServer(agentID contractx.AgentType, agent contractx.Agent, baseURL string, logger zerolog.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	card, err := AgentCard(agentID, baseURL)
	if err != nil {
		return nil, err
	}
	return &Server{
		agentID: agentID,
		agent:   agent,
		card:    a2asrv.NewStaticAgentCardHandler(card),
		logger:  logger.With().Str("agent_id", string(agentID)).Logger(),
	}, nil
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, wellKnownCardPath, s.card)
	r.Route("/a2a/{agent_id}", func(r chi.Router) {
		r.Use(s.requireAgentID)
		r.Get("/", s.handleCard)
		r.Post("/", s.handleInvoke)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "agent_id": string(s.agentID)})
}

func (s *Server) requireAgentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "agent_id") != string(s.agentID) {
			writeDetail(w, http.StatusNotFound, fmt.Sprintf("agent %q is not served here", chi.URLParam(r, "agent_id")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StaticCard(s.agentID))
}

// incoming accepts both the JSON-RPC envelope and the plain query shape.
type incoming struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
	ID      any    `json:"id"`
	PlainRequest
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(defaultRequestID, CodeInvalidRequest, "unreadable request body"))
		return
	}

	var in incoming
	if err := json.Unmarshal(body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(defaultRequestID, CodeInvalidRequest, "invalid JSON: "+err.Error()))
		return
	}

	if in.Method == "" {
		s.handlePlain(w, r, in.PlainRequest)
		return
	}

	id := in.ID
	if id == nil {
		id = defaultRequestID
	}
	if in.Method != MethodInvoke {
		writeJSON(w, http.StatusOK, errorResponse(id, CodeMethodNotFound, "method not found: "+in.Method))
		return
	}

	msgs := in.Params.Messages
	if len(msgs) == 0 && strings.TrimSpace(in.Params.Query) != "" {
		msgs = []contractx.Message{contractx.UserMessage(in.Params.Query)}
	}
	if len(msgs) == 0 {
		writeJSON(w, http.StatusOK, errorResponse(id, CodeInvalidRequest, "params.messages or params.query is required"))
		return
	}
	for i := range msgs {
		if msgs[i].Role == "" {
			msgs[i].Role = contractx.RoleUser
		}
	}

	content, history, err := s.answer(r.Context(), msgs)
	if err != nil {
		s.logger.Error().Err(err).Msg("agent invoke failed")
		writeJSON(w, http.StatusOK, errorResponse(id, CodeAgentError, err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, successResponse(id, content, history))
}

func (s *Server) handlePlain(w http.ResponseWriter, r *http.Request, in PlainRequest) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		query = strings.TrimSpace(in.Message)
	}
	if query == "" {
		writeDetail(w, http.StatusBadRequest, "Query or message required")
		return
	}

	content, history, err := s.answer(r.Context(), []contractx.Message{contractx.UserMessage(query)})
	if err != nil {
		s.logger.Error().Err(err).Msg("agent invoke failed")
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(history) == 0 {
		history = []contractx.Message{contractx.AssistantMessage(content)}
	}
	writeJSON(w, http.StatusOK, PlainResponse{
		Response: content,
		Messages: history,
	})
}

// answer returns the agent's reply and, for agents that keep one, the
// history behind it.
func (s *Server) answer(ctx context.Context, msgs []contractx.Message) (string, []contractx.Message, error) {
	if c, ok := s.agent.(contractx.Conversant); ok {
		return c.Converse(ctx, msgs)
	}
	content, err := s.agent.Invoke(ctx, msgs)
	return content, nil, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
