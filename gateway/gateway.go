// Package gateway is the public front door. It forwards one query to the
// router agent and returns the reply with the message history.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

const conversationHeader = "X-Conversation-ID"

// Config is read with the GATEWAY_ prefix.
type Config struct {
	Port    int           `envconfig:"PORT" default:"8080"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"120s"`
}

type InvokeRequest struct {
	Query string `json:"query"`
}

type InvokeResponse struct {
	Response string   `json:"response"`
	Messages []string `json:"messages"`
}

type Handler struct {
	router  contractx.AgentCaller
	timeout time.Duration
	logger  zerolog.Logger
}

func New(router contractx.AgentCaller, cfg Config, logger zerolog.Logger) *Handler {
	return &Handler{router: router, timeout: cfg.Timeout, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/invoke", h.handleInvoke)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Query required"})
		return
	}

	conversationID := r.Header.Get(conversationHeader)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	w.Header().Set(conversationHeader, conversationID)
	logger := h.logger.With().Str("conversation_id", conversationID).Logger()

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	logger.Info().Str("query", query).Msg("gateway → router")
	reply, err := h.router.Call(ctx, contractx.AgentTypeRouter, []contractx.Message{contractx.UserMessage(query)})
	if err != nil {
		logger.Error().Err(err).Msg("router call failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, InvokeResponse{
		Response: reply,
		Messages: []string{query, reply},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
