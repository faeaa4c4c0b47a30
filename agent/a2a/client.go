package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/metrics"
)

// Client calls peer agents. Request ids increase monotonically per client.
type Client struct {
	registry Registry
	http     *http.Client
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	nextID   atomic.Int64
}

var _ contractx.AgentCaller = (*Client)(nil)

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

func NewClient(registry Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry: registry,
		http:     &http.Client{Timeout: registry.Timeout},
		logger:   logx.Component("a2a_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends the JSON-RPC envelope. When that fails at the transport layer
// the plain query shape is tried once before giving up. An error answer from
// a reachable agent is returned without the fallback.
func (c *Client) Call(ctx context.Context, agentID contractx.AgentType, msgs []contractx.Message) (string, error) {
	endpoint, err := c.registry.Endpoint(agentID)
	if err != nil {
		return "", err
	}

	id := c.nextID.Add(1)
	content, err := c.callJSONRPC(ctx, endpoint, NewRequest(id, msgs))
	if err == nil {
		c.metrics.ObserveAgentCall(string(agentID), "ok")
		return content, nil
	}

	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		c.metrics.ObserveAgentCall(string(agentID), "agent_error")
		return "", fmt.Errorf("%w: agent %s: %v", contractx.ErrInternal, agentID, rpcErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.metrics.ObserveAgentCall(string(agentID), "transport_error")
		return "", fmt.Errorf("%w: call agent %s: %v", contractx.ErrTransport, agentID, err)
	}

	c.logger.Warn().Err(err).Str("agent", string(agentID)).Int64("id", id).Msg("json-rpc call failed, trying plain request")
	content, plainErr := c.callPlain(ctx, endpoint, contractx.LastUserContent(msgs))
	if plainErr != nil {
		c.metrics.ObserveAgentCall(string(agentID), "transport_error")
		return "", fmt.Errorf("%w: call agent %s: %v; fallback: %v", contractx.ErrTransport, agentID, err, plainErr)
	}
	c.metrics.ObserveAgentCall(string(agentID), "fallback_ok")
	return content, nil
}

func (c *Client) callJSONRPC(ctx context.Context, endpoint string, req Request) (string, error) {
	var resp Response
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", resp.Error
	}
	if resp.Result == nil {
		return "", errors.New("response has neither result nor error")
	}
	return resp.Result.Content, nil
}

func (c *Client) callPlain(ctx context.Context, endpoint string, query string) (string, error) {
	var resp PlainResponse
	if err := c.post(ctx, endpoint, PlainRequest{Query: query}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxRequestBytes*8))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
