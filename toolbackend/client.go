package toolbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// Client reaches the tool backend over HTTP. It is the data agent's gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Call(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(CallRequest{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s arguments: %v", contractx.ErrInvalidArgument, name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call_tool", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tool backend: %v", contractx.ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes*8))
	if err != nil {
		return nil, fmt.Errorf("%w: read tool response: %v", contractx.ErrTransport, err)
	}
	var out CallResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: tool backend returned %d: %s", contractx.ErrTransport, res.StatusCode, strings.TrimSpace(string(body)))
	}

	switch {
	case res.StatusCode == http.StatusOK:
		return out.Result, nil
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", contractx.ErrNotFound, out.Detail)
	case res.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", contractx.ErrInvalidArgument, out.Detail)
	case res.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", contractx.ErrInternal, out.Detail)
	default:
		return nil, fmt.Errorf("%w: tool backend returned %d", contractx.ErrTransport, res.StatusCode)
	}
}
