package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

type fakeRouter struct {
	mu       sync.Mutex
	reply    string
	err      error
	gotAgent contractx.AgentType
	gotMsgs  []contractx.Message
	deadline bool
}

func (f *fakeRouter) Call(ctx context.Context, agentID contractx.AgentType, msgs []contractx.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotAgent = agentID
	f.gotMsgs = msgs
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func serve(t *testing.T, router contractx.AgentCaller) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	New(router, Config{Timeout: time.Minute}, zerolog.Nop()).Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func TestInvokeForwardsToRouter(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{reply: "Data retrieved: ok"}
	ts := serve(t, router)

	res, err := http.Post(ts.URL+"/invoke", "application/json", strings.NewReader(`{"query":"Get customer information for ID 5"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(conversationHeader))

	var out InvokeResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "Data retrieved: ok", out.Response)
	assert.Equal(t, []string{"Get customer information for ID 5", "Data retrieved: ok"}, out.Messages)

	router.mu.Lock()
	defer router.mu.Unlock()
	assert.Equal(t, contractx.AgentTypeRouter, router.gotAgent)
	assert.Equal(t, "Get customer information for ID 5", contractx.LastUserContent(router.gotMsgs))
	assert.True(t, router.deadline)
}

func TestInvokeRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	ts := serve(t, &fakeRouter{})
	res, err := http.Post(ts.URL+"/invoke", "application/json", strings.NewReader(`{"query":"   "}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestInvokeRouterFailure(t *testing.T) {
	t.Parallel()

	ts := serve(t, &fakeRouter{err: errors.New("transport failure: router down")})
	res, err := http.Post(ts.URL+"/invoke", "application/json", strings.NewReader(`{"query":"hello"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Contains(t, out["detail"], "router down")
}
