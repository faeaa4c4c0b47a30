package a2a

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// Registry is the fixed address book of the cluster, read once at startup.
type Registry struct {
	Host        string        `envconfig:"HOST" default:"127.0.0.1"`
	DataPort    int           `envconfig:"DATA_PORT" split_words:"true" default:"9300"`
	SupportPort int           `envconfig:"SUPPORT_PORT" split_words:"true" default:"9301"`
	RouterPort  int           `envconfig:"ROUTER_PORT" split_words:"true" default:"9400"`
	DataURL     string        `envconfig:"DATA_URL" split_words:"true"`
	SupportURL  string        `envconfig:"SUPPORT_URL" split_words:"true"`
	RouterURL   string        `envconfig:"ROUTER_URL" split_words:"true"`
	ToolsURL    string        `envconfig:"TOOLS_URL" split_words:"true" default:"http://127.0.0.1:8000"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// DefaultRegistry matches the envconfig defaults.
func DefaultRegistry() Registry {
	return Registry{
		Host:        "127.0.0.1",
		DataPort:    9300,
		SupportPort: 9301,
		RouterPort:  9400,
		ToolsURL:    "http://127.0.0.1:8000",
		Timeout:     30 * time.Second,
	}
}

func (r Registry) Port(agentID contractx.AgentType) (int, bool) {
	switch agentID {
	case contractx.AgentTypeData:
		return r.DataPort, true
	case contractx.AgentTypeSupport:
		return r.SupportPort, true
	case contractx.AgentTypeRouter:
		return r.RouterPort, true
	}
	return 0, false
}

// BaseURL is the agent's server root. An explicit URL wins over host and
// port.
func (r Registry) BaseURL(agentID contractx.AgentType) (string, error) {
	var explicit string
	switch agentID {
	case contractx.AgentTypeData:
		explicit = r.DataURL
	case contractx.AgentTypeSupport:
		explicit = r.SupportURL
	case contractx.AgentTypeRouter:
		explicit = r.RouterURL
	}
	if s := strings.TrimRight(strings.TrimSpace(explicit), "/"); s != "" {
		return s, nil
	}
	port, ok := r.Port(agentID)
	if !ok {
		return "", fmt.Errorf("%w: agent %q is not registered", contractx.ErrNotFound, agentID)
	}
	host := strings.TrimSpace(r.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// Endpoint is the invoke URL of an agent.
func (r Registry) Endpoint(agentID contractx.AgentType) (string, error) {
	base, err := r.BaseURL(agentID)
	if err != nil {
		return "", err
	}
	return base + EndpointPath(agentID), nil
}

func EndpointPath(agentID contractx.AgentType) string {
	return "/a2a/" + string(agentID)
}
