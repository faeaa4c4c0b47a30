package a2a

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/a2aproject/a2a-go/a2a"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var cardsYAML []byte

const (
	cardVersion     = "1.0.0"
	protocolVersion = "1.0"
)

type skillDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Examples    []string `yaml:"examples"`
}

type cardDef struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Skills      []skillDef `yaml:"skills"`
}

var (
	cardDefsOnce sync.Once
	cardDefs     map[string]cardDef
	cardDefsErr  error
)

func loadCardDefs() (map[string]cardDef, error) {
	cardDefsOnce.Do(func() {
		cardDefsErr = yaml.Unmarshal(cardsYAML, &cardDefs)
	})
	return cardDefs, cardDefsErr
}

// AgentCard builds the A2A discovery card served at the well-known path.
func AgentCard(agentID contractx.AgentType, baseURL string) (*a2a.AgentCard, error) {
	defs, err := loadCardDefs()
	if err != nil {
		return nil, fmt.Errorf("parse agent cards: %w", err)
	}
	def, ok := defs[string(agentID)]
	if !ok {
		return nil, fmt.Errorf("%w: no card for agent %q", contractx.ErrNotFound, agentID)
	}

	skills := make([]a2a.AgentSkill, 0, len(def.Skills))
	for _, s := range def.Skills {
		skills = append(skills, a2a.AgentSkill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Tags:        s.Tags,
			Examples:    s.Examples,
		})
	}

	return &a2a.AgentCard{
		Name:               def.Name,
		Description:        def.Description,
		URL:                strings.TrimRight(baseURL, "/") + EndpointPath(agentID),
		Version:            cardVersion,
		ProtocolVersion:    protocolVersion,
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills:             skills,
		Capabilities: a2a.AgentCapabilities{
			Streaming:              false,
			PushNotifications:      false,
			StateTransitionHistory: false,
		},
		PreferredTransport: a2a.TransportProtocolJSONRPC,
		Provider: &a2a.AgentProvider{
			Org: "Chative",
			URL: "https://github.com/tanpawarit/Chative-A2A-Customer-Support",
		},
	}, nil
}

// StaticCard is the short card of GET /a2a/{agent_id}.
func StaticCard(agentID contractx.AgentType) Card {
	return Card{
		AgentID:      string(agentID),
		Name:         displayName(agentID) + " Agent",
		Description:  fmt.Sprintf("A2A-compatible %s agent", agentID),
		Endpoint:     EndpointPath(agentID),
		Capabilities: []string{MethodInvoke},
	}
}

// displayName turns customer_data into Customer Data.
func displayName(agentID contractx.AgentType) string {
	words := strings.Split(string(agentID), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
