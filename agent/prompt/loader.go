package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

var (
	//go:embed template/router_classify.txt
	routerClassifyRaw string

	//go:embed template/router_analysis.txt
	routerAnalysisRaw string

	//go:embed template/data.txt
	dataRaw string

	//go:embed template/support.txt
	supportRaw string
)

// PromptSet holds the system prompts of every agent.
type PromptSet struct {
	RouterClassify string
	RouterAnalysis string
	Data           string
	Support        string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		RouterClassify: strings.TrimSpace(routerClassifyRaw),
		RouterAnalysis: strings.TrimSpace(routerAnalysisRaw),
		Data:           strings.TrimSpace(dataRaw),
		Support:        strings.TrimSpace(supportRaw),
	}
}

// Validate fails when a prompt is empty or would be misread as a template.
func (p PromptSet) Validate() error {
	prompts := map[string]string{
		"router_classify": p.RouterClassify,
		"router_analysis": p.RouterAnalysis,
		"data":            p.Data,
		"support":         p.Support,
	}
	for name, text := range prompts {
		if text == "" {
			return fmt.Errorf("%w: %s", contractx.ErrPromptMissing, name)
		}
		if strings.ContainsAny(text, "{}") {
			return fmt.Errorf("%w: %s prompt contains template braces", contractx.ErrValidation, name)
		}
	}
	return nil
}
