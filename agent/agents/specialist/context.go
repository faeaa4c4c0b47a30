package specialist

import (
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
	toolx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/tool"
	"github.com/tidwall/gjson"
)

const (
	customerQueryMarker  = "Customer Query:"
	dataSectionSeparator = "\n\n" + DataResultMarker
)

var markerCleanup = regexp.MustCompile(`(?i)Data Agent Result:\s*`)

// SupportContext is what the support agent answers from.
type SupportContext struct {
	Query string
	Data  string
}

// ExtractSupportContext finds the data the support agent should use. The
// most recent earlier message carrying a data result wins, then a data
// result section inside the query, then a JSON fragment inside the query.
func ExtractSupportContext(msgs []contractx.Message) SupportContext {
	query, earlier := splitQuery(msgs)
	out := SupportContext{Query: originalQuery(query)}

	var data string
	for i := len(earlier) - 1; i >= 0 && data == ""; i-- {
		content := earlier[i].Content
		if idx := strings.Index(content, DataResultMarker); idx >= 0 {
			data = content[idx+len(DataResultMarker):]
		} else if hasOperationPrefix(content) {
			data = content
		}
	}
	if data == "" {
		if idx := strings.Index(query, DataResultMarker); idx >= 0 {
			data = query[idx+len(DataResultMarker):]
		}
	}
	if data == "" {
		data = jsonFragment(query)
	}

	out.Data = strings.TrimSpace(markerCleanup.ReplaceAllString(data, ""))
	return out
}

func splitQuery(msgs []contractx.Message) (string, []contractx.Message) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == contractx.RoleUser {
			return msgs[i].Content, msgs[:i]
		}
	}
	if len(msgs) == 0 {
		return "", nil
	}
	return msgs[len(msgs)-1].Content, msgs[:len(msgs)-1]
}

// originalQuery returns the text between the "Customer Query:" marker and
// the data section that follows it, or the whole text when there is no marker.
func originalQuery(query string) string {
	idx := strings.Index(query, customerQueryMarker)
	if idx < 0 {
		return strings.TrimSpace(query)
	}
	rest := query[idx+len(customerQueryMarker):]
	if end := strings.Index(rest, dataSectionSeparator); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func hasOperationPrefix(content string) bool {
	for _, name := range toolx.Names() {
		if strings.Contains(content, name+":") {
			return true
		}
	}
	return false
}

// jsonFragment returns the widest brace or bracket span that is valid JSON.
func jsonFragment(text string) string {
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(text, pair[0])
		end := strings.LastIndexByte(text, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := text[start : end+1]
		if gjson.Valid(candidate) {
			return candidate
		}
	}
	return ""
}
