// Package extract holds the regex heuristics the agents use to pull
// identifiers and intents out of free text. Every function is pure.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	customerIDPattern = regexp.MustCompile(`(?i)\b(?:customer|id)\s*[:#]?\s*(\d+)`)
	phrasedIDPattern  = `(?i)\b(?:customer|id)\s+%d\b`
	annotationPattern = `(?i)\(customer id:\s*%d\)`

	emailAfterToPattern = regexp.MustCompile(`(?i)\bto\s+([\w.+-]+@[\w-]+(?:\.[\w-]+)*\.\w+)`)
	emailPattern        = regexp.MustCompile(`(?i)[\w.+-]+@[\w-]+(?:\.[\w-]+)*\.\w+`)
	quotedEmailPattern  = regexp.MustCompile(`['"]email['"]\s*:\s*['"]([^'"]+)['"]`)

	statusPattern   = regexp.MustCompile(`(?i)\b(active|disabled|inactive)\b`)
	priorityPattern = regexp.MustCompile(`(?i)\b(low|medium|high|urgent)\b`)
	issuePattern    = regexp.MustCompile(`(?i)(?:description|issue)\s*:\s*([^,}]+)`)
	resultMarker    = regexp.MustCompile(`^(?:Data Agent Result:\s*)+`)
)

// CustomerID returns the digits following "customer" or "id" in text.
func CustomerID(text string) (int64, bool) {
	m := customerIDPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Email returns an address, preferring one introduced by "to" as in
// "update my email to x@y.com".
func Email(text string) (string, bool) {
	if m := emailAfterToPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1]), true
	}
	if m := emailPattern.FindString(text); m != "" {
		return strings.ToLower(m), true
	}
	return "", false
}

// QuotedEmail reads an email value out of a stringified mapping such as
// "{'email': 'a@b.com'}".
func QuotedEmail(text string) (string, bool) {
	m := quotedEmailPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func HasUpdateEmailIntent(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "email") {
		return false
	}
	return strings.Contains(lower, "update") || strings.Contains(lower, "change") || strings.Contains(lower, "set ")
}

// Status returns a customer status only when the text names one explicitly.
func Status(text string) (string, bool) {
	m := statusPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	switch strings.ToLower(m[1]) {
	case "active":
		return "active", true
	default:
		return "disabled", true
	}
}

func Priority(text string) (string, bool) {
	m := priorityPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	p := strings.ToLower(m[1])
	if p == "urgent" {
		p = "high"
	}
	return p, true
}

// Issue reads "issue: ..." or "description: ..." out of loosely formatted
// argument text.
func Issue(text string) (string, bool) {
	m := issuePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	issue := strings.Trim(strings.TrimSpace(m[1]), `'"`)
	if issue == "" {
		return "", false
	}
	return issue, true
}

// HasErrorMarker reports whether an agent result carries a failure. Only
// error fragments count: a line opening with an "ERROR:" tag or an
// "Error executing" entry. Field values inside a record never do.
func HasErrorMarker(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = resultMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if strings.HasPrefix(line, "ERROR:") || strings.HasPrefix(line, "Error executing ") {
			return true
		}
	}
	return false
}

// AnnotateCustomerID appends "(Customer ID: N)" when the query carries an id
// that is not already phrased as "customer N" or "id N". Applying it twice
// yields the same string.
func AnnotateCustomerID(query string) string {
	id, ok := CustomerID(query)
	if !ok {
		return query
	}
	if regexp.MustCompile(fmt.Sprintf(phrasedIDPattern, id)).MatchString(query) {
		return query
	}
	if regexp.MustCompile(fmt.Sprintf(annotationPattern, id)).MatchString(query) {
		return query
	}
	return fmt.Sprintf("%s (Customer ID: %d)", query, id)
}

// MentionsOpenTickets is true for questions about customers with open tickets.
func MentionsOpenTickets(text string) bool {
	return strings.Contains(strings.ToLower(text), "open ticket")
}
