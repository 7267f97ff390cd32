// Package critique turns raw backend responses into structured critiques.
// Parsing is tolerant by contract: whatever a backend returns, the parser
// produces a usable critique, because one malformed response must never
// abort a whole round.
package critique

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// Placeholder text for fields a backend omitted.
const (
	placeholderSummary     = "(no summary provided)"
	placeholderTitle       = "(untitled issue)"
	placeholderDescription = "(no description provided)"
)

// responsePayload is the structured shape backends are instructed to return.
type responsePayload struct {
	Verdict string         `json:"verdict"`
	Summary string         `json:"summary"`
	Issues  []issuePayload `json:"issues"`
}

type issuePayload struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Section     string `json:"section"`
	Suggestion  string `json:"suggestion"`
}

// Parse converts a raw backend response into a critique for a persona.
// It never fails: undecodable responses yield a synthetic needs-changes
// critique carrying a single major "Parse Error" issue, with the raw
// response preserved for audit.
func Parse(raw string, persona core.Persona) core.Critique {
	c := core.Critique{
		Persona:     persona,
		RawResponse: raw,
		Timestamp:   time.Now(),
		Issues:      []core.CritiqueIssue{},
	}

	payload, err := decode(raw)
	if err != nil {
		c.Verdict = core.VerdictNeedsChanges
		c.Summary = "parse failure"
		c.Issues = []core.CritiqueIssue{{
			Severity:    core.SeverityMajor,
			Title:       "Parse Error",
			Description: fmt.Sprintf("response was not valid structured data: %v", err),
		}}
		return c
	}

	c.Verdict, _ = core.ParseVerdict(strings.TrimSpace(payload.Verdict))
	c.Summary = strings.TrimSpace(payload.Summary)
	if c.Summary == "" {
		c.Summary = placeholderSummary
	}

	for _, issue := range payload.Issues {
		severity, _ := core.ParseSeverity(strings.TrimSpace(issue.Severity))
		title := strings.TrimSpace(issue.Title)
		if title == "" {
			title = placeholderTitle
		}
		description := strings.TrimSpace(issue.Description)
		if description == "" {
			description = placeholderDescription
		}
		c.Issues = append(c.Issues, core.CritiqueIssue{
			Severity:    severity,
			Title:       title,
			Description: description,
			Section:     strings.TrimSpace(issue.Section),
			Suggestion:  strings.TrimSpace(issue.Suggestion),
		})
	}

	return c
}

func decode(raw string) (*responsePayload, error) {
	text := StripCodeFence(raw)
	var payload responsePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// StripCodeFence removes one enclosing markdown code fence, with or
// without a language tag. Backends frequently wrap structured output in
// one even when told not to. Input without a fence is returned trimmed.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line, including any language tag.
	rest := trimmed[3:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		// Opening fence with no content after it.
		return strings.TrimSpace(strings.TrimPrefix(rest, "```"))
	}

	// Drop the closing fence if present.
	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}

	return strings.TrimSpace(rest)
}
