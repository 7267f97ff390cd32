// Package synthesis merges a round's critiques into a prompt for a revised
// specification and renders human-readable change summaries.
package synthesis

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/critique"
)

//go:embed prompts/*.md.tmpl
var promptsFS embed.FS

// NoChangesSummary is returned when a round produced no issues at all.
const NoChangesSummary = "No significant changes."

// SystemPrompt is the fixed instruction block for synthesis calls.
const SystemPrompt = `You are a specification editor. You receive a spec and a
prioritized list of review issues, and you produce a complete, revised,
implementation-ready specification. You keep the original structure and intent
wherever the issues do not demand otherwise. You return only the revised
specification text, with no commentary.`

// Engine renders synthesis prompts and summaries. Immutable after creation.
type Engine struct {
	synthesizeTmpl *template.Template
}

// NewEngine creates an engine with the embedded templates parsed.
func NewEngine() (*Engine, error) {
	content, err := promptsFS.ReadFile("prompts/synthesize.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("reading synthesize template: %w", err)
	}

	tmpl, err := template.New("synthesize").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing synthesize template: %w", err)
	}

	return &Engine{synthesizeTmpl: tmpl}, nil
}

// flatIssue is one issue tagged with the persona that raised it.
type flatIssue struct {
	Persona  core.Persona
	Severity core.IssueSeverity
	Issue    core.CritiqueIssue
}

// flattenIssues collects every issue across every critique, stable-sorted
// by severity with ties broken by encounter order.
func flattenIssues(critiques []core.Critique) []flatIssue {
	var issues []flatIssue
	for _, c := range critiques {
		for _, issue := range c.Issues {
			issues = append(issues, flatIssue{
				Persona:  c.Persona,
				Severity: issue.Severity,
				Issue:    issue,
			})
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
	return issues
}

// synthesizeParams feeds the synthesize template.
type synthesizeParams struct {
	Spec   string
	Issues []flatIssue
}

// Prompt builds the synthesis request: the current spec plus every issue
// from the round, ordered critical first.
func (e *Engine) Prompt(currentSpec string, critiques []core.Critique) (string, error) {
	var buf bytes.Buffer
	params := synthesizeParams{
		Spec:   currentSpec,
		Issues: flattenIssues(critiques),
	}
	if err := e.synthesizeTmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("rendering synthesize prompt: %w", err)
	}
	return buf.String(), nil
}

// ChangesSummary buckets the round's issues into addressed (critical and
// major) versus deferred (minor and suggestion) and renders both as
// labeled lists. Rounds without issues get the no-changes sentinel.
func ChangesSummary(critiques []core.Critique) string {
	var addressed, deferred []flatIssue
	for _, issue := range flattenIssues(critiques) {
		switch issue.Severity {
		case core.SeverityCritical, core.SeverityMajor:
			addressed = append(addressed, issue)
		default:
			deferred = append(deferred, issue)
		}
	}

	if len(addressed) == 0 && len(deferred) == 0 {
		return NoChangesSummary
	}

	var sb strings.Builder
	if len(addressed) > 0 {
		sb.WriteString("Addressed:\n")
		for _, issue := range addressed {
			fmt.Fprintf(&sb, "- [%s/%s] %s\n", issue.Persona, issue.Severity, issue.Issue.Title)
		}
	}
	if len(deferred) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Deferred:\n")
		for _, issue := range deferred {
			fmt.Fprintf(&sb, "- [%s/%s] %s\n", issue.Persona, issue.Severity, issue.Issue.Title)
		}
	}
	return sb.String()
}

// ParseResponse extracts the revised spec from a synthesis response. The
// response is opaque markdown, not structured data; only an enclosing
// code fence is stripped.
func ParseResponse(raw string) string {
	return critique.StripCodeFence(raw)
}
