package critique

import (
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

func TestParse_ValidResponse(t *testing.T) {
	raw := `{
		"verdict": "approve",
		"summary": "Solid overall.",
		"issues": [
			{"severity": "minor", "title": "Naming", "description": "Rename the field.", "section": "3.1", "suggestion": "Use snake_case."}
		]
	}`

	c := Parse(raw, core.PersonaSecurity)

	if c.Persona != core.PersonaSecurity {
		t.Errorf("Persona = %q, want %q", c.Persona, core.PersonaSecurity)
	}
	if c.Verdict != core.VerdictApprove {
		t.Errorf("Verdict = %q, want %q", c.Verdict, core.VerdictApprove)
	}
	if c.Summary != "Solid overall." {
		t.Errorf("Summary = %q", c.Summary)
	}
	if len(c.Issues) != 1 {
		t.Fatalf("len(Issues) = %d, want 1", len(c.Issues))
	}
	issue := c.Issues[0]
	if issue.Severity != core.SeverityMinor {
		t.Errorf("Severity = %q, want %q", issue.Severity, core.SeverityMinor)
	}
	if issue.Section != "3.1" || issue.Suggestion != "Use snake_case." {
		t.Errorf("optional fields not carried: %+v", issue)
	}
	if c.RawResponse != raw {
		t.Error("RawResponse not preserved")
	}
}

func TestParse_FencedResponse(t *testing.T) {
	raw := "```json\n{\"verdict\": \"approve\", \"summary\": \"ok\", \"issues\": []}\n```"

	c := Parse(raw, core.PersonaQA)

	if c.Verdict != core.VerdictApprove {
		t.Errorf("Verdict = %q, want approve", c.Verdict)
	}
	if c.RawResponse != raw {
		t.Error("RawResponse should keep the fence")
	}
}

func TestParse_MalformedResponse(t *testing.T) {
	c := Parse("I think the spec looks fine!", core.PersonaProduct)

	if c.Verdict != core.VerdictNeedsChanges {
		t.Errorf("Verdict = %q, want needs-changes", c.Verdict)
	}
	if len(c.Issues) != 1 {
		t.Fatalf("len(Issues) = %d, want 1", len(c.Issues))
	}
	if c.Issues[0].Title != "Parse Error" {
		t.Errorf("Issue title = %q, want Parse Error", c.Issues[0].Title)
	}
	if c.Issues[0].Severity != core.SeverityMajor {
		t.Errorf("Issue severity = %q, want major", c.Issues[0].Severity)
	}
	if c.RawResponse != "I think the spec looks fine!" {
		t.Error("RawResponse not preserved on parse failure")
	}
}

func TestParse_UnknownVerdictDefaults(t *testing.T) {
	c := Parse(`{"verdict": "lgtm", "summary": "fine", "issues": []}`, core.PersonaSecurity)

	if c.Verdict != core.VerdictNeedsChanges {
		t.Errorf("Verdict = %q, want needs-changes for unknown verdict", c.Verdict)
	}
}

func TestParse_MissingFieldsGetPlaceholders(t *testing.T) {
	c := Parse(`{"verdict": "needs-changes", "issues": [{"severity": "bogus"}]}`, core.PersonaOperability)

	if c.Summary != placeholderSummary {
		t.Errorf("Summary = %q, want placeholder", c.Summary)
	}
	if len(c.Issues) != 1 {
		t.Fatalf("len(Issues) = %d, want 1", len(c.Issues))
	}
	issue := c.Issues[0]
	if issue.Severity != core.SeverityMinor {
		t.Errorf("Severity = %q, want minor default", issue.Severity)
	}
	if issue.Title != placeholderTitle {
		t.Errorf("Title = %q, want placeholder", issue.Title)
	}
	if issue.Description != placeholderDescription {
		t.Errorf("Description = %q, want placeholder", issue.Description)
	}
}

func TestParse_EmptyIssuesNeverNil(t *testing.T) {
	c := Parse(`{"verdict": "approve", "summary": "clean"}`, core.PersonaSecurity)

	if c.Issues == nil {
		t.Error("Issues should be an empty slice, not nil")
	}
	if len(c.Issues) != 0 {
		t.Errorf("len(Issues) = %d, want 0", len(c.Issues))
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"language tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"missing closing fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"surrounding whitespace", "  \n```\nbody\n```\n  ", "body"},
		{"empty fence", "``````", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripCodeFence_MultilineBody(t *testing.T) {
	body := "# Spec\n\nSome section.\n\n## Another\n\nMore text."
	if got := StripCodeFence("```markdown\n" + body + "\n```"); got != strings.TrimSpace(body) {
		t.Errorf("StripCodeFence() = %q, want body", got)
	}
}
