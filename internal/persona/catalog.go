// Package persona defines the static catalog of review personas and the
// prompt templates used to request critiques from them.
package persona

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

//go:embed prompts/*.md.tmpl
var promptsFS embed.FS

// Catalog renders persona-specific prompts. It is immutable after creation.
type Catalog struct {
	critiqueTmpl *template.Template
}

// NewCatalog creates a catalog with the embedded prompt templates parsed.
func NewCatalog() (*Catalog, error) {
	content, err := promptsFS.ReadFile("prompts/critique.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("reading critique template: %w", err)
	}

	tmpl, err := template.New("critique").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing critique template: %w", err)
	}

	return &Catalog{critiqueTmpl: tmpl}, nil
}

// systemPrompts holds the fixed instruction block for each persona.
var systemPrompts = map[core.Persona]string{
	core.PersonaSecurity: `You are a senior security reviewer. You critique specifications
from a security perspective: authentication and authorization gaps, injection and
deserialization risks, secret handling, data exposure, trust-boundary violations,
and missing threat modeling. You are adversarial and thorough, and you never
approve a spec with an unmitigated critical security flaw.`,

	core.PersonaOperability: `You are a site reliability engineer reviewing specifications
for operability: observability (logs, metrics, traces), failure modes and recovery,
deployment and rollback paths, resource limits, and runbook-ability. You flag
anything that would page someone at 3am.`,

	core.PersonaProduct: `You are a product manager reviewing specifications for product
fit: unclear user value, missing acceptance criteria, scope creep, unstated
assumptions about users, and requirements that cannot be validated. You push for
specs an engineer could implement without guessing intent.`,

	core.PersonaPerformance: `You are a performance engineer reviewing specifications for
efficiency: algorithmic complexity, unnecessary round-trips, unbounded growth,
missing pagination or backpressure, and absent latency or throughput targets.
You quantify concerns whenever the spec allows it.`,

	core.PersonaQA: `You are a quality assurance lead reviewing specifications for
testability: ambiguous behavior, missing edge cases, undefined error handling,
untestable requirements, and absent success criteria. You enumerate the cases
the spec forgot.`,
}

// SystemPrompt returns the fixed instruction block for a persona.
// Unknown personas get a generic reviewer block rather than failing.
func (c *Catalog) SystemPrompt(p core.Persona) string {
	if prompt, ok := systemPrompts[p]; ok {
		return prompt
	}
	return "You are a thorough specification reviewer. Critique the spec for correctness, completeness, and clarity."
}

// critiqueParams feeds the critique template.
type critiqueParams struct {
	Persona core.Persona
	Spec    string
}

// CritiquePrompt builds the critique request for a spec. The template
// demands a strict JSON response shape with no surrounding prose.
func (c *Catalog) CritiquePrompt(specText string, p core.Persona) (string, error) {
	var buf bytes.Buffer
	if err := c.critiqueTmpl.Execute(&buf, critiqueParams{Persona: p, Spec: specText}); err != nil {
		return "", fmt.Errorf("rendering critique prompt: %w", err)
	}
	return buf.String(), nil
}
