package core

import (
	"time"

	"github.com/google/uuid"
)

// Persona is a fixed review perspective assigned to a debate agent.
type Persona string

const (
	PersonaSecurity    Persona = "security"
	PersonaOperability Persona = "operability"
	PersonaProduct     Persona = "product"
	PersonaPerformance Persona = "performance"
	PersonaQA          Persona = "qa"
)

// AllPersonas returns the closed set of review personas.
func AllPersonas() []Persona {
	return []Persona{
		PersonaSecurity,
		PersonaOperability,
		PersonaProduct,
		PersonaPerformance,
		PersonaQA,
	}
}

// Valid reports whether p is a known persona.
func (p Persona) Valid() bool {
	switch p {
	case PersonaSecurity, PersonaOperability, PersonaProduct, PersonaPerformance, PersonaQA:
		return true
	}
	return false
}

// ValidPersona reports whether p is a known persona.
func ValidPersona(p Persona) bool {
	return p.Valid()
}

// Verdict is an agent's overall judgment of a spec version.
type Verdict string

const (
	VerdictApprove      Verdict = "approve"
	VerdictNeedsChanges Verdict = "needs-changes"
	VerdictReject       Verdict = "reject"
)

// ParseVerdict maps a raw string onto the verdict enum.
// Unknown or empty values report ok=false; callers default to needs-changes.
func ParseVerdict(s string) (Verdict, bool) {
	switch Verdict(s) {
	case VerdictApprove, VerdictNeedsChanges, VerdictReject:
		return Verdict(s), true
	}
	return VerdictNeedsChanges, false
}

// IssueSeverity classifies how serious a critique issue is.
type IssueSeverity string

const (
	SeverityCritical   IssueSeverity = "critical"
	SeverityMajor      IssueSeverity = "major"
	SeverityMinor      IssueSeverity = "minor"
	SeveritySuggestion IssueSeverity = "suggestion"
)

// ParseSeverity maps a raw string onto the severity enum.
// Unknown or empty values report ok=false; callers default to minor.
func ParseSeverity(s string) (IssueSeverity, bool) {
	switch IssueSeverity(s) {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeveritySuggestion:
		return IssueSeverity(s), true
	}
	return SeverityMinor, false
}

// Rank returns the sort priority for a severity. Lower sorts first.
func (s IssueSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMajor:
		return 1
	case SeverityMinor:
		return 2
	case SeveritySuggestion:
		return 3
	default:
		return 4
	}
}

// CritiqueIssue is a single problem raised by a reviewer.
type CritiqueIssue struct {
	Severity    IssueSeverity `json:"severity"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Section     string        `json:"section,omitempty"`
	Suggestion  string        `json:"suggestion,omitempty"`
}

// Critique is one agent's full review of a spec version within a round.
// The raw response is preserved for audit.
type Critique struct {
	Backend     string          `json:"backend"`
	Model       string          `json:"model,omitempty"`
	Persona     Persona         `json:"persona"`
	Verdict     Verdict         `json:"verdict"`
	Summary     string          `json:"summary"`
	Issues      []CritiqueIssue `json:"issues"`
	RawResponse string          `json:"raw_response"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    time.Duration   `json:"duration"`
}

// DebateRound is one synchronized batch of critiques plus an optional
// synthesis step. Rounds are append-only once closed.
type DebateRound struct {
	Number           int        `json:"number"`
	SpecVersion      string     `json:"spec_version"`
	Critiques        []Critique `json:"critiques"`
	ConsensusReached bool       `json:"consensus_reached"`
	RefinedSpec      string     `json:"refined_spec,omitempty"`
	ChangesSummary   string     `json:"changes_summary,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// AgentSpec identifies one configured reviewer: which backend runs it,
// an optional model override, and the persona it reviews as.
type AgentSpec struct {
	Backend string  `json:"backend" mapstructure:"backend"`
	Model   string  `json:"model,omitempty" mapstructure:"model"`
	Persona Persona `json:"persona" mapstructure:"persona"`
}

// DebateConfig configures a debate session.
type DebateConfig struct {
	Agents             []AgentSpec `json:"agents"`
	MaxRounds          int         `json:"max_rounds"`
	ConsensusThreshold float64     `json:"consensus_threshold"`
	SynthesisEnabled   bool        `json:"synthesis_enabled"`
	SynthesisAgent     *AgentSpec  `json:"synthesis_agent,omitempty"`
}

// DefaultDebateConfig returns the recognized defaults: three pre-selected
// agent/persona pairs, three rounds, two-thirds approval, synthesis on.
func DefaultDebateConfig() DebateConfig {
	return DebateConfig{
		Agents: []AgentSpec{
			{Backend: "claude", Persona: PersonaSecurity},
			{Backend: "gemini", Persona: PersonaPerformance},
			{Backend: "codex", Persona: PersonaProduct},
		},
		MaxRounds:          3,
		ConsensusThreshold: 0.67,
		SynthesisEnabled:   true,
	}
}

// SessionStatus represents the current state of a debate session.
type SessionStatus string

const (
	SessionStatusIdle      SessionStatus = "idle"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// DebateSession is the aggregate root of one debate: the original spec, the
// evolving current spec, and every completed round.
type DebateSession struct {
	ID               string        `json:"id"`
	TaskID           string        `json:"task_id"`
	OriginalSpec     string        `json:"original_spec"`
	CurrentSpec      string        `json:"current_spec"`
	Config           DebateConfig  `json:"config"`
	Rounds           []DebateRound `json:"rounds"`
	Status           SessionStatus `json:"status"`
	ConsensusReached bool          `json:"consensus_reached"`
	Error            string        `json:"error,omitempty"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

// NewDebateSession creates an idle session for a task. The current spec
// starts equal to the original.
func NewDebateSession(taskID, originalSpec string, cfg DebateConfig) *DebateSession {
	return &DebateSession{
		ID:           uuid.NewString(),
		TaskID:       taskID,
		OriginalSpec: originalSpec,
		CurrentSpec:  originalSpec,
		Config:       cfg,
		Status:       SessionStatusIdle,
	}
}

// Clone returns a deep copy of the session. The orchestrator hands out
// clones so callers can never mutate live state.
func (s *DebateSession) Clone() *DebateSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Config.Agents = append([]AgentSpec(nil), s.Config.Agents...)
	if s.Config.SynthesisAgent != nil {
		sa := *s.Config.SynthesisAgent
		c.Config.SynthesisAgent = &sa
	}
	c.Rounds = make([]DebateRound, len(s.Rounds))
	for i, r := range s.Rounds {
		cr := r
		cr.Critiques = make([]Critique, len(r.Critiques))
		for j, q := range r.Critiques {
			cq := q
			cq.Issues = append([]CritiqueIssue(nil), q.Issues...)
			cr.Critiques[j] = cq
		}
		if r.CompletedAt != nil {
			t := *r.CompletedAt
			cr.CompletedAt = &t
		}
		cr.StartedAt = r.StartedAt
		c.Rounds[i] = cr
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Terminal reports whether the session reached a terminal status.
func (s *DebateSession) Terminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusFailed
}
