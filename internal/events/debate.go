package events

import (
	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// Event type constants for debate lifecycle events.
const (
	TypeRoundStarted      = "round_started"
	TypeCritiqueStarted   = "critique_started"
	TypeCritiqueCompleted = "critique_completed"
	TypeRoundCompleted    = "round_completed"
	TypeSynthesisStarted  = "synthesis_started"
	TypeSynthesisComplete = "synthesis_complete"
	TypeDebateCompleted   = "debate_completed"
	TypeDebateError       = "debate_error"
)

// RoundStartedEvent is emitted when a round begins.
type RoundStartedEvent struct {
	BaseEvent
	Round int `json:"round"`
}

// NewRoundStartedEvent creates a new round started event.
func NewRoundStartedEvent(sessionID string, round int) RoundStartedEvent {
	return RoundStartedEvent{
		BaseEvent: NewBaseEvent(TypeRoundStarted, sessionID),
		Round:     round,
	}
}

// CritiqueStartedEvent is emitted before an agent critique is dispatched.
type CritiqueStartedEvent struct {
	BaseEvent
	Round   int          `json:"round"`
	Backend string       `json:"backend"`
	Persona core.Persona `json:"persona"`
}

// NewCritiqueStartedEvent creates a new critique started event.
func NewCritiqueStartedEvent(sessionID string, round int, backend string, persona core.Persona) CritiqueStartedEvent {
	return CritiqueStartedEvent{
		BaseEvent: NewBaseEvent(TypeCritiqueStarted, sessionID),
		Round:     round,
		Backend:   backend,
		Persona:   persona,
	}
}

// CritiqueCompletedEvent is emitted when one agent critique has settled,
// including degraded critiques produced from provider failures.
type CritiqueCompletedEvent struct {
	BaseEvent
	Round    int           `json:"round"`
	Critique core.Critique `json:"critique"`
}

// NewCritiqueCompletedEvent creates a new critique completed event.
func NewCritiqueCompletedEvent(sessionID string, round int, critique core.Critique) CritiqueCompletedEvent {
	return CritiqueCompletedEvent{
		BaseEvent: NewBaseEvent(TypeCritiqueCompleted, sessionID),
		Round:     round,
		Critique:  critique,
	}
}

// RoundCompletedEvent is emitted when a round closes.
type RoundCompletedEvent struct {
	BaseEvent
	Round core.DebateRound `json:"round_data"`
}

// NewRoundCompletedEvent creates a new round completed event.
func NewRoundCompletedEvent(sessionID string, round core.DebateRound) RoundCompletedEvent {
	return RoundCompletedEvent{
		BaseEvent: NewBaseEvent(TypeRoundCompleted, sessionID),
		Round:     round,
	}
}

// SynthesisStartedEvent is emitted before the synthesis call.
type SynthesisStartedEvent struct {
	BaseEvent
	Round int `json:"round"`
}

// NewSynthesisStartedEvent creates a new synthesis started event.
func NewSynthesisStartedEvent(sessionID string, round int) SynthesisStartedEvent {
	return SynthesisStartedEvent{
		BaseEvent: NewBaseEvent(TypeSynthesisStarted, sessionID),
		Round:     round,
	}
}

// SynthesisCompleteEvent is emitted when synthesis produced a refined spec.
type SynthesisCompleteEvent struct {
	BaseEvent
	Round       int    `json:"round"`
	RefinedSpec string `json:"refined_spec"`
}

// NewSynthesisCompleteEvent creates a new synthesis complete event.
func NewSynthesisCompleteEvent(sessionID string, round int, refinedSpec string) SynthesisCompleteEvent {
	return SynthesisCompleteEvent{
		BaseEvent:   NewBaseEvent(TypeSynthesisComplete, sessionID),
		Round:       round,
		RefinedSpec: refinedSpec,
	}
}

// DebateCompletedEvent is emitted when the round loop ends, whether by
// consensus, exhausted rounds, or pause.
type DebateCompletedEvent struct {
	BaseEvent
	Session *core.DebateSession `json:"session"`
}

// NewDebateCompletedEvent creates a new debate completed event.
// The session carried by the event is a snapshot.
func NewDebateCompletedEvent(session *core.DebateSession) DebateCompletedEvent {
	return DebateCompletedEvent{
		BaseEvent: NewBaseEvent(TypeDebateCompleted, session.ID),
		Session:   session,
	}
}

// DebateErrorEvent is emitted when the control loop itself fails.
type DebateErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// NewDebateErrorEvent creates a new debate error event.
func NewDebateErrorEvent(sessionID, message string) DebateErrorEvent {
	return DebateErrorEvent{
		BaseEvent: NewBaseEvent(TypeDebateError, sessionID),
		Message:   message,
	}
}
