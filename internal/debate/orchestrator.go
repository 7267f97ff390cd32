// Package debate drives adversarial spec-review sessions: it fans critique
// requests out to the configured agents each round, evaluates consensus,
// and synthesizes a revised spec until the reviewers agree or the round
// budget runs out.
package debate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/consensus"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/critique"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/events"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/persona"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/synthesis"
)

// Orchestrator owns one debate session and drives its rounds. The session
// is mutated only by the orchestrator; callers observe it through
// Snapshot and the event bus. An orchestrator instance must not have
// RunDebate or RunRound invoked concurrently.
type Orchestrator struct {
	mu          sync.Mutex
	session     *core.DebateSession
	providers   core.ProviderRegistry
	personas    *persona.Catalog
	engine      *synthesis.Engine
	bus         *events.Bus
	logger      *logging.Logger
	aborted     atomic.Bool
	callTimeout time.Duration
}

// Option configures an orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithCallTimeout bounds each individual provider call. A timed-out call
// is downgraded like any other agent failure.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.callTimeout = d }
}

// New creates an orchestrator with a fresh idle session for a task.
func New(taskID, originalSpec string, cfg core.DebateConfig, providers core.ProviderRegistry, opts ...Option) (*Orchestrator, error) {
	return newOrchestrator(core.NewDebateSession(taskID, originalSpec, cfg), providers, opts...)
}

// Restore creates an orchestrator around a previously persisted session,
// continuing round numbering where it left off.
func Restore(session *core.DebateSession, providers core.ProviderRegistry, opts ...Option) (*Orchestrator, error) {
	if session == nil {
		return nil, core.ErrValidation(core.CodeInvalidState, "cannot restore nil session")
	}
	return newOrchestrator(session.Clone(), providers, opts...)
}

func newOrchestrator(session *core.DebateSession, providers core.ProviderRegistry, opts ...Option) (*Orchestrator, error) {
	catalog, err := persona.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("building persona catalog: %w", err)
	}
	engine, err := synthesis.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("building synthesis engine: %w", err)
	}

	o := &Orchestrator{
		session:   session,
		providers: providers,
		personas:  catalog,
		engine:    engine,
		bus:       events.NewBus(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithSession(session.ID).WithTask(session.TaskID)
	return o, nil
}

// Events returns the bus carrying the orchestrator's lifecycle events.
func (o *Orchestrator) Events() *events.Bus {
	return o.bus
}

// Snapshot returns a deep copy of the session. Callers never see live state.
func (o *Orchestrator) Snapshot() *core.DebateSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Clone()
}

// RunDebate runs rounds until consensus, exhausted rounds, or abort.
// An error escaping the round loop itself is the only path to the failed
// status; individual agent failures never reach it.
func (o *Orchestrator) RunDebate(ctx context.Context) (err error) {
	o.mu.Lock()
	if o.session.Terminal() {
		status := o.session.Status
		o.mu.Unlock()
		return core.ErrState(core.CodeInvalidState,
			fmt.Sprintf("cannot run debate from status %q", status))
	}
	o.session.Status = core.SessionStatusRunning
	if o.session.StartedAt == nil {
		now := time.Now()
		o.session.StartedAt = &now
	}
	o.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("debate control loop panic: %v", r)
		}
		if err != nil {
			o.fail(err)
		}
	}()

	if err := o.runLoop(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	if o.aborted.Load() {
		o.session.Status = core.SessionStatusPaused
	} else {
		o.session.Status = core.SessionStatusCompleted
		now := time.Now()
		o.session.CompletedAt = &now
	}
	snapshot := o.session.Clone()
	o.mu.Unlock()

	o.logger.Info("debate complete",
		"status", snapshot.Status,
		"rounds", len(snapshot.Rounds),
		"consensus", snapshot.ConsensusReached,
	)
	o.bus.Publish(events.NewDebateCompletedEvent(snapshot))
	return nil
}

func (o *Orchestrator) runLoop(ctx context.Context) error {
	for {
		o.mu.Lock()
		done := o.aborted.Load() || len(o.session.Rounds) >= o.session.Config.MaxRounds
		o.mu.Unlock()
		if done {
			return nil
		}

		round, err := o.RunRound(ctx)
		if err != nil {
			return err
		}
		if round == nil {
			// Aborted before the round started.
			return nil
		}
		if round.ConsensusReached {
			o.mu.Lock()
			o.session.ConsensusReached = true
			o.mu.Unlock()
			return nil
		}
	}
}

func (o *Orchestrator) fail(cause error) {
	o.mu.Lock()
	o.session.Status = core.SessionStatusFailed
	o.session.Error = cause.Error()
	now := time.Now()
	o.session.CompletedAt = &now
	sessionID := o.session.ID
	o.mu.Unlock()

	o.logger.Error("debate failed", "error", cause)
	o.bus.Publish(events.NewDebateErrorEvent(sessionID, cause.Error()))
}

// RunRound executes one debate round: concurrent critique fan-out,
// consensus evaluation, and optional synthesis. Returns nil without
// running anything when the abort flag is already set.
func (o *Orchestrator) RunRound(ctx context.Context) (*core.DebateRound, error) {
	if o.aborted.Load() {
		return nil, nil
	}

	o.mu.Lock()
	number := len(o.session.Rounds) + 1
	specText := o.session.CurrentSpec
	cfg := o.session.Config
	sessionID := o.session.ID
	o.mu.Unlock()

	round := core.DebateRound{
		Number:      number,
		SpecVersion: specText,
		Critiques:   []core.Critique{},
		StartedAt:   time.Now(),
	}

	o.logger.Info("round starting", "round", number, "agents", len(cfg.Agents))
	o.bus.Publish(events.NewRoundStartedEvent(sessionID, number))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, agent := range cfg.Agents {
		// Abort suppresses future dispatch only; in-flight calls finish.
		if o.aborted.Load() {
			break
		}
		agent := agent
		o.bus.Publish(events.NewCritiqueStartedEvent(sessionID, number, agent.Backend, agent.Persona))
		g.Go(func() error {
			c := o.collectCritique(gctx, agent, specText)
			mu.Lock()
			round.Critiques = append(round.Critiques, c)
			mu.Unlock()
			o.bus.Publish(events.NewCritiqueCompletedEvent(sessionID, number, c))
			return nil
		})
	}
	// Every dispatched request settles before the round proceeds.
	_ = g.Wait()

	round.ConsensusReached = consensus.Check(round.Critiques, cfg.ConsensusThreshold)

	if !round.ConsensusReached && cfg.SynthesisEnabled && !o.aborted.Load() {
		o.synthesize(ctx, sessionID, &round, specText, cfg)
	}

	now := time.Now()
	round.CompletedAt = &now

	o.mu.Lock()
	o.session.Rounds = append(o.session.Rounds, round)
	if round.RefinedSpec != "" {
		o.session.CurrentSpec = round.RefinedSpec
	}
	o.mu.Unlock()

	o.logger.Info("round complete",
		"round", number,
		"critiques", len(round.Critiques),
		"consensus", round.ConsensusReached,
	)
	o.bus.Publish(events.NewRoundCompletedEvent(sessionID, round))
	return &round, nil
}

// collectCritique runs one agent's critique. Provider failures of any
// kind are converted into a degraded critique rather than propagated, so
// a single broken agent can never abort a round.
func (o *Orchestrator) collectCritique(ctx context.Context, agent core.AgentSpec, specText string) core.Critique {
	start := time.Now()

	provider, err := o.providers.Get(agent.Backend)
	if err != nil {
		return o.degradedCritique(agent, start, err)
	}

	prompt, err := o.personas.CritiquePrompt(specText, agent.Persona)
	if err != nil {
		return o.degradedCritique(agent, start, err)
	}

	raw, err := provider.Critique(ctx, core.CritiqueRequest{
		Persona:      agent.Persona,
		Model:        agent.Model,
		SystemPrompt: o.personas.SystemPrompt(agent.Persona),
		Prompt:       prompt,
		Timeout:      o.callTimeout,
	})
	if err != nil {
		return o.degradedCritique(agent, start, err)
	}

	// Raw output is persisted with the session; scrub credentials a
	// misconfigured CLI may have echoed.
	c := critique.Parse(logging.Sanitize(raw), agent.Persona)
	c.Backend = agent.Backend
	c.Model = agent.Model
	c.Duration = time.Since(start)
	return c
}

func (o *Orchestrator) degradedCritique(agent core.AgentSpec, start time.Time, cause error) core.Critique {
	o.logger.Warn("agent critique failed",
		"backend", agent.Backend,
		"persona", agent.Persona,
		"error", cause,
	)
	return core.Critique{
		Backend: agent.Backend,
		Model:   agent.Model,
		Persona: agent.Persona,
		Verdict: core.VerdictNeedsChanges,
		Summary: "agent call failed",
		Issues: []core.CritiqueIssue{{
			Severity:    core.SeverityCritical,
			Title:       "Agent Error",
			Description: cause.Error(),
		}},
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

// synthesize produces a refined spec from the round's critiques. Any
// failure here is recovered by leaving the current spec unchanged.
func (o *Orchestrator) synthesize(ctx context.Context, sessionID string, round *core.DebateRound, specText string, cfg core.DebateConfig) {
	agent, ok := synthesisAgent(cfg)
	if !ok {
		o.logger.Debug("no synthesis agent available, keeping current spec", "round", round.Number)
		return
	}

	o.bus.Publish(events.NewSynthesisStartedEvent(sessionID, round.Number))

	prompt, err := o.engine.Prompt(specText, round.Critiques)
	if err != nil {
		o.logger.Warn("synthesis prompt failed, keeping current spec", "round", round.Number, "error", err)
		return
	}

	provider, err := o.providers.Get(agent.Backend)
	if err != nil {
		o.logger.Warn("synthesis provider unavailable, keeping current spec", "round", round.Number, "error", err)
		return
	}

	raw, err := provider.Synthesize(ctx, core.SynthesisRequest{
		Model:        agent.Model,
		SystemPrompt: synthesis.SystemPrompt,
		Prompt:       prompt,
		Timeout:      o.callTimeout,
	})
	if err != nil {
		o.logger.Warn("synthesis call failed, keeping current spec", "round", round.Number, "error", err)
		return
	}

	refined := synthesis.ParseResponse(raw)
	if refined == "" {
		o.logger.Warn("synthesis returned empty spec, keeping current spec", "round", round.Number)
		return
	}

	round.RefinedSpec = refined
	round.ChangesSummary = synthesis.ChangesSummary(round.Critiques)
	o.bus.Publish(events.NewSynthesisCompleteEvent(sessionID, round.Number, refined))
}

// synthesisAgent picks the designated synthesis agent, defaulting to the
// first configured agent.
func synthesisAgent(cfg core.DebateConfig) (core.AgentSpec, bool) {
	if cfg.SynthesisAgent != nil {
		return *cfg.SynthesisAgent, true
	}
	if len(cfg.Agents) > 0 {
		return cfg.Agents[0], true
	}
	return core.AgentSpec{}, false
}

// Abort requests cooperative cancellation: no further agent calls are
// dispatched, but in-flight calls are left to finish. The session parks
// in paused until resumed, accepted, or discarded.
func (o *Orchestrator) Abort() {
	o.aborted.Store(true)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.session.Terminal() {
		o.session.Status = core.SessionStatusPaused
	}
}

// Resume clears the abort flag and re-enters the round loop. Only valid
// from paused.
func (o *Orchestrator) Resume(ctx context.Context) error {
	o.mu.Lock()
	if o.session.Status != core.SessionStatusPaused {
		status := o.session.Status
		o.mu.Unlock()
		return core.ErrState(core.CodeInvalidState,
			fmt.Sprintf("can only resume a paused session, status is %q", status))
	}
	o.mu.Unlock()

	o.aborted.Store(false)
	return o.RunDebate(ctx)
}

// AcceptSpec marks the session completed regardless of consensus. This is
// the explicit human-override path; the current spec becomes final.
func (o *Orchestrator) AcceptSpec() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Status = core.SessionStatusCompleted
	now := time.Now()
	o.session.CompletedAt = &now
}
