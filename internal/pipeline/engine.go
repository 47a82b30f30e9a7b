// Package pipeline wires every governance layer into one processing
// loop: interceptors, draft generation, intent analysis, vector scoring,
// axiom transitions, the safeguard verdict, tone modulation and the
// ledger record.
package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/generator"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
	"github.com/ahalasec/ODG-ACI4A/internal/safeguard"
	"github.com/ahalasec/ODG-ACI4A/internal/tone"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

// #region session

// Session carries the per-conversation axiom machine. A session is safe
// for concurrent Process calls; cycles are serialized.
type Session struct {
	ID      string
	machine *axiom.Machine
	mu      sync.Mutex
}

// NewSession wraps a machine for one conversation.
func NewSession(id string, machine *axiom.Machine) *Session {
	return &Session{ID: id, machine: machine}
}

// Machine exposes the session's axiom machine for inspection.
func (s *Session) Machine() *axiom.Machine { return s.machine }

// #endregion session

// #region outcome

// Outcome is everything one cycle produced.
type Outcome struct {
	UserInput   string
	Draft       string
	Final       string
	Decision    safeguard.Decision
	Events      []string
	States      map[string]string
	Analysis    *intent.Snapshot
	Score       *vsi.Result
	Intercepted bool
}

// #endregion outcome

// #region engine

// Engine runs the full governance pipeline.
type Engine struct {
	gen       generator.Generator
	analyzer  *intent.Analyzer
	scorer    *vsi.Scorer
	policy    *safeguard.Policy
	modulator *tone.Modulator
	store     *ledger.Store
	log       *zap.Logger
	enabled   bool

	prognosis axiom.Prognosis
}

// Options configures the engine beyond its required collaborators.
type Options struct {
	Prognosis axiom.Prognosis
	// Disabled bypasses every safety stage and returns raw drafts.
	// Only the kill switch sets this.
	Disabled bool
}

// NewEngine assembles the pipeline.
func NewEngine(
	gen generator.Generator,
	analyzer *intent.Analyzer,
	scorer *vsi.Scorer,
	policy *safeguard.Policy,
	modulator *tone.Modulator,
	store *ledger.Store,
	log *zap.Logger,
	opts Options,
) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		gen:       gen,
		analyzer:  analyzer,
		scorer:    scorer,
		policy:    policy,
		modulator: modulator,
		store:     store,
		log:       log,
		enabled:   !opts.Disabled,
		prognosis: opts.Prognosis,
	}
}

// #endregion engine

// #region process

// Process runs one full cycle for a user message and returns the outcome.
// Generation failures do not abort the cycle: the sentinel draft flows
// through every safety stage like any other text.
func (e *Engine) Process(ctx context.Context, sess *Session, userInput string) (*Outcome, error) {
	if reply, ok := interceptPrivileged(userInput); ok {
		return &Outcome{UserInput: userInput, Final: reply, Intercepted: true}, nil
	}
	if reply, ok := e.interceptEventQuery(userInput); ok {
		return &Outcome{UserInput: userInput, Final: reply, Intercepted: true}, nil
	}
	if reply, ok := interceptStatusQuery(userInput); ok {
		return &Outcome{UserInput: userInput, Final: reply, Intercepted: true}, nil
	}
	if reply, ok := interceptReflection(userInput); ok {
		return &Outcome{UserInput: userInput, Final: reply, Intercepted: true}, nil
	}

	draft, genErr := e.gen.Generate(ctx, generator.SystemPrompt, userInput)
	if genErr != nil {
		e.log.Warn("generation failed, sentinel draft flows on", zap.Error(genErr))
	}

	if !e.enabled {
		e.log.Warn("pipeline disabled by kill switch, returning raw draft")
		return &Outcome{UserInput: userInput, Draft: draft, Final: draft, Decision: safeguard.DecisionAllow}, nil
	}

	snap := e.analyzer.Analyze(userInput, draft)
	score := e.scorer.Score(snap)
	events := appendVectorEvents(snap.Events, score.Fused)

	sess.mu.Lock()
	states := sess.machine.ProcessEvents(events)
	machineSnap := sess.machine.Snapshot()
	sess.mu.Unlock()

	decision := e.policy.Decide(states, snap.Vector)
	base := e.policy.Apply(decision, draft)
	final := e.modulator.Modulate(userInput, base, snap.Vector, score)

	out := &Outcome{
		UserInput: userInput,
		Draft:     draft,
		Final:     final,
		Decision:  decision,
		Events:    events,
		States:    states,
		Analysis:  snap,
		Score:     score,
	}

	rec := &ledger.Interaction{
		SessionID:   sess.ID,
		UserMsg:     userInput,
		Draft:       draft,
		Final:       final,
		Decision:    string(decision),
		Events:      events,
		FSMStates:   states,
		FSMSnapshot: machineSnap,
		Analysis:    snap,
		Fused:       &score.Fused,
		Prognosis:   &e.prognosis,
	}
	if err := e.store.RecordInteraction(rec); err != nil {
		// The answer still goes out; losing one ledger row is recoverable.
		e.log.Error("ledger record failed", zap.Error(err))
	}

	e.log.Info("cycle complete",
		zap.String("session", sess.ID),
		zap.String("decision", string(decision)),
		zap.Strings("events", events),
		zap.String("threat", score.Fused.ThreatLevel))
	return out, nil
}

// appendVectorEvents derives symbolic events from the fused reading and
// appends them after the lexical ones.
func appendVectorEvents(events []string, fused vsi.Fused) []string {
	out := make([]string, 0, len(events)+3)
	out = append(out, events...)

	if fused.ThreatLevel == vsi.ThreatHigh || fused.ThreatLevel == vsi.ThreatCritical {
		out = append(out, intent.EventVectorHighRisk)
	}
	if fused.AutonomyIndex < -0.3 {
		out = append(out, intent.EventVectorAutonomyCompromise)
	}
	if fused.EthicalPrognosisScore < 0.0 {
		out = append(out, intent.EventVectorEthicalRisk)
	}
	return out
}

// #endregion process
