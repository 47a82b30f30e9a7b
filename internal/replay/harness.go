package replay

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/flags"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
	"github.com/ahalasec/ODG-ACI4A/internal/pipeline"
	"github.com/ahalasec/ODG-ACI4A/internal/safeguard"
	"github.com/ahalasec/ODG-ACI4A/internal/tone"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

// #region types

// Result captures the outcome of replaying one turn, with any expectation
// mismatches spelled out.
type Result struct {
	TurnID     string
	Outcome    *pipeline.Outcome
	Mismatches []string
}

// Matched reports whether the turn met every checked expectation.
func (r Result) Matched() bool { return len(r.Mismatches) == 0 }

// Summary aggregates a replay run.
type Summary struct {
	TotalTurns  int
	Matched     int
	Mismatched  int
	FinalStates map[string]string
}

// #endregion types

// #region scripted-generator

// scriptedGenerator hands the pipeline the fixture's canned draft for the
// current turn. Interceptor turns never reach Generate, so the harness sets
// the draft per turn instead of queueing them.
type scriptedGenerator struct {
	draft string
}

func (g *scriptedGenerator) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	return g.draft, nil
}

// #endregion scripted-generator

// #region run

// Run replays every turn of a fixture through a fresh pipeline backed by
// the given ledger store, checking each turn against its expectation.
// Catalog may be nil; the built-in lexicon still applies.
func Run(ctx context.Context, f *Fixture, store *ledger.Store, catalog *flags.Catalog, log *zap.Logger) ([]Result, Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}

	gen := &scriptedGenerator{}
	engine := pipeline.NewEngine(
		gen,
		intent.NewAnalyzer(catalog, log),
		vsi.NewScorer(log),
		safeguard.NewPolicy(log),
		tone.NewModulator(log),
		store,
		log,
		pipeline.Options{},
	)

	sessionID := f.SessionID
	if sessionID == "" {
		sessionID = "replay"
	}
	sess := pipeline.NewSession(sessionID, axiom.NewMachine(log))
	if f.Signal != nil {
		sess.Machine().ApplyAggregateModulators(*f.Signal, axiom.Prognosis{})
	}

	results := make([]Result, 0, len(f.Turns))
	sum := Summary{TotalTurns: len(f.Turns)}

	for _, turn := range f.Turns {
		gen.draft = turn.Draft
		out, err := engine.Process(ctx, sess, turn.UserInput)
		if err != nil {
			return results, sum, fmt.Errorf("turn %s: %w", turn.TurnID, err)
		}

		res := Result{TurnID: turn.TurnID, Outcome: out}
		if exp, ok := f.expectationFor(turn.TurnID); ok {
			res.Mismatches = check(exp, out)
		}
		if res.Matched() {
			sum.Matched++
		} else {
			sum.Mismatched++
			log.Warn("replay turn mismatch",
				zap.String("turn", turn.TurnID),
				zap.Strings("mismatches", res.Mismatches))
		}
		results = append(results, res)
	}

	sum.FinalStates = sess.Machine().States()
	return results, sum, nil
}

// check compares one outcome against its expectation and lists every
// divergence. Empty expectation fields are skipped.
func check(exp Expectation, out *pipeline.Outcome) []string {
	var bad []string

	if exp.Intercepted != out.Intercepted {
		bad = append(bad, fmt.Sprintf("intercepted = %v, want %v", out.Intercepted, exp.Intercepted))
	}
	if exp.Decision != "" && string(out.Decision) != exp.Decision {
		bad = append(bad, fmt.Sprintf("decision = %s, want %s", out.Decision, exp.Decision))
	}
	if exp.A1 != "" && out.States[axiom.A1] != exp.A1 {
		bad = append(bad, fmt.Sprintf("a1 = %s, want %s", out.States[axiom.A1], exp.A1))
	}
	if exp.A2 != "" && out.States[axiom.A2] != exp.A2 {
		bad = append(bad, fmt.Sprintf("a2 = %s, want %s", out.States[axiom.A2], exp.A2))
	}
	for _, want := range exp.EventsInclude {
		found := false
		for _, ev := range out.Events {
			if ev == want {
				found = true
				break
			}
		}
		if !found {
			bad = append(bad, fmt.Sprintf("events %v missing %q", out.Events, want))
		}
	}
	if exp.FinalContains != "" && !strings.Contains(out.Final, exp.FinalContains) {
		bad = append(bad, fmt.Sprintf("final %q does not contain %q", out.Final, exp.FinalContains))
	}
	return bad
}

// #endregion run
