package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a scripted
// conversation with canned drafts standing in for the language model, plus
// the decisions the pipeline is expected to reach.
type Fixture struct {
	Description string        `json:"description"`
	SessionID   string        `json:"session_id"`
	Turns       []Turn        `json:"turns"`
	Expected    []Expectation `json:"expected"`

	// Signal, when present, is applied to the session machine before the
	// first turn, the same way boot applies the accumulated aggregate.
	Signal *axiom.AggregateSignal `json:"aggregate_signal,omitempty"`
}

// Turn is one scripted exchange. Draft is what the model "would have said";
// intercepted turns never consume it.
type Turn struct {
	TurnID    string `json:"turn_id"`
	UserInput string `json:"user_input"`
	Draft     string `json:"draft"`
}

// Expectation captures what the pipeline should decide for one turn. Zero
// fields are not checked, so fixtures only pin down what they care about.
type Expectation struct {
	TurnID        string   `json:"turn_id"`
	Intercepted   bool     `json:"intercepted"`
	Decision      string   `json:"decision,omitempty"`
	A1            string   `json:"a1,omitempty"`
	A2            string   `json:"a2,omitempty"`
	EventsInclude []string `json:"events_include,omitempty"`
	FinalContains string   `json:"final_contains,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	if len(f.Turns) == 0 {
		return fmt.Errorf("no turns")
	}
	seen := make(map[string]struct{}, len(f.Turns))
	for i, t := range f.Turns {
		if t.TurnID == "" {
			return fmt.Errorf("turn %d has no turn_id", i)
		}
		if _, dup := seen[t.TurnID]; dup {
			return fmt.Errorf("duplicate turn_id %q", t.TurnID)
		}
		seen[t.TurnID] = struct{}{}
	}
	for _, e := range f.Expected {
		if _, ok := seen[e.TurnID]; !ok {
			return fmt.Errorf("expectation for unknown turn_id %q", e.TurnID)
		}
	}
	return nil
}

// expectationFor returns the expectation for a turn, if any.
func (f *Fixture) expectationFor(turnID string) (Expectation, bool) {
	for _, e := range f.Expected {
		if e.TurnID == turnID {
			return e, true
		}
	}
	return Expectation{}, false
}

// #endregion fixture-loader
