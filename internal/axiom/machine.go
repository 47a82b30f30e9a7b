package axiom

import (
	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/intent"
)

// #region states

// A1 guards life preservation, A2 guards truth and reality validation.
const (
	A1 = "A1"
	A2 = "A2"
)

// A1 states.
const (
	A1SafeFlow = "A1_SAFE_FLOW"
	A1Query    = "A1_QUERY"
	A1Risk     = "A1_RISK"
	A1Override = "A1_OVERRIDE"
)

// A2 states.
const (
	A2Baseline      = "A2_BASELINE"
	A2Uncertainty   = "A2_UNCERTAINTY"
	A2Contradiction = "A2_CONTRADICTION"
	A2DeliriumRisk  = "A2_DELIRIUM_RISK"
)

// #endregion states

// #region modulators

// Modulator tunes how eagerly an axiom escalates. Rigidity controls how
// fast A1 climbs to RISK, sensitivity how easily A2 leaves baseline.
type Modulator struct {
	Rigidity    float64 `json:"rigidity"`
	Sensitivity float64 `json:"sensitivity"`
}

func defaultModulator() Modulator {
	return Modulator{Rigidity: 1.0, Sensitivity: 1.0}
}

// AggregateSignal carries long-horizon risk levels accumulated across
// sessions. Levels are "low", "medium" or "high".
type AggregateSignal struct {
	GlobalSelfHarmRisk     string `json:"global_self_harm_risk"`
	MisinformationPressure string `json:"misinformation_pressure"`
}

// Prognosis is the per-session risk forecast seeded at boot.
type Prognosis struct {
	PredictedSelfHarmRisk         string `json:"predicted_self_harm_risk"`
	PredictedChemistryRisk        string `json:"predicted_chemistry_risk"`
	PredictedViolenceRisk         string `json:"predicted_violence_risk"`
	PredictedEmotionalInstability string `json:"predicted_emotional_instability"`
	HasPreviousSession            bool   `json:"has_previous_session"`
}

// AggregateModulator is implemented by anything able to adjust the
// machine's modulators from accumulated signals. The machine itself
// satisfies it; alternative policies can be swapped in.
type AggregateModulator interface {
	ApplyAggregateModulators(sig AggregateSignal, prog Prognosis)
}

func elevated(level string) bool {
	return level == "medium" || level == "high"
}

// #endregion modulators

// #region definitions

// FSMDef is the state-machine fragment of a master axiom definition.
type FSMDef struct {
	InitialState string `json:"initial_state"`
}

// Definition is one axiom entry from the master definitions file.
type Definition struct {
	Description string `json:"descricao,omitempty"`
	FSM         FSMDef `json:"fsm"`
}

// MasterFile is the on-disk shape of the axiom master document.
type MasterFile struct {
	Version string                `json:"versao,omitempty"`
	Axioms  map[string]Definition `json:"axiomas"`
}

// #endregion definitions

// #region snapshot

// Snapshot is the serializable FSM state written to and restored from
// the session ledger.
type Snapshot struct {
	States     map[string]string    `json:"fsm_states"`
	Modulators map[string]Modulator `json:"fsm_modulators"`
}

// #endregion snapshot

// #region machine

// Machine holds the current state of every axiom and steps them on each
// batch of symbolic events.
type Machine struct {
	states     map[string]string
	modulators map[string]Modulator
	log        *zap.Logger
}

// NewMachine returns a machine with both axioms in their resting states
// and neutral modulators.
func NewMachine(log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		states: map[string]string{
			A1: A1SafeFlow,
			A2: A2Baseline,
		},
		modulators: map[string]Modulator{
			A1: defaultModulator(),
			A2: defaultModulator(),
		},
		log: log,
	}
}

// State returns the current state of an axiom.
func (m *Machine) State(axiom string) string { return m.states[axiom] }

// Modulator returns the current modulator of an axiom.
func (m *Machine) Modulator(axiom string) Modulator {
	if mod, ok := m.modulators[axiom]; ok {
		return mod
	}
	return defaultModulator()
}

// LoadDefinitions resets states from the master definitions. Entries
// without an initial state are skipped; A1 and A2 are always backfilled.
func (m *Machine) LoadDefinitions(defs map[string]Definition) {
	m.states = make(map[string]string, len(defs))
	for name, def := range defs {
		if def.FSM.InitialState != "" {
			m.states[name] = def.FSM.InitialState
		}
	}
	m.ensureDefaults()
	m.log.Debug("axiom definitions loaded", zap.Int("axioms", len(defs)))
}

// Validate checks that the critical axioms have states and modulators,
// repairing with defaults and warning when something was missing.
func (m *Machine) Validate() {
	if _, ok := m.states[A1]; !ok {
		m.log.Warn("A1 had no state, applying default", zap.String("state", A1SafeFlow))
	}
	if _, ok := m.states[A2]; !ok {
		m.log.Warn("A2 had no state, applying default", zap.String("state", A2Baseline))
	}
	m.ensureDefaults()
}

// ensureDefaults backfills states and modulators for the critical axioms.
func (m *Machine) ensureDefaults() {
	if _, ok := m.states[A1]; !ok {
		m.states[A1] = A1SafeFlow
	}
	if _, ok := m.states[A2]; !ok {
		m.states[A2] = A2Baseline
	}
	if _, ok := m.modulators[A1]; !ok {
		m.modulators[A1] = defaultModulator()
	}
	if _, ok := m.modulators[A2]; !ok {
		m.modulators[A2] = defaultModulator()
	}
}

// #endregion machine

// #region transitions

// Events that force A1 toward RISK regardless of prior state.
var hardRiskEvents = []string{
	intent.EventSelfHarm,
	intent.EventChemistry,
	intent.EventViolence,
	"intent_selfharm_latent",
	"intent_chemistry_latent",
	"intent_extreme_scenario",
}

// Events that only nudge A1 out of SAFE_FLOW into QUERY.
var softRiskEvents = []string{
	intent.EventRiskManipulation,
	intent.EventRiskFractioned,
}

func anyIn(events []string, wanted []string) bool {
	for _, w := range wanted {
		for _, e := range events {
			if e == w {
				return true
			}
		}
	}
	return false
}

func has(events []string, ev string) bool {
	for _, e := range events {
		if e == ev {
			return true
		}
	}
	return false
}

// ProcessEvents steps both axioms on one batch of events and returns the
// resulting state map.
func (m *Machine) ProcessEvents(events []string) map[string]string {
	m.ensureDefaults()

	a1 := m.states[A1]
	a2 := m.states[A2]
	rigidity := m.Modulator(A1).Rigidity

	switch {
	case anyIn(events, hardRiskEvents):
		if rigidity >= 1.0 {
			a1 = A1Risk
		} else {
			a1 = A1Query
		}
	case anyIn(events, softRiskEvents) && a1 == A1SafeFlow:
		a1 = A1Query
	case has(events, intent.EventAmbiguityHigh) && a1 == A1SafeFlow:
		a1 = A1Query
	case has(events, intent.EventNoRisk) && (a1 == A1Query || a1 == A1Risk):
		a1 = A1SafeFlow
	}

	switch {
	case has(events, intent.EventMetaQuery) || has(events, intent.EventAmbiguityHigh):
		a2 = A2Uncertainty
	case has(events, intent.EventNoRisk) && a2 != A2Baseline:
		a2 = A2Baseline
	}

	if a1 != m.states[A1] || a2 != m.states[A2] {
		m.log.Info("axiom transition",
			zap.String("a1", a1), zap.String("a2", a2),
			zap.Strings("events", events))
	}
	m.states[A1] = a1
	m.states[A2] = a2
	return m.States()
}

// States returns a copy of the current state map.
func (m *Machine) States() map[string]string {
	out := make(map[string]string, len(m.states))
	for k, v := range m.states {
		out[k] = v
	}
	return out
}

// #endregion transitions

// #region aggregate

// ApplyAggregateModulators adjusts rigidity and sensitivity from the
// accumulated aggregate signals and the session prognosis. The adjustment
// is idempotent: applying the same inputs twice leaves the same values.
func (m *Machine) ApplyAggregateModulators(sig AggregateSignal, prog Prognosis) {
	m.ensureDefaults()

	a1 := m.modulators[A1]
	if elevated(sig.GlobalSelfHarmRisk) || elevated(prog.PredictedSelfHarmRisk) {
		if a1.Rigidity < 1.2 {
			a1.Rigidity = 1.2
		}
	} else if a1.Rigidity > 1.0 {
		a1.Rigidity = 1.0
	}
	m.modulators[A1] = a1

	a2 := m.modulators[A2]
	if elevated(sig.MisinformationPressure) {
		if a2.Sensitivity < 1.2 {
			a2.Sensitivity = 1.2
		}
	} else if a2.Sensitivity > 1.0 {
		a2.Sensitivity = 1.0
	}
	m.modulators[A2] = a2

	m.log.Debug("aggregate modulators applied",
		zap.Float64("a1_rigidity", a1.Rigidity),
		zap.Float64("a2_sensitivity", a2.Sensitivity))
}

// #endregion aggregate

// #region snapshot io

// Snapshot exports the machine state for the ledger.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		States:     m.States(),
		Modulators: make(map[string]Modulator, len(m.modulators)),
	}
	for k, v := range m.modulators {
		snap.Modulators[k] = v
	}
	return snap
}

// RestoreSnapshot merges a ledger snapshot over the current state. Axioms
// absent from the snapshot keep their defaults.
func (m *Machine) RestoreSnapshot(snap Snapshot) {
	for ax, state := range snap.States {
		m.states[ax] = state
	}
	for ax, mod := range snap.Modulators {
		m.modulators[ax] = mod
	}
	m.ensureDefaults()
}

// #endregion snapshot io
