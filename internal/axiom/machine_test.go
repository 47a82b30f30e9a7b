package axiom

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ahalasec/ODG-ACI4A/internal/intent"
)

func TestProcessEventsA1(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		events []string
		want   string
	}{
		{"self harm escalates", A1SafeFlow, []string{intent.EventSelfHarm}, A1Risk},
		{"chemistry escalates", A1SafeFlow, []string{intent.EventChemistry}, A1Risk},
		{"violence escalates", A1SafeFlow, []string{intent.EventViolence}, A1Risk},
		{"latent vector escalates", A1SafeFlow, []string{"intent_selfharm_latent"}, A1Risk},
		{"soft risk from safe flow", A1SafeFlow, []string{intent.EventRiskManipulation}, A1Query},
		{"fractioned from safe flow", A1SafeFlow, []string{intent.EventRiskFractioned}, A1Query},
		{"soft risk does not demote risk", A1Risk, []string{intent.EventRiskManipulation}, A1Risk},
		{"ambiguity from safe flow", A1SafeFlow, []string{intent.EventAmbiguityHigh}, A1Query},
		{"ambiguity does not demote risk", A1Risk, []string{intent.EventAmbiguityHigh}, A1Risk},
		{"no risk recovers from query", A1Query, []string{intent.EventNoRisk}, A1SafeFlow},
		{"no risk recovers from risk", A1Risk, []string{intent.EventNoRisk}, A1SafeFlow},
		{"figurative alone stays safe", A1SafeFlow, []string{intent.EventSelfHarmFigurative}, A1SafeFlow},
		{"empty batch keeps state", A1Query, nil, A1Query},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(nil)
			m.states[A1] = tc.from
			m.ProcessEvents(tc.events)
			if got := m.State(A1); got != tc.want {
				t.Errorf("A1: %s + %v = %s, want %s", tc.from, tc.events, got, tc.want)
			}
		})
	}
}

func TestProcessEventsA2(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		events []string
		want   string
	}{
		{"meta query raises uncertainty", A2Baseline, []string{intent.EventMetaQuery}, A2Uncertainty},
		{"ambiguity raises uncertainty", A2Baseline, []string{intent.EventAmbiguityHigh}, A2Uncertainty},
		{"no risk recovers baseline", A2Uncertainty, []string{intent.EventNoRisk}, A2Baseline},
		{"baseline stays baseline", A2Baseline, []string{intent.EventNoRisk}, A2Baseline},
		{"unrelated events keep state", A2Uncertainty, []string{intent.EventEmotionHigh}, A2Uncertainty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(nil)
			m.states[A2] = tc.from
			m.ProcessEvents(tc.events)
			if got := m.State(A2); got != tc.want {
				t.Errorf("A2: %s + %v = %s, want %s", tc.from, tc.events, got, tc.want)
			}
		})
	}
}

func TestLowRigidityEscalatesToQuery(t *testing.T) {
	m := NewMachine(nil)
	m.modulators[A1] = Modulator{Rigidity: 0.8, Sensitivity: 1.0}
	m.ProcessEvents([]string{intent.EventSelfHarm})
	if got := m.State(A1); got != A1Query {
		t.Errorf("A1 under low rigidity = %s, want %s", got, A1Query)
	}
}

func TestApplyAggregateModulators(t *testing.T) {
	cases := []struct {
		name     string
		sig      AggregateSignal
		prog     Prognosis
		rigidity float64
		sens     float64
	}{
		{
			"all low keeps defaults",
			AggregateSignal{GlobalSelfHarmRisk: "low", MisinformationPressure: "low"},
			Prognosis{PredictedSelfHarmRisk: "low"},
			1.0, 1.0,
		},
		{
			"global self harm raises rigidity",
			AggregateSignal{GlobalSelfHarmRisk: "high", MisinformationPressure: "low"},
			Prognosis{PredictedSelfHarmRisk: "low"},
			1.2, 1.0,
		},
		{
			"predicted self harm raises rigidity",
			AggregateSignal{GlobalSelfHarmRisk: "low", MisinformationPressure: "low"},
			Prognosis{PredictedSelfHarmRisk: "medium"},
			1.2, 1.0,
		},
		{
			"misinformation raises sensitivity",
			AggregateSignal{GlobalSelfHarmRisk: "low", MisinformationPressure: "medium"},
			Prognosis{PredictedSelfHarmRisk: "low"},
			1.0, 1.2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(nil)
			m.ApplyAggregateModulators(tc.sig, tc.prog)
			if got := m.Modulator(A1).Rigidity; got != tc.rigidity {
				t.Errorf("A1 rigidity = %v, want %v", got, tc.rigidity)
			}
			if got := m.Modulator(A2).Sensitivity; got != tc.sens {
				t.Errorf("A2 sensitivity = %v, want %v", got, tc.sens)
			}
		})
	}
}

func TestApplyAggregateModulatorsIdempotent(t *testing.T) {
	m := NewMachine(nil)
	sig := AggregateSignal{GlobalSelfHarmRisk: "high", MisinformationPressure: "medium"}
	prog := Prognosis{PredictedSelfHarmRisk: "high"}

	m.ApplyAggregateModulators(sig, prog)
	first := m.Snapshot()
	m.ApplyAggregateModulators(sig, prog)
	second := m.Snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("modulators drifted on reapply (-first +second):\n%s", diff)
	}

	// Dropping back to low signals relaxes toward the defaults.
	m.ApplyAggregateModulators(AggregateSignal{}, Prognosis{})
	if got := m.Modulator(A1).Rigidity; got != 1.0 {
		t.Errorf("A1 rigidity after relax = %v, want 1.0", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := NewMachine(nil)
	m.ProcessEvents([]string{intent.EventSelfHarm})
	m.ApplyAggregateModulators(
		AggregateSignal{GlobalSelfHarmRisk: "high"},
		Prognosis{},
	)
	snap := m.Snapshot()

	restored := NewMachine(nil)
	restored.RestoreSnapshot(snap)

	if diff := cmp.Diff(snap, restored.Snapshot()); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreSnapshotPartialKeepsDefaults(t *testing.T) {
	m := NewMachine(nil)
	m.RestoreSnapshot(Snapshot{
		States: map[string]string{A1: A1Query},
	})
	if got := m.State(A1); got != A1Query {
		t.Errorf("A1 = %s, want %s", got, A1Query)
	}
	if got := m.State(A2); got != A2Baseline {
		t.Errorf("A2 = %s, want default %s", got, A2Baseline)
	}
	if got := m.Modulator(A1); got != defaultModulator() {
		t.Errorf("A1 modulator = %+v, want default", got)
	}
}

func TestLoadDefinitions(t *testing.T) {
	m := NewMachine(nil)
	m.ProcessEvents([]string{intent.EventSelfHarm})

	m.LoadDefinitions(map[string]Definition{
		A1: {FSM: FSMDef{InitialState: A1SafeFlow}},
		A2: {FSM: FSMDef{InitialState: A2Baseline}},
	})
	if got := m.State(A1); got != A1SafeFlow {
		t.Errorf("A1 = %s, want reset to %s", got, A1SafeFlow)
	}

	// Entries without an initial state are skipped but A1/A2 backfill.
	m.LoadDefinitions(map[string]Definition{
		A1: {Description: "sem estado"},
	})
	if got := m.State(A1); got != A1SafeFlow {
		t.Errorf("A1 = %s, want default %s", got, A1SafeFlow)
	}
	if got := m.State(A2); got != A2Baseline {
		t.Errorf("A2 = %s, want default %s", got, A2Baseline)
	}
}

func TestValidateRepairsMissingState(t *testing.T) {
	m := NewMachine(nil)
	m.LoadDefinitions(nil)
	m.Validate()

	if got := m.State(A1); got != A1SafeFlow {
		t.Errorf("A1 = %s, want %s", got, A1SafeFlow)
	}
	if got := m.Modulator(A2); got != defaultModulator() {
		t.Errorf("A2 modulator = %+v, want default", got)
	}
}
