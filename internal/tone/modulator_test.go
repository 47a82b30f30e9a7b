package tone

import (
	"strings"
	"testing"

	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

func TestDetectLineLimit(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    int
		hasWant bool
	}{
		{"plural", "me explica em 3 linhas", 3, true},
		{"singular", "resuma em 1 linha", 1, true},
		{"uppercase", "EM 5 LINHAS POR FAVOR", 5, true},
		{"clamps high", "quero em 50 linhas", 10, true},
		{"no request", "me explica com calma", 0, false},
		{"number without linha", "tenho 3 gatos", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := detectLineLimit(tc.in)
			if ok != tc.hasWant || got != tc.want {
				t.Errorf("detectLineLimit(%q) = (%d, %v), want (%d, %v)",
					tc.in, got, ok, tc.want, tc.hasWant)
			}
		})
	}
}

func TestApplyLineLimit(t *testing.T) {
	t.Run("reuses existing lines", func(t *testing.T) {
		in := "linha um\nlinha dois\nlinha três\nlinha quatro"
		got := applyLineLimit(in, 2)
		if got != "linha um\nlinha dois" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("packs sentences when unlined", func(t *testing.T) {
		in := "Primeira frase. Segunda frase. Terceira frase."
		got := applyLineLimit(in, 2)
		if n := len(strings.Split(got, "\n")); n > 2 {
			t.Errorf("got %d lines, want at most 2: %q", n, got)
		}
		if !strings.Contains(got, "Primeira frase.") {
			t.Errorf("lost leading sentence: %q", got)
		}
	})

	t.Run("long sentences split across lines", func(t *testing.T) {
		long := strings.Repeat("palavra ", 30)
		in := strings.TrimSpace(long) + ". " + strings.TrimSpace(long) + ". " + strings.TrimSpace(long) + "."
		got := applyLineLimit(in, 2)
		if n := len(strings.Split(got, "\n")); n != 2 {
			t.Errorf("got %d lines, want 2: %q", n, got)
		}
	})

	t.Run("never invents lines", func(t *testing.T) {
		got := applyLineLimit("Só uma frase curta.", 5)
		if n := len(strings.Split(got, "\n")); n != 1 {
			t.Errorf("got %d lines, want 1", n)
		}
	})
}

func TestModulateLevels(t *testing.T) {
	m := NewModulator(nil)
	draft := "Aqui vai a resposta técnica completa."

	t.Run("neutral strips only", func(t *testing.T) {
		got := m.Modulate("me explica isso", "  "+draft+"  ", intent.Vector{}, nil)
		if got != draft {
			t.Errorf("got %q, want %q", got, draft)
		}
	})

	t.Run("elevated emotion gets moderate block", func(t *testing.T) {
		got := m.Modulate("tô cansado, me explica", draft,
			intent.Vector{EmotionLevel: intent.EmotionElevated}, nil)
		if !strings.HasPrefix(got, "Entendi o que você trouxe.") {
			t.Errorf("missing moderate preamble: %q", got)
		}
		if !strings.Contains(got, draft) {
			t.Errorf("draft dropped: %q", got)
		}
	})

	t.Run("high emotion gets deep block", func(t *testing.T) {
		got := m.Modulate("tô destruído", draft,
			intent.Vector{EmotionLevel: intent.EmotionHigh}, nil)
		if !strings.HasPrefix(got, "Percebo que isso pode estar trazendo") {
			t.Errorf("missing deep preamble: %q", got)
		}
	})

	t.Run("smoothing score drives levels", func(t *testing.T) {
		res := &vsi.Result{
			EmotionalSmoothing: vsi.Score{Score: 0.7},
			Fused:              vsi.Fused{ThreatLevel: vsi.ThreatLow, InterventionPriority: vsi.PriorityStandard},
		}
		got := m.Modulate("pergunta neutra", draft, intent.Vector{}, res)
		if !strings.HasPrefix(got, "Percebo que isso pode estar trazendo") {
			t.Errorf("smoothing 0.7 should reach deep level: %q", got)
		}
	})
}

func TestModulateLineLimitRequest(t *testing.T) {
	m := NewModulator(nil)
	draft := "Primeira frase. Segunda frase. Terceira frase. Quarta frase. Quinta frase."

	got := m.Modulate("responda em 3 linhas", draft, intent.Vector{}, nil)
	if n := len(strings.Split(got, "\n")); n > 3 {
		t.Errorf("got %d lines, want at most 3: %q", n, got)
	}
	if strings.HasPrefix(got, "Entendi o que você trouxe.") {
		t.Errorf("line-limited output should skip preambles: %q", got)
	}
}

func TestModulateCrisisOverridesEverything(t *testing.T) {
	m := NewModulator(nil)
	draft := "resposta qualquer que não deveria aparecer"

	cases := []struct {
		name string
		v    intent.Vector
		res  *vsi.Result
	}{
		{"self harm", intent.Vector{HasSelfHarm: true}, nil},
		{"violence", intent.Vector{HasViolence: true}, nil},
		{
			"high threat",
			intent.Vector{},
			&vsi.Result{Fused: vsi.Fused{ThreatLevel: vsi.ThreatHigh}},
		},
		{
			"critical threat",
			intent.Vector{},
			&vsi.Result{Fused: vsi.Fused{ThreatLevel: vsi.ThreatCritical}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Modulate("responda em 2 linhas", draft, tc.v, tc.res)
			if got != CrisisText {
				t.Errorf("crisis output differs from fixed text: %q", got)
			}
			if strings.Contains(got, draft) {
				t.Errorf("crisis output leaked the draft")
			}
			if !strings.Contains(got, "188 (CVV)") {
				t.Errorf("crisis output missing support channel")
			}
			if n := len(strings.Split(strings.TrimRight(got, "\n"), "\n")); n <= 2 {
				t.Errorf("crisis output should ignore the 2-line request, got %d lines", n)
			}
		})
	}
}
