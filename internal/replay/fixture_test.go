package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
)

// #region fixture-tests

// TestFixture_ModerationBasic loads the bundled fixture, runs it through a
// real pipeline and requires every turn to match its expectation. This is
// the primary regression test: if the lexicon, scorer thresholds or state
// transitions drift, this catches it.
func TestFixture_ModerationBasic(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "moderation_basic.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	results, sum, err := Run(context.Background(), f, store, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != len(f.Turns) {
		t.Fatalf("got %d results for %d turns", len(results), len(f.Turns))
	}
	for _, r := range results {
		for _, m := range r.Mismatches {
			t.Errorf("turn %s: %s", r.TurnID, m)
		}
	}
	if sum.Mismatched != 0 {
		t.Errorf("summary reports %d mismatched turns", sum.Mismatched)
	}
	if sum.Matched != len(f.Turns) {
		t.Errorf("summary matched = %d, want %d", sum.Matched, len(f.Turns))
	}

	// Interceptor turn t2 is not recorded, so three rows remain.
	if n, _ := store.CountInteractions(); n != 3 {
		t.Errorf("ledger rows = %d, want 3", n)
	}
}

func TestLoadFixtureValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no turns", `{"description":"x","turns":[]}`},
		{"missing turn id", `{"turns":[{"user_input":"oi"}]}`},
		{"duplicate turn id", `{"turns":[{"turn_id":"a"},{"turn_id":"a"}]}`},
		{"expectation for unknown turn", `{"turns":[{"turn_id":"a"}],"expected":[{"turn_id":"b"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.json")
			if err := writeFile(t, path, tc.body); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadFixture(path); err == nil {
				t.Errorf("LoadFixture accepted invalid fixture")
			}
		})
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("LoadFixture accepted missing file")
	}
}

// #endregion fixture-tests
