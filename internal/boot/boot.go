// Package boot is the ethical boot layer: it loads configuration,
// rehydrates the axiom machine from the ledger and seeds the session
// prognosis before the first exchange.
package boot

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
)

// #region config

// Config carries runtime settings. Values come from the environment with
// safe defaults; a .env file may populate the environment beforehand.
type Config struct {
	DBPath     string
	FlagsDir   string
	AxiomsPath string
	OllamaURL  string
	Model      string
	SessionID  string
	Enabled    bool
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	return Config{
		DBPath:     envOr("LUMIN_DB", "lumin_ledger.db"),
		FlagsDir:   envOr("LUMIN_FLAGS_DIR", "flags"),
		AxiomsPath: envOr("LUMIN_AXIOMS", "odg_master.json"),
		OllamaURL:  envOr("LUMIN_OLLAMA_URL", "http://localhost:11434"),
		Model:      envOr("LUMIN_MODEL", "odg-core-llama3.1-8b"),
		SessionID:  os.Getenv("LUMIN_SESSION"),
		Enabled:    os.Getenv("LUMIN_ENABLED") != "false",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion config

// #region boot

// Result reports what the boot sequence managed to restore.
type Result struct {
	HasPreviousSession bool
	Signal             axiom.AggregateSignal
	Prognosis          axiom.Prognosis
	OK                 bool
	Errors             []string
}

// LoadAxioms reads the master axiom definitions file.
func LoadAxioms(path string) (map[string]axiom.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read axioms %s: %w", path, err)
	}
	var master axiom.MasterFile
	if err := json.Unmarshal(data, &master); err != nil {
		return nil, fmt.Errorf("parse axioms %s: %w", path, err)
	}
	if len(master.Axioms) == 0 {
		return nil, fmt.Errorf("axioms %s: no \"axiomas\" entries", path)
	}
	return master.Axioms, nil
}

// Boot loads the axiom definitions, rehydrates the machine from the
// ledger, applies aggregate modulators and seeds the prognosis. Failures
// are collected rather than fatal: the pipeline still runs with defaults.
func Boot(cfg Config, store *ledger.Store, machine *axiom.Machine, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	res := Result{OK: true}

	defs, err := LoadAxioms(cfg.AxiomsPath)
	if err != nil {
		res.OK = false
		res.Errors = append(res.Errors, fmt.Sprintf("load axioms: %v", err))
		log.Warn("boot: axiom definitions unavailable, keeping defaults", zap.Error(err))
	} else {
		machine.LoadDefinitions(defs)
	}
	machine.Validate()

	snap, hasSnap, err := store.LoadSnapshot()
	if err != nil {
		res.OK = false
		res.Errors = append(res.Errors, fmt.Sprintf("load snapshot: %v", err))
		log.Warn("boot: snapshot load failed", zap.Error(err))
	} else if hasSnap {
		machine.RestoreSnapshot(snap)
		res.HasPreviousSession = true
	}

	sig, _, err := store.LoadAggregateStats()
	if err != nil {
		res.OK = false
		res.Errors = append(res.Errors, fmt.Sprintf("load aggregate stats: %v", err))
		log.Warn("boot: aggregate stats load failed", zap.Error(err))
	}
	res.Signal = sig

	res.Prognosis = computeInitialPrognosis(res.HasPreviousSession, sig)
	machine.ApplyAggregateModulators(sig, res.Prognosis)

	log.Info("boot complete",
		zap.Bool("previous_session", res.HasPreviousSession),
		zap.Bool("ok", res.OK),
		zap.String("predicted_self_harm", res.Prognosis.PredictedSelfHarmRisk))
	return res
}

// computeInitialPrognosis seeds a conservative forecast. Aggregate
// self-harm risk is the only signal promoted above "low" for now.
func computeInitialPrognosis(hasPrevious bool, sig axiom.AggregateSignal) axiom.Prognosis {
	prog := axiom.Prognosis{
		PredictedSelfHarmRisk:         "low",
		PredictedChemistryRisk:        "low",
		PredictedViolenceRisk:         "low",
		PredictedEmotionalInstability: "low",
		HasPreviousSession:            hasPrevious,
	}
	if sig.GlobalSelfHarmRisk == "medium" || sig.GlobalSelfHarmRisk == "high" {
		prog.PredictedSelfHarmRisk = sig.GlobalSelfHarmRisk
	}
	return prog
}

// #endregion boot
