package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahalasec/ODG-ACI4A/internal/boot"
	"github.com/ahalasec/ODG-ACI4A/internal/flags"
	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
	"github.com/ahalasec/ODG-ACI4A/internal/replay"
)

var replayJSON bool

// replayCmd runs a scripted fixture through the pipeline.
var replayCmd = &cobra.Command{
	Use:   "replay [fixture.json]",
	Short: "Replay a scripted conversation fixture",
	Long: `Replays a JSON fixture through a fresh pipeline and checks every turn
against its expectations. Drafts come from the fixture, not from a model,
so runs are deterministic. The replay uses a throwaway ledger and never
touches the live database.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "lumin-replay-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := ledger.NewStore(filepath.Join(tmpDir, "replay.db"))
	if err != nil {
		return fmt.Errorf("open replay ledger: %w", err)
	}
	defer store.Close()

	cfg := boot.LoadConfig()
	catalog := flags.NewCatalog()
	catalog.LoadDir(cfg.FlagsDir, logger)

	results, sum, err := replay.Run(context.Background(), f, store, catalog, logger)
	if err != nil {
		return err
	}

	if replayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if f.Description != "" {
		fmt.Println(f.Description)
	}
	for _, r := range results {
		if r.Matched() {
			fmt.Printf("  ok   %-8s decisão=%s\n", r.TurnID, r.Outcome.Decision)
			continue
		}
		fmt.Printf("  FAIL %-8s\n", r.TurnID)
		for _, m := range r.Mismatches {
			fmt.Printf("       %s\n", m)
		}
	}
	fmt.Printf("turnos=%d ok=%d falhas=%d estados finais=%v\n",
		sum.TotalTurns, sum.Matched, sum.Mismatched, sum.FinalStates)

	if sum.Mismatched > 0 {
		return fmt.Errorf("%d turn(s) diverged from expectations", sum.Mismatched)
	}
	return nil
}
