package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var inspectLimit int

// inspectCmd prints the ledger state without running any cycles.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show ledger contents and persisted machine state",
	Long: `Prints the recorded cycle count, the persisted axiomatic snapshot,
aggregate risk statistics and the most recent cycles.`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.CountInteractions()
	if err != nil {
		return fmt.Errorf("count interactions: %w", err)
	}
	fmt.Printf("ledger: %s\n", cfg.DBPath)
	fmt.Printf("ciclos registrados: %d\n", count)

	snap, ok, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if ok {
		fmt.Printf("estados persistidos: %v\n", snap.States)
		fmt.Printf("moduladores: %v\n", snap.Modulators)
	} else {
		fmt.Println("nenhum snapshot axiomático persistido.")
	}

	sig, ok, err := store.LoadAggregateStats()
	if err != nil {
		return fmt.Errorf("load aggregate stats: %w", err)
	}
	if ok {
		fmt.Printf("risco agregado: autolesão=%s desinformação=%s\n",
			sig.GlobalSelfHarmRisk, sig.MisinformationPressure)
	}

	if count == 0 || inspectLimit <= 0 {
		return nil
	}

	recent, err := store.ListInteractions(inspectLimit)
	if err != nil {
		return fmt.Errorf("list interactions: %w", err)
	}
	fmt.Printf("\núltimos %d ciclos:\n", len(recent))
	for _, rec := range recent {
		fmt.Printf("  [%s] sessão=%s decisão=%s eventos=%v\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.SessionID, rec.Decision, rec.Events)
		fmt.Printf("      usuário: %s\n", truncate(rec.UserMsg, 80))
		fmt.Printf("      resposta: %s\n", truncate(rec.Final, 80))
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
