package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

// resetCmd wipes the ledger, including the persisted machine state.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all recorded cycles and persisted state",
	Long: `Deletes every recorded cycle, the axiomatic snapshot and the aggregate
risk statistics. The next session boots with default states. This cannot
be undone.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.CountInteractions()
	if err != nil {
		return fmt.Errorf("count interactions: %w", err)
	}

	if !resetYes {
		fmt.Printf("Apagar %d ciclo(s) e todo o estado persistido de %s? [s/N] ", count, cfg.DBPath)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return scanner.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "s" && answer != "sim" {
			fmt.Println("cancelado.")
			return nil
		}
	}

	if err := store.Reset(); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	fmt.Printf("ledger %s zerado (%d ciclos removidos).\n", cfg.DBPath, count)
	return nil
}
