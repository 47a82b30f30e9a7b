package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/boot"
	"github.com/ahalasec/ODG-ACI4A/internal/flags"
	"github.com/ahalasec/ODG-ACI4A/internal/generator"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/ledger"
	"github.com/ahalasec/ODG-ACI4A/internal/pipeline"
	"github.com/ahalasec/ODG-ACI4A/internal/safeguard"
	"github.com/ahalasec/ODG-ACI4A/internal/tone"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

var (
	// Global flags
	verbose bool
	dbPath  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. Running it with no subcommand
// starts the interactive chat.
var rootCmd = &cobra.Command{
	Use:   "lumin",
	Short: "Lumin - governed conversational pipeline (ODG / ACI4A)",
	Long: `Lumin is the public language layer of the ODG / ACI4A architecture.

Every reply is drafted by a local model and then passes through the
guardian pipeline: lexical intent analysis, symbolic intent vectors,
axiomatic state machine, safeguard decision and tone modulation.
All cycles are recorded in a local SQLite ledger.

Run without arguments to start the interactive chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; absence is not an error.
		_ = godotenv.Load()

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Ledger database path (default: LUMIN_DB or lumin_ledger.db)")

	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print per-turn results as JSON")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 5, "How many recent cycles to show")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// #region runtime

// app bundles everything a subcommand needs to run pipeline cycles.
type app struct {
	cfg     boot.Config
	store   *ledger.Store
	machine *axiom.Machine
	engine  *pipeline.Engine
	sess    *pipeline.Session
	boot    boot.Result
}

// openApp loads config, opens the ledger, reboots the machine from it and
// assembles the pipeline around the given generator.
func openApp(gen generator.Generator) (*app, error) {
	cfg := boot.LoadConfig()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	store, err := ledger.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", cfg.DBPath, err)
	}

	machine := axiom.NewMachine(logger)
	res := boot.Boot(cfg, store, machine, logger)
	for _, e := range res.Errors {
		logger.Warn("boot degraded", zap.String("cause", e))
	}

	catalog := flags.NewCatalog()
	catalog.LoadDir(cfg.FlagsDir, logger)
	logger.Info("flag catalog loaded",
		zap.String("dir", cfg.FlagsDir),
		zap.Int("flags", catalog.Len()))

	engine := pipeline.NewEngine(
		gen,
		intent.NewAnalyzer(catalog, logger),
		vsi.NewScorer(logger),
		safeguard.NewPolicy(logger),
		tone.NewModulator(logger),
		store,
		logger,
		pipeline.Options{
			Prognosis: res.Prognosis,
			Disabled:  !cfg.Enabled,
		},
	)

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &app{
		cfg:     cfg,
		store:   store,
		machine: machine,
		engine:  engine,
		sess:    pipeline.NewSession(sessionID, machine),
		boot:    res,
	}, nil
}

// openStore opens just the ledger, for subcommands that never run cycles.
func openStore() (*ledger.Store, boot.Config, error) {
	cfg := boot.LoadConfig()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	store, err := ledger.NewStore(cfg.DBPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("open ledger %s: %w", cfg.DBPath, err)
	}
	return store, cfg, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("ledger close failed", zap.Error(err))
	}
}

// #endregion runtime
