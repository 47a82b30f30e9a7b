package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/boot"
	"github.com/ahalasec/ODG-ACI4A/internal/generator"
)

// chatCmd starts the interactive REPL against a local Ollama model.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive governed chat",
	Long: `Starts a terminal chat session. Each message runs one full cycle:
draft generation, intent analysis, vector scoring, state transitions,
safeguard decision and tone modulation. Type 'sair' or 'quit' to leave.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	gen := generatorFromConfig()
	a, err := openApp(gen)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if oc, ok := gen.(*generator.OllamaClient); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := oc.Ping(pingCtx); err != nil {
			logger.Warn("ollama unreachable, drafts will degrade to the error sentinel",
				zap.String("url", a.cfg.OllamaURL), zap.Error(err))
		}
		cancel()
	}

	fmt.Println("Lumin pronta. Sessão:", a.sess.ID)
	fmt.Printf("  ledger: %s | modelo: %s\n", a.cfg.DBPath, a.cfg.Model)
	if a.boot.HasPreviousSession {
		fmt.Println("  estado axiomático restaurado de sessões anteriores.")
	}
	if !a.cfg.Enabled {
		fmt.Println("  AVISO: pipeline de segurança desativado (LUMIN_ENABLED=false).")
	}
	fmt.Println("Digite sua mensagem ('sair' para encerrar):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "sair" || input == "quit" || input == "exit" {
			break
		}

		out, err := a.engine.Process(ctx, a.sess, input)
		if err != nil {
			logger.Error("cycle failed", zap.Error(err))
			continue
		}

		fmt.Printf("\n%s\n\n", out.Final)
		if verbose && !out.Intercepted {
			fmt.Printf("[decisão=%s eventos=%v A1=%s A2=%s]\n",
				out.Decision, out.Events, out.States["A1"], out.States["A2"])
		}
	}
	return scanner.Err()
}

// generatorFromConfig builds the Ollama-backed generator from env config.
func generatorFromConfig() generator.Generator {
	cfg := boot.LoadConfig()
	return generator.NewOllamaClient(cfg.OllamaURL, cfg.Model, logger)
}
