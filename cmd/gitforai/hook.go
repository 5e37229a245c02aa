package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/hook"
	"github.com/bigale/gitforai/pkg/config"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a UserPromptSubmit hook",
	Long: `Reads one UserPromptSubmit event (JSON) from stdin and writes the
injection result (JSON) to stdout.

The command always exits 0 and always writes a well-formed result: any
internal failure degrades to an empty object so the host's prompt path is
never blocked. Only a misconfiguration fails the command.`,
	Args: cobra.NoArgs,
	RunE: runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	h, err := hook.Shared(cfg)
	if err != nil {
		return fmt.Errorf("initialize hook: %w", err)
	}

	result := domain.InjectionResult{}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Warn("reading hook event failed", "error", err)
		return writeResult(result)
	}

	var event domain.PromptEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		slog.Warn("malformed hook event", "error", err)
		return writeResult(result)
	}

	result = h.OnPromptSubmit(context.Background(), event)
	return writeResult(result)
}

// writeResult emits the injection result to stdout. Stdout carries nothing
// else; diagnostics go to stderr via slog.
func writeResult(result domain.InjectionResult) error {
	out, err := json.Marshal(result)
	if err != nil {
		out = []byte("{}")
	}
	fmt.Println(string(out))
	return nil
}
