// GitForAI injects relevant commit history context into AI coding
// assistant prompts using semantic search over the repository's commit
// database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gitforai",
	Short: "Commit-history context injection for AI coding assistants",
	Long: `GitForAI turns a repository's commit history into a searchable vector
index and injects the most relevant commits into every prompt an AI coding
assistant receives.

All output meant for the host goes to stdout; diagnostics go to stderr, so
the hook can sit directly on an interactive prompt path.

Examples:
  # Build the vector index from the commit history
  gitforai index

  # See what a prompt would retrieve
  gitforai search "why does the lexer skip empty rules"

  # Run as a UserPromptSubmit hook (reads the event JSON from stdin)
  echo '{"userPrompt":"fix the parser"}' | gitforai hook

  # Run the HTTP server
  gitforai serve`,
	Version: Version,
}

func main() {
	// Silently ignore a missing .env file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}
