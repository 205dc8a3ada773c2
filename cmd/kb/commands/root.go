// ABOUTME: Root command for the knowledge base CLI
// ABOUTME: Wires subcommands and persistent output flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet        bool
	verbose      bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Semantic knowledge base from the command line",
		Long: `kb indexes free-text content as embeddings and answers
natural-language queries by similarity search over the stored chunks.

Content is embedded with OpenAI and persisted in a local SQLite store
(or cloud-synced Charm KV), tagged with its source and metadata.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table or json)")

	cmd.AddCommand(
		NewAddCmd(),
		NewSearchCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
