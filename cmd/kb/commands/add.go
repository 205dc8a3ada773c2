// ABOUTME: CLI command to add content to the knowledge base
// ABOUTME: Handles text, file, and stdin input with source metadata
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var (
	addFile       string
	addSource     string
	addSourceType string
	addMeta       []string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add content to the knowledge base",
		Long: `Add content to the knowledge base from an argument, file, or stdin.

The content is embedded and persisted with its source metadata; the
assigned chunk id is printed on success.

Examples:
  kb add --source faq.txt "The cafe closes at 9pm"
  kb add --file notes.txt --source-type notes
  cat handbook.md | kb add --source handbook.md --meta team=platform`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addFile, "file", "", "Read content from file")
	cmd.Flags().StringVar(&addSource, "source", "", "Source identifier (defaults to file name or \"stdin\")")
	cmd.Flags().StringVar(&addSourceType, "source-type", "text", "Source category tag")
	cmd.Flags().StringSliceVar(&addMeta, "meta", []string{}, "Metadata key=value pairs (repeatable)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	// Get content and derive a default source
	var content string
	source := addSource
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		content = string(data)
		if source == "" {
			source = filepath.Base(addFile)
		}
	} else if len(args) > 0 {
		content = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
		if source == "" {
			source = "stdin"
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("no content provided")
	}
	if source == "" {
		return fmt.Errorf("--source is required when adding inline content")
	}

	metadata, err := parseMetaPairs(addMeta)
	if err != nil {
		return err
	}

	tool, closeStore, err := newSearchTool()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	id, err := tool.AddToKnowledgeBase(cmd.Context(), content, source, addSourceType, metadata)
	if err != nil {
		return fmt.Errorf("adding to knowledge base: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (source: %s)\n", id, source)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
