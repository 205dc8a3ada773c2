// ABOUTME: CLI command to search the knowledge base
// ABOUTME: Embeds the query and prints similarity-ranked chunks
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/knowbase/internal/models"
	"github.com/joho/godotenv"
)

var (
	searchLimit  int
	searchSource string
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long: `Search the knowledge base with a natural-language query.

The query is embedded and matched against stored chunks by semantic
similarity; results come back most similar first.

Examples:
  kb search "what time does the cafe close"
  kb search --limit 10 "deployment checklist"
  kb search --source faq.txt --format json "opening hours"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", models.DefaultMaxResults, "Maximum results to return")
	cmd.Flags().StringVar(&searchSource, "source", "", "Restrict results to this source")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	tool, closeStore, err := newSearchTool()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	req := models.SearchRequest{
		Query:        args[0],
		MaxResults:   searchLimit,
		SourceFilter: searchSource,
	}

	results, err := tool.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("searching knowledge base: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No results found for query: %s\n", req.Query)
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		// Table format
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tSOURCE\tTYPE\tCONTENT\n")
		fmt.Fprintf(w, "-----\t------\t----\t-------\n")

		for _, result := range results {
			fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
				result.Similarity,
				truncate(result.Source, 25),
				truncate(result.SourceType, 10),
				truncate(result.Content, 60))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
		}
	}

	return nil
}
