package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

var (
	searchJSON   bool
	searchPath   string
	searchLocale string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed pages",
	Long: `Performs a hybrid search across all indexed pages.
Combines a semantic (vector) similarity search with a keyword filter search
over page content and headings. Semantic hits come first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchPath, "path", "", "page the query is issued from")
	searchCmd.Flags().StringVar(&searchLocale, "locale", domain.DefaultLocale, "reader locale")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requirePersistentIndex(); err != nil {
		return err
	}
	engine, err := requireSearch()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	resp := engine.Query(cmd.Context(), query, domain.QueryOptions{
		Path:   searchPath,
		Locale: searchLocale,
	})
	if !resp.Available() {
		return fmt.Errorf("search unavailable: %w", resp.Err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}

	return outputSearchTable(cmd, resp.Results)
}

func outputSearchJSON(cmd *cobra.Command, resp domain.QueryResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title (description)
		cmd.Printf("  [%d] %s (%s)\n", i+1, results[i].Title, results[i].Description)
		cmd.Printf("      /%s/%s\n", results[i].Locale, results[i].Path)
		cmd.Println()
	}

	return nil
}
