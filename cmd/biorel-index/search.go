// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biorel-index/internal/index"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Query the local SQLite index with full-text search and filters",
	Long: `Search queries the SQLite index using FTS5 full-text search over title,
abstract and relation text, structured filters (index, journal, date
range), or both. Full-text results are ranked by relevance.`,
	RunE: runSearch,
}

func openIndex() (*index.SQLiteSink, error) {
	return index.NewSQLiteSink(cfg.Index.DBPath, cfg.Index.MaxResults, log)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	name, _ := cmd.Flags().GetString("index")
	journal, _ := cmd.Flags().GetString("journal")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Index:      name,
		Query:      queryText,
		Journal:    journal,
		From:       from,
		To:         to,
		MaxResults: limit,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts == (index.QueryOptions{}) {
		return fmt.Errorf("query or filter required: provide a search query, --index, --journal, --from, or --to")
	}

	sink, err := openIndex()
	if err != nil {
		return err
	}
	defer sink.Close()

	results, err := sink.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []index.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-14s  %-50s  %-20s  %s\n",
		"Rank", "Index", "Doc", "Title", "Journal", "Date")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for i, r := range results {
		doc := r.Document
		date := ""
		if doc.ESDate != nil {
			date = *doc.ESDate
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-14s  %-50s  %-20s  %s\n",
			i+1, truncate(r.Index, 12), truncate(doc.DocID, 14), truncate(doc.Title, 50), truncate(doc.Journal, 20), date)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	searchCmd.Flags().String("query", "", "full-text search query")
	searchCmd.Flags().String("index", "", "restrict results to one index")
	searchCmd.Flags().String("journal", "", "filter by journal")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("index-db", "", "SQLite index file")
	configKey(searchCmd.Flags(), "index-db", "index.db_path")

	rootCmd.AddCommand(searchCmd)
}
