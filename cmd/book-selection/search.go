// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword...>",
	Short: "Search the catalog for recently published books",
	Long: `Search sends one keyword query to the book catalog and prints the entries
published within the last year. Entries without a usable publication date
are kept. Use --json for machine-readable output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "entries requested from the catalog (default 30)")
	searchCmd.Flags().String("lang", "", "restrict results to one language (default ja)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	_ = viper.BindPFlag("catalog.max_results", searchCmd.Flags().Lookup("max-results"))
	_ = viper.BindPFlag("catalog.language", searchCmd.Flags().Lookup("lang"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jsonOut, _ := cmd.Flags().GetBool("json")
	keyword := strings.Join(args, " ")

	client := newCatalogClient(cfg)
	raw, err := client.Search(cmd.Context(), keyword)
	if err != nil {
		fmt.Fprintln(os.Stderr, session.StatusSearchFailed)
		return err
	}

	candidates := catalog.Normalize(raw, time.Now())
	if jsonOut {
		if err := catalog.FormatJSON(candidates, os.Stdout); err != nil {
			return err
		}
	}

	switch err := catalog.Outcome(len(raw), len(candidates)); {
	case errors.Is(err, catalog.ErrNoResults):
		fmt.Fprintln(os.Stderr, session.StatusNoResults)
		return nil
	case errors.Is(err, catalog.ErrNoRecentResults):
		fmt.Fprintln(os.Stderr, session.StatusNoRecentResults)
		return nil
	}

	if !jsonOut {
		catalog.FormatTable(candidates, os.Stdout)
	}
	fmt.Fprintf(os.Stderr, "%d of %d result(s) published since %s\n",
		len(candidates), len(raw), catalog.Cutoff(time.Now()).Format("2006-01-02"))
	return nil
}
