package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sana-labs/recommender-cli/internal/matcher"
)

var matchCmd = &cobra.Command{
	Use:   "match <name>...",
	Short: "Resolve candidate product names against the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		m := matcher.New(cat, cfg.Matching.SimilarityThreshold)
		result, err := m.Match(ctx, args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
