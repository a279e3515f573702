package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sana-labs/recommender-cli/internal/pairing"
)

var pairCmd = &cobra.Command{
	Use:   "pair <problem>...",
	Short: "Evaluate the healing rule table for problem labels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		ruleSrc, closeRules, err := initRules(ctx)
		if err != nil {
			return err
		}
		defer closeRules()

		p := pairing.New(ruleSrc, cat)
		result, err := p.Pair(ctx, args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(pairCmd)
}
