package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sana-labs/recommender-cli/internal/model"
	"github.com/sana-labs/recommender-cli/internal/screening"
	anthropicpkg "github.com/sana-labs/recommender-cli/pkg/anthropic"
)

var screenCmd = &cobra.Command{
	Use:   "screen <text>",
	Short: "Extract product-name mentions from free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text := strings.Join(args, " ")

		aiClient := anthropicpkg.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RequestsPerSec)
		screener := screening.New(aiClient, cfg.Anthropic, cfg.Screening.MinTextLen)

		var usage model.TokenUsage
		names, err := screener.Screen(ctx, text, &usage)
		if err != nil {
			return err
		}

		anthropicpkg.TokenUsage{
			InputTokens:  int64(usage.InputTokens),
			OutputTokens: int64(usage.OutputTokens),
		}.LogCost(cfg.Anthropic.Model, "screen")

		if names == nil {
			names = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
}
