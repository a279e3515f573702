package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/pkg/anthropic"
)

var (
	recommendMessage string
	recommendReply   string
	recommendNoSave  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a full chat-turn recommendation",
	Long:  "Classifies the user message into known problem labels and pairs them with rule-table products, in parallel screens the assistant reply for product mentions and matches them against the catalog, then merges both lists.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if recommendMessage == "" && recommendReply == "" {
			return eris.New("at least one of --message and --reply is required")
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var runID string
		if !recommendNoSave {
			run, err := env.Store.CreateRun(ctx, recommendMessage)
			if err != nil {
				return err
			}
			runID = run.ID
		}

		set, usage, err := env.Engine.Recommend(ctx, recommendMessage, recommendReply)
		if err != nil {
			if runID != "" {
				if failErr := env.Store.FailRun(ctx, runID, err.Error()); failErr != nil {
					zap.L().Error("recommend: failed to record run failure", zap.Error(failErr))
				}
			}
			return err
		}

		anthropic.TokenUsage{
			InputTokens:  int64(usage.InputTokens),
			OutputTokens: int64(usage.OutputTokens),
		}.LogCost(cfg.Anthropic.Model, "recommend")

		if runID != "" {
			if err := env.Store.CompleteRun(ctx, runID, set, *usage, recommendReply); err != nil {
				return err
			}
			zap.L().Info("recommend: run persisted", zap.String("run_id", runID))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendMessage, "message", "m", "", "user message (problem classification input)")
	recommendCmd.Flags().StringVarP(&recommendReply, "reply", "r", "", "assistant reply (product screening input)")
	recommendCmd.Flags().BoolVar(&recommendNoSave, "no-save", false, "skip persisting the run")
	rootCmd.AddCommand(recommendCmd)
}
