package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the healing rule table",
}

// -- rules import --

var (
	rulesImportSheet string
	rulesImportDry   bool
)

var rulesImportCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import the rule table from an XLSX workbook into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		parsed, err := rules.ReadXLSX(args[0], rules.XLSXOptions{SheetName: rulesImportSheet})
		if err != nil {
			return err
		}
		zap.L().Info("rules import: parsed workbook",
			zap.String("file", args[0]),
			zap.Int("rules", len(parsed)),
		)

		if rulesImportDry {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(parsed)
		}

		src, err := rules.NewPostgres(ctx, rules.Config{
			URL:   cfg.Rules.DatabaseURL,
			Table: cfg.Rules.Table,
		})
		if err != nil {
			return err
		}
		defer src.Close()

		if err := src.ReplaceAll(ctx, parsed); err != nil {
			return eris.Wrap(err, "rules import")
		}
		zap.L().Info("rules import: table replaced", zap.Int("rules", len(parsed)))
		return nil
	},
}

// -- rules load --

var rulesLoadCmd = &cobra.Command{
	Use:   "load <fixtures.yaml>",
	Short: "Validate a YAML rule fixture file and print the parsed rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := rules.LoadYAML(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	},
}

// -- rules problems --

var rulesProblemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the distinct problem labels known to the rule table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, closeRules, err := initRules(ctx)
		if err != nil {
			return err
		}
		defer closeRules()

		labels, err := src.Problems(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	},
}

func init() {
	rulesImportCmd.Flags().StringVar(&rulesImportSheet, "sheet", "", "worksheet name (default first sheet)")
	rulesImportCmd.Flags().BoolVar(&rulesImportDry, "dry-run", false, "parse and print without writing to the database")

	rulesCmd.AddCommand(rulesImportCmd)
	rulesCmd.AddCommand(rulesLoadCmd)
	rulesCmd.AddCommand(rulesProblemsCmd)
	rootCmd.AddCommand(rulesCmd)
}
