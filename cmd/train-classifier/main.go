// Command train-classifier fits the multi-label message classifier on the
// cleaned dataset, prints a per-category report for the held-out split and
// saves the fitted pipeline.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/relief/internal/cli"
	"github.com/cognicore/relief/pkg/relief"
	"github.com/cognicore/relief/pkg/relief/model"
	"github.com/cognicore/relief/pkg/relief/store/sqlite"
)

const usage = `Please provide the filepath of the disaster messages database as the first argument and the filepath of the model file to save the model to as the second argument.

Example: train-classifier ../data/DisasterResponse.db classifier.msgpack`

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags cli.Flags

	cmd := &cobra.Command{
		Use:   "train-classifier <db_path> <model_output_path>",
		Short: "Train and evaluate the disaster message classifier",
		Long: `train-classifier loads the cleaned dataset table, holds out a seeded test
partition, fits TF-IDF features and one gradient-boosted classifier per
category, prints the classification report and writes the model file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				fmt.Fprintln(cmd.OutOrStdout(), usage)
				return nil
			}
			return run(cmd.Context(), cmd.OutOrStdout(), &flags, args[0], args[1])
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(ctx context.Context, out io.Writer, flags *cli.Flags, dbPath, modelPath string) error {
	env, err := flags.Setup(out)
	if err != nil {
		return err
	}
	cfg := env.Config

	comp, err := cfg.Loader().Load()
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	res, err := relief.Train(ctx, relief.TrainOptions{
		Store:         st,
		Table:         cfg.Dataset.Table,
		MessageColumn: cfg.Train.MessageColumn,
		FirstLabel:    cfg.Train.FirstLabel,
		TestSize:      cfg.Train.TestSize,
		Seed:          cfg.Train.Seed,
		Model: model.Config{
			Tokenizer:  comp.Tokenizer,
			Vectorizer: cfg.VectorizerOptions(),
			Boost:      cfg.Boost,
			Workers:    cfg.Train.Workers,
		},
		ModelPath: modelPath,
		Report:    out,
		Logger:    env.Logger,
		Metrics:   env.Metrics,
	})
	if err != nil {
		return err
	}
	env.Logger.Debug("training finished", "model_id", res.Pipeline.ID, "train_rows", res.TrainRows, "test_rows", res.TestRows)
	return env.Finish()
}
